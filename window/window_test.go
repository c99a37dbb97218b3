package window_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skaldic/schemanav/relation"
	"github.com/skaldic/schemanav/schema"
	"github.com/skaldic/schemanav/tab"
	"github.com/skaldic/schemanav/window"
)

func newDeriver() *window.Deriver {
	return window.NewDeriver(relation.NewClassifier(), tab.NewBuilder())
}

func fk(columns []string, referred string, referredColumns ...string) schema.ForeignKey {
	return schema.ForeignKey{
		Columns:         columns,
		ReferredTable:   schema.ParseTableName(referred),
		ReferredColumns: referredColumns,
	}
}

func table(name string, columns []string, pk []string, fks ...schema.ForeignKey) schema.Table {
	t := schema.Table{
		Name:        schema.ParseTableName(name),
		PrimaryKey:  pk,
		ForeignKeys: fks,
	}
	for _, c := range columns {
		t.Columns = append(t.Columns, schema.Column{Name: c, Type: "text"})
	}
	return t
}

// storeTables is the product fixture: product with a one-one
// availability record, an owning user, order items pointing back at it,
// and category/photo/review reachable through linker tables.
func storeTables() []schema.Table {
	return []schema.Table{
		table("store.users", []string{"user_id", "username"}, []string{"user_id"}),
		table("store.product", []string{"product_id", "name", "owner_id"}, []string{"product_id"},
			fk([]string{"owner_id"}, "store.users", "user_id")),
		table("store.product_availability", []string{"product_id", "available"}, []string{"product_id"},
			fk([]string{"product_id"}, "store.product", "product_id")),
		table("store.category", []string{"category_id", "name"}, []string{"category_id"}),
		table("store.photo", []string{"photo_id", "url"}, []string{"photo_id"}),
		table("store.review", []string{"review_id", "comment", "user_id"}, []string{"review_id"},
			fk([]string{"user_id"}, "store.users", "user_id")),
		table("store.product_category", []string{"product_id", "category_id"}, []string{"product_id", "category_id"},
			fk([]string{"product_id"}, "store.product", "product_id"),
			fk([]string{"category_id"}, "store.category", "category_id")),
		table("store.product_photo", []string{"product_id", "photo_id"}, []string{"product_id", "photo_id"},
			fk([]string{"product_id"}, "store.product", "product_id"),
			fk([]string{"photo_id"}, "store.photo", "photo_id")),
		table("store.product_review", []string{"product_id", "review_id"}, []string{"product_id", "review_id"},
			fk([]string{"product_id"}, "store.product", "product_id"),
			fk([]string{"review_id"}, "store.review", "review_id")),
		table("store.order_item", []string{"order_item_id", "product_id", "quantity"}, []string{"order_item_id"},
			fk([]string{"product_id"}, "store.product", "product_id")),
	}
}

func TestDeriveProductWindow(t *testing.T) {
	tables := storeTables()
	windows := newDeriver().DeriveAll(tables)

	w := window.Find(schema.ParseTableName("store.product"), windows)
	require.NotNil(t, w)

	require.Len(t, w.OneOneTabs, 1)
	assert.Equal(t, "product_availability", w.OneOneTabs[0].TableName.Name)

	require.Len(t, w.HasOneTabs, 1)
	assert.Equal(t, "users", w.HasOneTabs[0].TableName.Name)

	require.Len(t, w.HasManyTabs, 1)
	assert.Equal(t, "order_item", w.HasManyTabs[0].TableName.Name)

	require.Len(t, w.IndirectTabs, 3)
	assert.Equal(t, "category", w.IndirectTabs[0].Tab.TableName.Name)
	assert.Equal(t, "photo", w.IndirectTabs[1].Tab.TableName.Name)
	assert.Equal(t, "review", w.IndirectTabs[2].Tab.TableName.Name)

	// single-linker targets keep their bare names
	assert.Equal(t, "category", w.IndirectTabs[0].Tab.Name)
	assert.Equal(t, "store.product_category", w.IndirectTabs[0].Linker.Complete())
}

func TestLinkerTablesGetNoWindow(t *testing.T) {
	tables := storeTables()
	windows := newDeriver().DeriveAll(tables)

	assert.Nil(t, window.Find(schema.ParseTableName("store.product_category"), windows))
	assert.Nil(t, window.Find(schema.ParseTableName("store.product_photo"), windows))
	assert.Nil(t, window.Find(schema.ParseTableName("store.product_review"), windows))
}

func TestTableWithoutPrimaryKeyGetsNoWindow(t *testing.T) {
	tables := append(storeTables(),
		table("store.audit_log", []string{"entry", "logged_at"}, nil))
	windows := newDeriver().DeriveAll(tables)

	assert.Nil(t, window.Find(schema.ParseTableName("store.audit_log"), windows))
}

func TestDerivationFollowsInputOrder(t *testing.T) {
	tables := storeTables()
	windows := newDeriver().DeriveAll(tables)

	var names []string
	for i := range windows {
		names = append(names, windows[i].MainTab.TableName.Name)
	}
	assert.Equal(t, []string{"users", "product", "product_availability", "category", "photo", "review", "order_item"}, names)
}

func TestWindowMirrorsMainTab(t *testing.T) {
	tables := storeTables()
	tables[1].Comment = "things for sale"
	windows := newDeriver().DeriveAll(tables)

	for i := range windows {
		w := &windows[i]
		assert.Equal(t, w.MainTab.Name, w.Name)
		assert.Equal(t, w.MainTab.Description, w.Description)
		assert.Equal(t, w.MainTab.TableName.Schema, w.Group)
		assert.Equal(t, w.MainTab.IsView, w.IsView)
	}

	w := window.Find(schema.ParseTableName("store.product"), windows)
	require.NotNil(t, w)
	assert.Equal(t, "things for sale", w.Description)
	assert.Equal(t, "store", w.Group)
}

func TestIndirectDisambiguation(t *testing.T) {
	tables := []schema.Table{
		table("store.product", []string{"product_id", "name"}, []string{"product_id"}),
		table("store.tag", []string{"tag_id", "label"}, []string{"tag_id"}),
		table("store.product_tag", []string{"product_id", "tag_id"}, []string{"product_id", "tag_id"},
			fk([]string{"product_id"}, "store.product", "product_id"),
			fk([]string{"tag_id"}, "store.tag", "tag_id")),
		table("store.review_tag", []string{"product_id", "tag_id"}, []string{"product_id", "tag_id"},
			fk([]string{"product_id"}, "store.product", "product_id"),
			fk([]string{"tag_id"}, "store.tag", "tag_id")),
	}
	windows := newDeriver().DeriveAll(tables)

	w := window.Find(schema.ParseTableName("store.product"), windows)
	require.NotNil(t, w)
	require.Len(t, w.IndirectTabs, 2)

	// never two tabs both bare-named "tag"
	assert.Equal(t, "tag (via product_tag)", w.IndirectTabs[0].Tab.Name)
	assert.Equal(t, "tag (via review_tag)", w.IndirectTabs[1].Tab.Name)

	// the underlying table identity stays untouched
	assert.Equal(t, "tag", w.IndirectTabs[0].Tab.TableName.Name)
	assert.Equal(t, "tag", w.IndirectTabs[1].Tab.TableName.Name)
}

func TestFindIsExact(t *testing.T) {
	tables := storeTables()
	windows := newDeriver().DeriveAll(tables)

	assert.NotNil(t, window.Find(schema.ParseTableName("store.product"), windows))

	// no prefix, case, or schema-less matches
	assert.Nil(t, window.Find(schema.ParseTableName("store.prod"), windows))
	assert.Nil(t, window.Find(schema.ParseTableName("store.Product"), windows))
	assert.Nil(t, window.Find(schema.ParseTableName("product"), windows))
	assert.Nil(t, window.Find(schema.ParseTableName("other.product"), windows))
}

func TestWindowHasColumnName(t *testing.T) {
	tables := storeTables()
	windows := newDeriver().DeriveAll(tables)

	w := window.Find(schema.ParseTableName("store.product"), windows)
	require.NotNil(t, w)

	// main tab
	assert.True(t, w.HasColumnName(schema.ColumnName{Name: "product_id"}))

	// present only in the has-many tab (order_item)
	assert.True(t, w.HasColumnName(schema.ColumnName{Name: "quantity"}))

	// present only in an indirect tab (photo)
	assert.True(t, w.HasColumnName(schema.ColumnName{Name: "url"}))

	// present only in the has-one tab (users): excluded even though the
	// table sits on this window
	require.True(t, w.HasOneTabs[0].HasColumnName(schema.ColumnName{Name: "username"}))
	assert.False(t, w.HasColumnName(schema.ColumnName{Name: "username"}))

	// present only in the one-one tab (product_availability): excluded
	require.True(t, w.OneOneTabs[0].HasColumnName(schema.ColumnName{Name: "available"}))
	assert.False(t, w.HasColumnName(schema.ColumnName{Name: "available"}))

	assert.False(t, w.HasColumnName(schema.ColumnName{Name: "no_such_column"}))
}

func TestGroupWindows(t *testing.T) {
	tables := storeTables()
	view := table("store.active_products", []string{"product_id", "name"}, nil)
	view.IsView = true
	tables = append(tables, view)

	groups := []schema.TableGroup{
		{
			Schema: "store",
			Tables: []schema.TableName{
				schema.ParseTableName("store.product"),
				schema.ParseTableName("store.product_category"),
			},
			Views: []schema.TableName{
				schema.ParseTableName("store.active_products"),
			},
		},
	}

	grouped := window.GroupWindows(groups, tables, relation.NewClassifier())
	require.Len(t, grouped, 1)
	assert.Equal(t, "store", grouped[0].Group)

	// the linker table is filtered out; the view survives after the table
	require.Len(t, grouped[0].WindowNames, 2)
	assert.Equal(t, "product", grouped[0].WindowNames[0].Name)
	assert.False(t, grouped[0].WindowNames[0].IsView)
	assert.Equal(t, "active_products", grouped[0].WindowNames[1].Name)
	assert.True(t, grouped[0].WindowNames[1].IsView)
}

func TestGroupWindowsFiltersNonWorthy(t *testing.T) {
	tables := storeTables()
	groups := []schema.TableGroup{
		{
			Schema: "store",
			Tables: []schema.TableName{
				schema.ParseTableName("store.product"),
				schema.ParseTableName("store.product_photo"),
			},
		},
	}

	grouped := window.GroupWindows(groups, tables, relation.NewClassifier())
	require.Len(t, grouped, 1)
	require.Len(t, grouped[0].WindowNames, 1)
	assert.Equal(t, "product", grouped[0].WindowNames[0].Name)
}
