package tab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skaldic/schemanav/schema"
	"github.com/skaldic/schemanav/tab"
)

func productTable() schema.Table {
	return schema.Table{
		Name:       schema.ParseTableName("store.product"),
		Comment:    "things for sale",
		PrimaryKey: []string{"product_id"},
		Columns: []schema.Column{
			{Name: "product_id", Type: "integer"},
			{Name: "name", Type: "varchar(255)"},
			{Name: "price", Type: "numeric", Nullable: true},
		},
	}
}

func TestBuildTab(t *testing.T) {
	table := productTable()
	built := tab.NewBuilder().BuildTab(&table, "", nil)

	assert.Equal(t, "product", built.Name)
	assert.Equal(t, "things for sale", built.Description)
	assert.Equal(t, schema.ParseTableName("store.product"), built.TableName)
	assert.False(t, built.IsView)

	require.Len(t, built.Fields, 3)
	assert.Equal(t, "product_id", built.Fields[0].Name)
	assert.True(t, built.Fields[0].IsPrimary)
	assert.Equal(t, "varchar(255)", built.Fields[1].DataType)
	assert.False(t, built.Fields[1].IsPrimary)
	assert.True(t, built.Fields[2].Nullable)
}

func TestBuildTabDisplayNameOverride(t *testing.T) {
	table := productTable()
	built := tab.NewBuilder().BuildTab(&table, "product (via product_tag)", nil)

	assert.Equal(t, "product (via product_tag)", built.Name)
	// identity is untouched by the display override
	assert.Equal(t, schema.ParseTableName("store.product"), built.TableName)
}

func TestBuildTabMirrorsView(t *testing.T) {
	table := productTable()
	table.IsView = true
	built := tab.NewBuilder().BuildTab(&table, "", nil)

	assert.True(t, built.IsView)
}

func TestTabHasColumnName(t *testing.T) {
	table := productTable()
	built := tab.NewBuilder().BuildTab(&table, "", nil)

	assert.True(t, built.HasColumnName(schema.ColumnName{Name: "price"}))
	assert.False(t, built.HasColumnName(schema.ColumnName{Name: "quantity"}))
}
