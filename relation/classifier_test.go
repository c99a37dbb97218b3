package relation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skaldic/schemanav/relation"
	"github.com/skaldic/schemanav/schema"
)

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

func fixtureTables() []schema.Table {
	return []schema.Table{
		table("app.users", []string{"user_id", "username"}, []string{"user_id"}),
		table("app.profile", []string{"profile_id", "user_id", "bio"}, []string{"profile_id"},
			fk([]string{"user_id"}, "app.users", "user_id")),
		table("app.settings", []string{"user_id", "theme"}, []string{"user_id"},
			fk([]string{"user_id"}, "app.users", "user_id")),
		table("app.post", []string{"post_id", "author_id", "parent_id"}, []string{"post_id"},
			fk([]string{"author_id"}, "app.users", "user_id"),
			fk([]string{"parent_id"}, "app.post", "post_id")),
		table("app.role", []string{"role_id", "label"}, []string{"role_id"}),
		table("app.user_role", []string{"user_id", "role_id"}, []string{"user_id", "role_id"},
			fk([]string{"user_id"}, "app.users", "user_id"),
			fk([]string{"role_id"}, "app.role", "role_id")),
	}
}

func TestIsWindowWorthy(t *testing.T) {
	c := relation.NewClassifier()
	tables := fixtureTables()

	tests := []struct {
		name   string
		worthy bool
	}{
		{"app.users", true},
		{"app.profile", true},
		{"app.post", true},
		{"app.user_role", false}, // pure linker
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := schema.Find(schema.ParseTableName(tt.name), tables)
			require.NotNil(t, found)
			assert.Equal(t, tt.worthy, c.IsWindowWorthy(found, tables))
		})
	}
}

func TestViewsAreWindowWorthy(t *testing.T) {
	c := relation.NewClassifier()
	view := table("app.active_users", []string{"user_id", "username"}, nil)
	view.IsView = true
	tables := append(fixtureTables(), view)

	assert.True(t, c.IsWindowWorthy(&tables[len(tables)-1], tables))
}

func TestTableWithoutPrimaryKeyIsNotWorthy(t *testing.T) {
	c := relation.NewClassifier()
	tables := append(fixtureTables(),
		table("app.audit_log", []string{"entry"}, nil))

	assert.False(t, c.IsWindowWorthy(&tables[len(tables)-1], tables))
}

func TestOneOneViaPrimaryKeyForeignKey(t *testing.T) {
	c := relation.NewClassifier()
	tables := fixtureTables()
	users := schema.Find(schema.ParseTableName("app.users"), tables)

	// settings' FK to users covers its whole primary key
	related := c.OneOne(users, tables)
	require.Len(t, related, 1)
	assert.Equal(t, "settings", related[0].Name.Name)
}

func TestOneOneViaUniqueColumn(t *testing.T) {
	c := relation.NewClassifier()
	tables := fixtureTables()

	// make profile.user_id unique: profile becomes one-one to users
	profile := schema.Find(schema.ParseTableName("app.profile"), tables)
	profile.Column("user_id").IsUnique = true

	users := schema.Find(schema.ParseTableName("app.users"), tables)
	related := c.OneOne(users, tables)
	require.Len(t, related, 2)
	assert.Equal(t, "profile", related[0].Name.Name)
	assert.Equal(t, "settings", related[1].Name.Name)
}

func TestOneOneViaUniqueIndex(t *testing.T) {
	c := relation.NewClassifier()
	tables := fixtureTables()

	profile := schema.Find(schema.ParseTableName("app.profile"), tables)
	profile.Indexes = []schema.Index{{Name: "profile_user_uq", Columns: []string{"user_id"}, IsUnique: true}}

	users := schema.Find(schema.ParseTableName("app.users"), tables)
	related := c.OneOne(users, tables)
	require.Len(t, related, 2)
	assert.Equal(t, "profile", related[0].Name.Name)
}

func TestHasOneFollowsForeignKeyOrderAndSkipsSelf(t *testing.T) {
	c := relation.NewClassifier()
	tables := fixtureTables()
	post := schema.Find(schema.ParseTableName("app.post"), tables)

	related := c.HasOne(post, tables)
	require.Len(t, related, 1)
	assert.Equal(t, "users", related[0].Name.Name)
}

func TestHasManyExcludesLinkersAndOneOne(t *testing.T) {
	c := relation.NewClassifier()
	tables := fixtureTables()
	users := schema.Find(schema.ParseTableName("app.users"), tables)

	related := c.HasMany(users, tables)
	require.Len(t, related, 2)
	assert.Equal(t, "profile", related[0].Name.Name)
	assert.Equal(t, "post", related[1].Name.Name)
}

func TestIndirect(t *testing.T) {
	c := relation.NewClassifier()
	tables := fixtureTables()
	users := schema.Find(schema.ParseTableName("app.users"), tables)

	relations := c.Indirect(users, tables)
	require.Len(t, relations, 1)
	assert.Equal(t, "user_role", relations[0].Linker.Name)
	assert.Equal(t, "role", relations[0].Target.Name.Name)
}

func TestIndirectRepeatsTargetPerLinker(t *testing.T) {
	c := relation.NewClassifier()
	tables := append(fixtureTables(),
		table("app.user_role_history", []string{"user_id", "role_id"}, []string{"user_id", "role_id"},
			fk([]string{"user_id"}, "app.users", "user_id"),
			fk([]string{"role_id"}, "app.role", "role_id")))
	users := schema.Find(schema.ParseTableName("app.users"), tables)

	relations := c.Indirect(users, tables)
	require.Len(t, relations, 2)
	assert.Equal(t, "user_role", relations[0].Linker.Name)
	assert.Equal(t, "user_role_history", relations[1].Linker.Name)
	assert.Equal(t, "role", relations[0].Target.Name.Name)
	assert.Equal(t, "role", relations[1].Target.Name.Name)
}
