// Package schema defines the relational schema metadata consumed by the
// window derivation. Values are plain snapshots: once a loader returns
// them they are never mutated by this module.
package schema

import "strings"

// TableName is a schema-qualified table identity. Schema may be empty for
// engines without namespaces (SQLite).
type TableName struct {
	Schema string `json:"schema,omitempty"`
	Name   string `json:"name"`
}

// ParseTableName parses "schema.table" or a bare "table".
func ParseTableName(s string) TableName {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return TableName{Schema: s[:i], Name: s[i+1:]}
	}
	return TableName{Name: s}
}

// Complete returns the fully qualified name, or the bare name when no
// schema is set.
func (t TableName) Complete() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// ColumnName identifies a column within a table.
type ColumnName struct {
	Name string `json:"name"`
}

// Column represents a table column
type Column struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Nullable     bool    `json:"nullable"`
	DefaultValue *string `json:"default_value,omitempty"`
	IsUnique     bool    `json:"is_unique,omitempty"`
	Comment      string  `json:"comment,omitempty"`
}

// ForeignKey represents a foreign key constraint pointing at another table
type ForeignKey struct {
	Columns         []string  `json:"columns"`
	ReferredTable   TableName `json:"referred_table"`
	ReferredColumns []string  `json:"referred_columns"`
}

// Index represents a database index
type Index struct {
	Name     string   `json:"name"`
	Columns  []string `json:"columns"`
	IsUnique bool     `json:"is_unique"`
}

// Table represents a database table or view
type Table struct {
	Name        TableName    `json:"name"`
	Comment     string       `json:"comment,omitempty"`
	IsView      bool         `json:"is_view"`
	Columns     []Column     `json:"columns"`
	PrimaryKey  []string     `json:"primary_key,omitempty"`
	ForeignKeys []ForeignKey `json:"foreign_keys,omitempty"`
	Indexes     []Index      `json:"indexes,omitempty"`
}

// Column returns the named column, or nil if the table has no such column.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// IsPrimaryColumn reports whether the named column is part of the primary key.
func (t *Table) IsPrimaryColumn(name string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == name {
			return true
		}
	}
	return false
}

// TableGroup is the database's own grouping of tables and views, one per
// schema/namespace. Tables are listed before views.
type TableGroup struct {
	Schema string      `json:"schema"`
	Tables []TableName `json:"tables"`
	Views  []TableName `json:"views"`
}

// Find returns the table with the given identity, or nil when absent.
// Comparison is exact on schema and name.
func Find(name TableName, tables []Table) *Table {
	for i := range tables {
		if tables[i].Name == name {
			return &tables[i]
		}
	}
	return nil
}
