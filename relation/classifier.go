// Package relation implements the default relationship classifier: it
// decides which tables deserve a window of their own and classifies every
// other table as one-one, has-one, has-many, or indirect relative to a
// main table, using nothing but foreign keys, primary keys, and unique
// indexes.
package relation

import (
	"github.com/skaldic/schemanav/schema"
	"github.com/skaldic/schemanav/window"
)

// Classifier is stateless; a single value can serve every derivation.
type Classifier struct{}

// NewClassifier creates the default classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// IsWindowWorthy reports whether the table qualifies as a main-table
// candidate: any view, or any table with a primary key that is not a pure
// linker table. Linker tables surface through the windows of the tables
// they associate, never on their own.
func (c *Classifier) IsWindowWorthy(table *schema.Table, all []schema.Table) bool {
	if table.IsView {
		return true
	}
	return len(table.PrimaryKey) > 0 && !isLinkerTable(table)
}

// OneOne returns tables linked 1:1 to the given table: their foreign key
// to it covers their whole primary key, or is backed by a unique
// constraint, so at most one related row can exist per main row.
func (c *Classifier) OneOne(table *schema.Table, all []schema.Table) []*schema.Table {
	var related []*schema.Table
	for i := range all {
		other := &all[i]
		if other.Name == table.Name {
			continue
		}
		if isOneOneTo(other, table) {
			related = append(related, other)
		}
	}
	return related
}

// HasOne returns the tables referred to by the given table's foreign
// keys, in foreign-key order. Self-references are skipped.
func (c *Classifier) HasOne(table *schema.Table, all []schema.Table) []*schema.Table {
	var related []*schema.Table
	for _, fk := range table.ForeignKeys {
		if fk.ReferredTable == table.Name {
			continue
		}
		if referred := schema.Find(fk.ReferredTable, all); referred != nil {
			related = append(related, referred)
		}
	}
	return related
}

// HasMany returns tables with a plain foreign key to the given table, in
// table-set order. One-one tables and linker tables are excluded; the
// former are owned sub-records, the latter surface as indirect relations.
func (c *Classifier) HasMany(table *schema.Table, all []schema.Table) []*schema.Table {
	var related []*schema.Table
	for i := range all {
		other := &all[i]
		if other.Name == table.Name {
			continue
		}
		if !refersTo(other, table.Name) {
			continue
		}
		if isLinkerTable(other) || isOneOneTo(other, table) {
			continue
		}
		related = append(related, other)
	}
	return related
}

// Indirect returns the many-to-many paths from the given table: for every
// linker table with a foreign key to it, one relation per foreign key
// pointing elsewhere. The same target repeats when distinct linkers reach
// it.
func (c *Classifier) Indirect(table *schema.Table, all []schema.Table) []window.IndirectRelation {
	var relations []window.IndirectRelation
	for i := range all {
		linker := &all[i]
		if !isLinkerTable(linker) || !refersTo(linker, table.Name) {
			continue
		}
		for _, fk := range linker.ForeignKeys {
			if fk.ReferredTable == table.Name {
				continue
			}
			if target := schema.Find(fk.ReferredTable, all); target != nil {
				relations = append(relations, window.IndirectRelation{
					Linker: linker.Name,
					Target: target,
				})
			}
		}
	}
	return relations
}

// isLinkerTable reports whether the table is a pure association table:
// exactly two foreign keys, with every primary-key column belonging to
// one of them.
func isLinkerTable(table *schema.Table) bool {
	if len(table.ForeignKeys) != 2 || len(table.PrimaryKey) == 0 {
		return false
	}
	for _, pk := range table.PrimaryKey {
		if !inForeignKey(table, pk) {
			return false
		}
	}
	return true
}

func inForeignKey(table *schema.Table, column string) bool {
	for _, fk := range table.ForeignKeys {
		for _, c := range fk.Columns {
			if c == column {
				return true
			}
		}
	}
	return false
}

func refersTo(table *schema.Table, target schema.TableName) bool {
	for _, fk := range table.ForeignKeys {
		if fk.ReferredTable == target {
			return true
		}
	}
	return false
}

// isOneOneTo reports whether table's foreign key to target is constrained
// to at most one row per target row.
func isOneOneTo(table *schema.Table, target *schema.Table) bool {
	for _, fk := range table.ForeignKeys {
		if fk.ReferredTable != target.Name {
			continue
		}
		if sameColumnSet(fk.Columns, table.PrimaryKey) {
			return true
		}
		if uniquelyIndexed(table, fk.Columns) {
			return true
		}
	}
	return false
}

func sameColumnSet(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	for _, col := range a {
		found := false
		for _, other := range b {
			if col == other {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func uniquelyIndexed(table *schema.Table, columns []string) bool {
	if len(columns) == 1 {
		if col := table.Column(columns[0]); col != nil && col.IsUnique {
			return true
		}
	}
	for _, idx := range table.Indexes {
		if idx.IsUnique && sameColumnSet(idx.Columns, columns) {
			return true
		}
	}
	return false
}
