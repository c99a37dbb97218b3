// Package tab implements the default tab builder: the projection of one
// table into the flat field descriptor a window carries for it.
package tab

import (
	"github.com/skaldic/schemanav/schema"
	"github.com/skaldic/schemanav/window"
)

// Builder builds tabs by snapshotting the table's columns. Stateless.
type Builder struct{}

// NewBuilder creates the default tab builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildTab projects the table into a tab. displayName overrides the tab
// name when non-empty; the table identity is kept either way. Fields are
// copied, so the tab outlives the table list it was built from.
func (b *Builder) BuildTab(table *schema.Table, displayName string, all []schema.Table) window.Tab {
	name := displayName
	if name == "" {
		name = table.Name.Name
	}

	fields := make([]window.Field, 0, len(table.Columns))
	for _, col := range table.Columns {
		fields = append(fields, window.Field{
			Name:       col.Name,
			ColumnName: schema.ColumnName{Name: col.Name},
			DataType:   col.Type,
			Nullable:   col.Nullable,
			IsPrimary:  table.IsPrimaryColumn(col.Name),
		})
	}

	return window.Tab{
		Name:        name,
		Description: table.Comment,
		TableName:   table.Name,
		IsView:      table.IsView,
		Fields:      fields,
	}
}
