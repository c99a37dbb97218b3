package window

import "github.com/skaldic/schemanav/schema"

// Field is one column of a tab, snapshotted from the source table so a Tab
// stays valid after the table list it was built from is gone.
type Field struct {
	Name       string            `json:"name"`
	ColumnName schema.ColumnName `json:"column_name"`
	DataType   string            `json:"data_type"`
	Nullable   bool              `json:"nullable"`
	IsPrimary  bool              `json:"is_primary"`
}

// Tab is a UI-facing projection of a single table's fields. Name carries
// the display-name override when one was applied, otherwise the bare
// table name.
type Tab struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	TableName   schema.TableName `json:"table_name"`
	IsView      bool             `json:"is_view"`
	Fields      []Field          `json:"fields"`
}

// HasColumnName reports whether the tab contains the given column.
func (t *Tab) HasColumnName(column schema.ColumnName) bool {
	for i := range t.Fields {
		if t.Fields[i].ColumnName == column {
			return true
		}
	}
	return false
}
