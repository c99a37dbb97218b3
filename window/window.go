// Package window derives a navigation model from relational schema
// metadata: one Window per window-worthy table, carrying the tabs for
// every table reachable from it through one-one, has-one, has-many, and
// indirect (many-to-many) relationships.
package window

import "github.com/skaldic/schemanav/schema"

// IndirectTab is a tab for a table reached through a linking table. The
// linker identity is kept so clients can address the association rows.
type IndirectTab struct {
	Linker schema.TableName `json:"linker"`
	Tab    Tab              `json:"tab"`
}

// Window is the navigation aggregate for one main table. Name,
// Description, Group, and IsView are copied from MainTab when the window
// is built and never recomputed afterwards.
type Window struct {
	// maps to the main table name
	Name string `json:"name"`

	// maps to the table comment
	Description string `json:"description,omitempty"`

	// group this window belongs to, maps to the table schema
	Group string `json:"group,omitempty"`

	// corresponds to the main table
	MainTab Tab `json:"main_tab"`

	// tables referred to by foreign keys on the main table
	HasOneTabs []Tab `json:"has_one_tabs"`

	// records linked 1:1 to the main record, owned and edited in this window
	OneOneTabs []Tab `json:"one_one_tabs"`

	// tables whose foreign keys refer to the selected record, 1:M
	HasManyTabs []Tab `json:"has_many_tabs"`

	// indirect connections to the main record, one per (linker, target) pair
	IndirectTabs []IndirectTab `json:"indirect_tabs"`

	IsView bool `json:"is_view"`
}

// HasColumnName reports whether the column appears in the main tab, a
// has-many tab, or an indirect tab. Has-one and one-one tabs are
// deliberately left out: those sections are edited through the main
// record, not searched on their own.
func (w *Window) HasColumnName(column schema.ColumnName) bool {
	if w.MainTab.HasColumnName(column) {
		return true
	}
	for i := range w.HasManyTabs {
		if w.HasManyTabs[i].HasColumnName(column) {
			return true
		}
	}
	for i := range w.IndirectTabs {
		if w.IndirectTabs[i].Tab.HasColumnName(column) {
			return true
		}
	}
	return false
}

// WindowName is a lightweight window summary for listings.
type WindowName struct {
	Name      string           `json:"name"`
	TableName schema.TableName `json:"table_name"`
	IsView    bool             `json:"is_view"`
}

// GroupedWindow lists the windows of one schema group.
type GroupedWindow struct {
	Group       string       `json:"group"`
	WindowNames []WindowName `json:"window_names"`
}

// Find returns the first window whose main table identity matches exactly,
// or nil when none does.
func Find(name schema.TableName, windows []Window) *Window {
	for i := range windows {
		if windows[i].MainTab.TableName == name {
			return &windows[i]
		}
	}
	return nil
}
