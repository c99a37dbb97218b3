package window

import (
	"fmt"

	"github.com/skaldic/schemanav/schema"
)

// IndirectRelation is one many-to-many path from a main table: the main
// table connects to Target through the Linker association table. The same
// target may be reached through several distinct linkers.
type IndirectRelation struct {
	Linker schema.TableName
	Target *schema.Table
}

// Classifier answers relationship questions about one table relative to
// the full table set. Implementations must be stateless; result ordering
// must be deterministic since it dictates tab ordering.
type Classifier interface {
	// IsWindowWorthy reports whether the table qualifies as a main-table
	// candidate.
	IsWindowWorthy(table *schema.Table, all []schema.Table) bool

	// OneOne returns tables linked 1:1 to the given table.
	OneOne(table *schema.Table, all []schema.Table) []*schema.Table

	// HasOne returns tables referred to by the given table's foreign keys.
	HasOne(table *schema.Table, all []schema.Table) []*schema.Table

	// HasMany returns tables whose foreign keys refer to the given table.
	HasMany(table *schema.Table, all []schema.Table) []*schema.Table

	// Indirect returns the many-to-many paths from the given table.
	Indirect(table *schema.Table, all []schema.Table) []IndirectRelation
}

// TabBuilder turns a table into a flat tab descriptor. displayName
// overrides the tab name when non-empty.
type TabBuilder interface {
	BuildTab(table *schema.Table, displayName string, all []schema.Table) Tab
}

// Deriver derives windows from a table set using an injected classifier
// and tab builder. It holds no mutable state and is safe for concurrent
// use.
type Deriver struct {
	classifier Classifier
	tabs       TabBuilder
}

// NewDeriver creates a deriver over the given classifier and tab builder.
func NewDeriver(classifier Classifier, tabs TabBuilder) *Deriver {
	return &Deriver{classifier: classifier, tabs: tabs}
}

// DeriveAll builds a window for every window-worthy table, in input
// order. Derivation is pure: it never fails and never mutates tables.
func (d *Deriver) DeriveAll(tables []schema.Table) []Window {
	windows := make([]Window, 0, len(tables))
	for i := range tables {
		table := &tables[i]
		if !d.classifier.IsWindowWorthy(table, tables) {
			continue
		}
		oneOne := d.classifier.OneOne(table, tables)
		hasOne := d.classifier.HasOne(table, tables)
		hasMany := d.classifier.HasMany(table, tables)
		indirect := d.classifier.Indirect(table, tables)
		windows = append(windows, d.buildWindow(table, oneOne, hasOne, hasMany, indirect, tables))
	}
	return windows
}

// buildWindow assembles one window. Related-tab ordering follows the
// classifier's ordering untouched.
func (d *Deriver) buildWindow(
	main *schema.Table,
	oneOne, hasOne, hasMany []*schema.Table,
	indirect []IndirectRelation,
	all []schema.Table,
) Window {
	mainTab := d.tabs.BuildTab(main, "", all)

	oneOneTabs := make([]Tab, 0, len(oneOne))
	for _, t := range oneOne {
		oneOneTabs = append(oneOneTabs, d.tabs.BuildTab(t, "", all))
	}
	hasOneTabs := make([]Tab, 0, len(hasOne))
	for _, t := range hasOne {
		hasOneTabs = append(hasOneTabs, d.tabs.BuildTab(t, "", all))
	}
	hasManyTabs := make([]Tab, 0, len(hasMany))
	for _, t := range hasMany {
		hasManyTabs = append(hasManyTabs, d.tabs.BuildTab(t, "", all))
	}

	indirectTabs := make([]IndirectTab, 0, len(indirect))
	for _, ind := range indirect {
		// A target reachable through more than one linker would produce
		// identically named tabs; qualify each with its linker.
		displayName := ""
		if hasRepeatingTarget(ind.Target.Name, indirect) {
			displayName = fmt.Sprintf("%s (via %s)", ind.Target.Name.Name, ind.Linker.Name)
		}
		indirectTabs = append(indirectTabs, IndirectTab{
			Linker: ind.Linker,
			Tab:    d.tabs.BuildTab(ind.Target, displayName, all),
		})
	}

	return Window{
		Name:         mainTab.Name,
		Description:  mainTab.Description,
		Group:        mainTab.TableName.Schema,
		MainTab:      mainTab,
		HasOneTabs:   hasOneTabs,
		OneOneTabs:   oneOneTabs,
		HasManyTabs:  hasManyTabs,
		IndirectTabs: indirectTabs,
		IsView:       mainTab.IsView,
	}
}

func hasRepeatingTarget(target schema.TableName, indirect []IndirectRelation) bool {
	matched := 0
	for _, ind := range indirect {
		if ind.Target.Name == target {
			matched++
		}
	}
	return matched > 1
}
