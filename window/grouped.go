package window

import "github.com/skaldic/schemanav/schema"

// GroupWindows projects the database's own table grouping into a grouped
// window listing for navigation menus. Within each group only
// window-worthy tables survive, re-checked through the classifier rather
// than the derived window set since only the worthy/not-worthy predicate
// is needed here. Group-internal order is preserved: tables first, then
// views, each in the order the grouping provided.
func GroupWindows(groups []schema.TableGroup, tables []schema.Table, classifier Classifier) []GroupedWindow {
	grouped := make([]GroupedWindow, 0, len(groups))
	for _, g := range groups {
		names := make([]WindowName, 0, len(g.Tables)+len(g.Views))
		for _, tn := range append(append([]schema.TableName{}, g.Tables...), g.Views...) {
			table := schema.Find(tn, tables)
			if table == nil {
				continue
			}
			if !classifier.IsWindowWorthy(table, tables) {
				continue
			}
			names = append(names, WindowName{
				Name:      tn.Name,
				TableName: tn,
				IsView:    table.IsView,
			})
		}
		grouped = append(grouped, GroupedWindow{Group: g.Schema, WindowNames: names})
	}
	return grouped
}
