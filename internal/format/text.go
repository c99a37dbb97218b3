// Package format renders the derived navigation model as text or
// markdown, to one writer or one file per window.
package format

import (
	"fmt"
	"io"

	"github.com/skaldic/schemanav/window"
)

// TextFormatter renders windows as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the grouped window listing
func (f *TextFormatter) Format(grouped []window.GroupedWindow) error {
	for i, g := range grouped {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer)
		}
		_, _ = fmt.Fprintf(f.writer, "GROUP %s\n", g.Group)
		for _, wn := range g.WindowNames {
			marker := ""
			if wn.IsView {
				marker = " (view)"
			}
			_, _ = fmt.Fprintf(f.writer, "  %s%s\n", wn.TableName.Complete(), marker)
		}
	}
	return nil
}

// FormatWindow writes one window in full detail
func (f *TextFormatter) FormatWindow(w *window.Window) error {
	marker := ""
	if w.IsView {
		marker = " (view)"
	}
	_, _ = fmt.Fprintf(f.writer, "WINDOW %s%s\n", w.MainTab.TableName.Complete(), marker)
	if w.Description != "" {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", w.Description)
	}

	for _, field := range w.MainTab.Fields {
		pk := ""
		if field.IsPrimary {
			pk = " PK"
		}
		_, _ = fmt.Fprintf(f.writer, "  %s: %s%s\n", field.Name, field.DataType, pk)
	}

	f.formatSection("HAS ONE", w.HasOneTabs)
	f.formatSection("ONE-ONE", w.OneOneTabs)
	f.formatSection("HAS MANY", w.HasManyTabs)

	if len(w.IndirectTabs) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  INDIRECT:")
		for _, ind := range w.IndirectTabs {
			_, _ = fmt.Fprintf(f.writer, "    %s (via %s)\n", ind.Tab.TableName.Complete(), ind.Linker.Complete())
		}
	}
	return nil
}

func (f *TextFormatter) formatSection(label string, tabs []window.Tab) {
	if len(tabs) == 0 {
		return
	}
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintf(f.writer, "  %s:\n", label)
	for i := range tabs {
		_, _ = fmt.Fprintf(f.writer, "    %s\n", tabs[i].TableName.Complete())
	}
}
