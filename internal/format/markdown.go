package format

import (
	"fmt"
	"io"

	"github.com/skaldic/schemanav/window"
)

// MarkdownFormatter renders windows as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the grouped window listing
func (f *MarkdownFormatter) Format(grouped []window.GroupedWindow) error {
	_, _ = fmt.Fprintln(f.writer, "# Navigation")
	_, _ = fmt.Fprintln(f.writer)

	for _, g := range grouped {
		_, _ = fmt.Fprintf(f.writer, "## %s\n\n", g.Group)
		for _, wn := range g.WindowNames {
			if wn.IsView {
				_, _ = fmt.Fprintf(f.writer, "- **%s** (view)\n", wn.TableName.Complete())
			} else {
				_, _ = fmt.Fprintf(f.writer, "- **%s**\n", wn.TableName.Complete())
			}
		}
		_, _ = fmt.Fprintln(f.writer)
	}
	return nil
}

// FormatWindow writes one window in full detail
func (f *MarkdownFormatter) FormatWindow(w *window.Window) error {
	_, _ = fmt.Fprintf(f.writer, "# %s\n\n", w.Name)
	if w.Description != "" {
		_, _ = fmt.Fprintf(f.writer, "%s\n\n", w.Description)
	}

	_, _ = fmt.Fprintln(f.writer, "## Fields")
	_, _ = fmt.Fprintln(f.writer)
	for _, field := range w.MainTab.Fields {
		suffix := ""
		if field.IsPrimary {
			suffix = ", PK"
		} else if !field.Nullable {
			suffix = ", required"
		}
		_, _ = fmt.Fprintf(f.writer, "- **%s:** %s%s\n", field.Name, field.DataType, suffix)
	}
	_, _ = fmt.Fprintln(f.writer)

	f.formatSection("Has one", w.HasOneTabs)
	f.formatSection("One-one", w.OneOneTabs)
	f.formatSection("Has many", w.HasManyTabs)

	if len(w.IndirectTabs) > 0 {
		_, _ = fmt.Fprintln(f.writer, "## Indirect")
		_, _ = fmt.Fprintln(f.writer)
		for _, ind := range w.IndirectTabs {
			_, _ = fmt.Fprintf(f.writer, "- **%s** via `%s`\n", ind.Tab.Name, ind.Linker.Complete())
		}
		_, _ = fmt.Fprintln(f.writer)
	}
	return nil
}

func (f *MarkdownFormatter) formatSection(label string, tabs []window.Tab) {
	if len(tabs) == 0 {
		return
	}
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", label)
	for i := range tabs {
		_, _ = fmt.Fprintf(f.writer, "- **%s**\n", tabs[i].TableName.Complete())
	}
	_, _ = fmt.Fprintln(f.writer)
}
