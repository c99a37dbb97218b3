package format

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/skaldic/schemanav/window"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// MultiFileFormatter writes the navigation model to multiple files in a
// directory: _overview plus one file per window.
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the grouped listing to _overview and each window to its
// own file named after the main table.
func (f *MultiFileFormatter) Format(grouped []window.GroupedWindow, windows []window.Window) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(grouped); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for i := range windows {
		if err := f.writeWindowFile(&windows[i]); err != nil {
			return fmt.Errorf("failed to write window file for %s: %w", windows[i].Name, err)
		}
	}
	return nil
}

func (f *MultiFileFormatter) writeOverview(grouped []window.GroupedWindow) error {
	filename := filepath.Join(f.OutputDir, "_overview"+f.fileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	// Sort groups alphabetically; the per-group window order stays as
	// the database reported it.
	sorted := make([]window.GroupedWindow, len(grouped))
	copy(sorted, grouped)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Group < sorted[j].Group
	})

	if f.OutputFormat == formatMarkdown {
		return NewMarkdownFormatter(file).Format(sorted)
	}
	return NewTextFormatter(file).Format(sorted)
}

func (f *MultiFileFormatter) writeWindowFile(w *window.Window) error {
	filename := filepath.Join(f.OutputDir, windowFileName(w)+f.fileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == formatMarkdown {
		return NewMarkdownFormatter(file).FormatWindow(w)
	}
	return NewTextFormatter(file).FormatWindow(w)
}

// windowFileName flattens the qualified main table name into a file name
func windowFileName(w *window.Window) string {
	return strings.ReplaceAll(w.MainTab.TableName.Complete(), ".", "_")
}

func (f *MultiFileFormatter) fileExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}
