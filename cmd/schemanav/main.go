package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skaldic/schemanav"
	"github.com/skaldic/schemanav/internal/format"
	"github.com/skaldic/schemanav/schema"
	"github.com/skaldic/schemanav/window"
)

var (
	dbURL      string
	mysqlURL   string
	sqlitePath string
	tableName  string
	outputFile string
	outputDir  string
	schemaName string
	outputFmt  string
)

var rootCmd = &cobra.Command{
	Use:   "schemanav",
	Short: "Derive a navigation model from a database schema",
	Long: `Schemanav connects to PostgreSQL, MySQL, or SQLite, classifies table
relationships from foreign keys, and derives the window/tab navigation
model a record-browsing UI would present: one window per window-worthy
table, with has-one, one-one, has-many, and indirect tabs.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	rootCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	rootCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	rootCmd.Flags().StringVarP(&tableName, "table", "t", "", "Show one window in full detail (schema-qualified table name)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-file output (one file per window)")
	rootCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Restrict to one database schema")
	rootCmd.Flags().StringVarP(&outputFmt, "format", "f", "", "Output format: text, markdown, or json")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	databaseURL, err := resolveDatabaseURL(cfg)
	if err != nil {
		return err
	}

	if schemaName == "" {
		schemaName = cfg.Database.Schema
	}
	if outputFmt == "" {
		outputFmt = cfg.Output.Format
	}
	if outputFmt != "text" && outputFmt != "markdown" && outputFmt != "json" {
		return fmt.Errorf("invalid format %q (must be text, markdown, or json)", outputFmt)
	}

	nav := schemanav.NewNavigator()
	opts := &schemanav.Options{SchemaName: schemaName}

	if tableName != "" {
		return showWindow(ctx, nav, databaseURL, opts)
	}
	return showListing(ctx, nav, databaseURL, opts)
}

// resolveDatabaseURL picks the connection URL from flags, falling back to
// the configured default. Exactly one source must be given.
func resolveDatabaseURL(cfg Config) (string, error) {
	dbCount := 0
	url := ""
	if dbURL != "" {
		dbCount++
		url = dbURL
	}
	if mysqlURL != "" {
		dbCount++
		url = mysqlURL
		if !strings.HasPrefix(url, "mysql://") {
			url = "mysql://" + url
		}
	}
	if sqlitePath != "" {
		dbCount++
		url = "sqlite://" + sqlitePath
	}
	if dbCount > 1 {
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}
	if dbCount == 0 {
		if cfg.Database.URL != "" {
			return cfg.Database.URL, nil
		}
		return "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified")
	}
	return url, nil
}

// showWindow prints one window in full detail
func showWindow(ctx context.Context, nav *schemanav.Navigator, databaseURL string, opts *schemanav.Options) error {
	windows, err := nav.Windows(ctx, databaseURL, opts)
	if err != nil {
		return fmt.Errorf("failed to derive windows: %w", err)
	}

	w := window.Find(schema.ParseTableName(tableName), windows)
	if w == nil {
		return fmt.Errorf("no window for table %q", tableName)
	}

	out, closeOut, err := openOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	switch outputFmt {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(w)
	case "markdown":
		return format.NewMarkdownFormatter(out).FormatWindow(w)
	default:
		return format.NewTextFormatter(out).FormatWindow(w)
	}
}

// showListing prints the grouped window listing, or writes the full
// multi-file model when --output-dir is given
func showListing(ctx context.Context, nav *schemanav.Navigator, databaseURL string, opts *schemanav.Options) error {
	grouped, err := nav.GroupedWindows(ctx, databaseURL, opts)
	if err != nil {
		return fmt.Errorf("failed to derive window listing: %w", err)
	}

	if outputDir != "" {
		windows, err := nav.Windows(ctx, databaseURL, opts)
		if err != nil {
			return fmt.Errorf("failed to derive windows: %w", err)
		}
		fileFormat := outputFmt
		if fileFormat == "json" {
			return fmt.Errorf("json format is not supported with --output-dir")
		}
		return schemanav.Format(grouped, windows, &schemanav.OutputOptions{
			OutputDir: outputDir,
			Format:    fileFormat,
		})
	}

	out, closeOut, err := openOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	switch outputFmt {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(grouped)
	case "markdown":
		return format.NewMarkdownFormatter(out).Format(grouped)
	default:
		return format.NewTextFormatter(out).Format(grouped)
	}
}

// openOutput returns the destination writer and a close func
func openOutput() (io.Writer, func(), error) {
	if outputFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
		}
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
