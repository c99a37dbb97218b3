package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/skaldic/schemanav/schema"
)

// SQLiteLoader loads schema metadata from a SQLite database file. SQLite
// has no namespaces, so table identities carry an empty schema and the
// grouping is a single "main" group.
type SQLiteLoader struct {
	client *SQLiteClient
}

// NewSQLiteLoader creates a SQLite schema loader
func NewSQLiteLoader(client *SQLiteClient) *SQLiteLoader {
	return &SQLiteLoader{client: client}
}

// Close closes the underlying connection
func (l *SQLiteLoader) Close(ctx context.Context) error {
	return l.client.Close()
}

// LoadTables loads every table and view with columns, primary keys,
// foreign keys, and indexes.
func (l *SQLiteLoader) LoadTables(ctx context.Context) ([]schema.Table, error) {
	heads, err := l.listTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]schema.Table, 0, len(heads))
	for _, h := range heads {
		table, err := l.loadTable(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("failed to load table %s: %w", h.Name.Name, err)
		}
		tables = append(tables, *table)
	}
	return tables, nil
}

// listTables returns tables then views, each sorted by name
func (l *SQLiteLoader) listTables(ctx context.Context) ([]tableHead, error) {
	query := `
		SELECT name, type = 'view'
		FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY type = 'view', name
	`

	rows, err := l.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var heads []tableHead
	for rows.Next() {
		var h tableHead
		if err := rows.Scan(&h.Name.Name, &h.IsView); err != nil {
			return nil, err
		}
		heads = append(heads, h)
	}
	return heads, rows.Err()
}

func (l *SQLiteLoader) loadTable(ctx context.Context, head tableHead) (*schema.Table, error) {
	table := &schema.Table{
		Name:   head.Name,
		IsView: head.IsView,
	}

	columns, pk, err := l.loadColumns(ctx, head.Name.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	table.Columns = columns
	table.PrimaryKey = pk

	fks, err := l.loadForeignKeys(ctx, head.Name.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load foreign keys: %w", err)
	}
	table.ForeignKeys = fks

	indexes, err := l.loadIndexes(ctx, head.Name.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load indexes: %w", err)
	}
	table.Indexes = indexes

	// PRAGMA table_info has no uniqueness flag; recover it from
	// single-column unique indexes.
	for _, idx := range table.Indexes {
		if idx.IsUnique && len(idx.Columns) == 1 {
			if col := table.Column(idx.Columns[0]); col != nil {
				col.IsUnique = true
			}
		}
	}

	return table, nil
}

// loadColumns loads columns and the primary key from PRAGMA table_info
func (l *SQLiteLoader) loadColumns(ctx context.Context, tableName string) ([]schema.Column, []string, error) {
	query := fmt.Sprintf("PRAGMA table_info(%q)", tableName)

	rows, err := l.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	var pk []string
	for rows.Next() {
		var cid, notNull, pkPosition int
		var col schema.Column
		var defaultVal sql.NullString

		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultVal, &pkPosition); err != nil {
			return nil, nil, err
		}

		col.Nullable = (notNull == 0)
		if defaultVal.Valid {
			col.DefaultValue = &defaultVal.String
		}
		if pkPosition > 0 {
			pk = append(pk, col.Name)
		}
		columns = append(columns, col)
	}
	return columns, pk, rows.Err()
}

// loadForeignKeys loads foreign keys from PRAGMA foreign_key_list,
// grouped by constraint id
func (l *SQLiteLoader) loadForeignKeys(ctx context.Context, tableName string) ([]schema.ForeignKey, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%q)", tableName)

	rows, err := l.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []schema.ForeignKey
	byID := make(map[int]int)
	for rows.Next() {
		var id, seq int
		var referredTable, from string
		var to sql.NullString
		var onUpdate, onDelete, match string

		if err := rows.Scan(&id, &seq, &referredTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		i, ok := byID[id]
		if !ok {
			i = len(fks)
			byID[id] = i
			fks = append(fks, schema.ForeignKey{ReferredTable: schema.TableName{Name: referredTable}})
		}
		fks[i].Columns = append(fks[i].Columns, from)
		// "to" is NULL when the FK targets the referred table's primary key
		if to.Valid {
			fks[i].ReferredColumns = append(fks[i].ReferredColumns, to.String)
		}
	}
	return fks, rows.Err()
}

// loadIndexes loads named indexes from PRAGMA index_list / index_info.
// Auto-indexes backing PRIMARY KEY constraints are skipped.
func (l *SQLiteLoader) loadIndexes(ctx context.Context, tableName string) ([]schema.Index, error) {
	query := fmt.Sprintf("PRAGMA index_list(%q)", tableName)

	rows, err := l.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type indexHead struct {
		name   string
		unique bool
	}
	var heads []indexHead
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return nil, err
		}
		if origin == "pk" {
			continue
		}
		heads = append(heads, indexHead{name: name, unique: unique == 1})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var indexes []schema.Index
	for _, h := range heads {
		columns, err := l.loadIndexColumns(ctx, h.name)
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, schema.Index{Name: h.name, Columns: columns, IsUnique: h.unique})
	}
	return indexes, nil
}

func (l *SQLiteLoader) loadIndexColumns(ctx context.Context, indexName string) ([]string, error) {
	query := fmt.Sprintf("PRAGMA index_info(%q)", indexName)

	rows, err := l.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		if name.Valid {
			columns = append(columns, name.String)
		}
	}
	return columns, rows.Err()
}

// GroupedTableNames returns a single "main" group holding everything.
func (l *SQLiteLoader) GroupedTableNames(ctx context.Context) ([]schema.TableGroup, error) {
	heads, err := l.listTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	group := schema.TableGroup{Schema: "main"}
	for _, h := range heads {
		if h.IsView {
			group.Views = append(group.Views, h.Name)
		} else {
			group.Tables = append(group.Tables, h.Name)
		}
	}
	return []schema.TableGroup{group}, nil
}
