package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/skaldic/schemanav/schema"
)

// MySQLLoader loads schema metadata from one MySQL database.
type MySQLLoader struct {
	client     *MySQLClient
	schemaName string
}

// NewMySQLLoader creates a MySQL schema loader for the given database
func NewMySQLLoader(client *MySQLClient, schemaName string) *MySQLLoader {
	return &MySQLLoader{
		client:     client,
		schemaName: schemaName,
	}
}

// Close closes the underlying connection
func (l *MySQLLoader) Close(ctx context.Context) error {
	return l.client.Close()
}

// LoadTables loads every table and view with columns, primary keys,
// foreign keys, and indexes.
func (l *MySQLLoader) LoadTables(ctx context.Context) ([]schema.Table, error) {
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

// listTables returns tables then views, each sorted by name. The MySQL
// database name doubles as the schema qualifier.
func (l *MySQLLoader) listTables(ctx context.Context) ([]tableHead, error) {
	query := `
		SELECT table_name, table_type = 'VIEW', COALESCE(table_comment, '')
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type IN ('BASE TABLE', 'VIEW')
		ORDER BY table_type = 'VIEW', table_name
	`

	rows, err := l.client.DB().QueryContext(ctx, query, l.schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var heads []tableHead
	for rows.Next() {
		var h tableHead
		if err := rows.Scan(&h.Name.Name, &h.IsView, &h.Comment); err != nil {
			return nil, err
		}
		h.Name.Schema = l.schemaName
		heads = append(heads, h)
	}
	return heads, rows.Err()
}

func (l *MySQLLoader) loadTable(ctx context.Context, head tableHead) (*schema.Table, error) {
	table := &schema.Table{
		Name:    head.Name,
		Comment: head.Comment,
		IsView:  head.IsView,
	}

	columns, err := l.loadColumns(ctx, head.Name.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	table.Columns = columns

	pk, err := l.loadPrimaryKey(ctx, head.Name.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load primary key: %w", err)
	}
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

	return table, nil
}

// loadColumns loads column information in ordinal order
func (l *MySQLLoader) loadColumns(ctx context.Context, tableName string) ([]schema.Column, error) {
	query := `
		SELECT
			c.column_name,
			c.column_type,
			c.is_nullable,
			c.column_default,
			c.column_key = 'UNI',
			COALESCE(c.column_comment, '')
		FROM information_schema.columns c
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`

	rows, err := l.client.DB().QueryContext(ctx, query, l.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var nullable string
		var defaultVal sql.NullString

		if err := rows.Scan(&col.Name, &col.Type, &nullable, &defaultVal, &col.IsUnique, &col.Comment); err != nil {
			return nil, err
		}

		col.Nullable = (nullable == "YES")
		if defaultVal.Valid {
			col.DefaultValue = &defaultVal.String
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// loadPrimaryKey loads primary key column names
func (l *MySQLLoader) loadPrimaryKey(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
			AND table_name = ?
			AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position
	`

	rows, err := l.client.DB().QueryContext(ctx, query, l.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pk []string
	for rows.Next() {
		var column string
		if err := rows.Scan(&column); err != nil {
			return nil, err
		}
		pk = append(pk, column)
	}
	return pk, rows.Err()
}

// loadForeignKeys loads foreign keys grouped by constraint
func (l *MySQLLoader) loadForeignKeys(ctx context.Context, tableName string) ([]schema.ForeignKey, error) {
	query := `
		SELECT
			constraint_name,
			column_name,
			referenced_table_schema,
			referenced_table_name,
			referenced_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
			AND table_name = ?
			AND referenced_table_name IS NOT NULL
		ORDER BY constraint_name, ordinal_position
	`

	rows, err := l.client.DB().QueryContext(ctx, query, l.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []schema.ForeignKey
	byConstraint := make(map[string]int)
	for rows.Next() {
		var constraint, column, refColumn string
		var referred schema.TableName
		if err := rows.Scan(&constraint, &column, &referred.Schema, &referred.Name, &refColumn); err != nil {
			return nil, err
		}

		i, ok := byConstraint[constraint]
		if !ok {
			i = len(fks)
			byConstraint[constraint] = i
			fks = append(fks, schema.ForeignKey{ReferredTable: referred})
		}
		fks[i].Columns = append(fks[i].Columns, column)
		fks[i].ReferredColumns = append(fks[i].ReferredColumns, refColumn)
	}
	return fks, rows.Err()
}

// loadIndexes loads non-primary indexes from information_schema.statistics
func (l *MySQLLoader) loadIndexes(ctx context.Context, tableName string) ([]schema.Index, error) {
	query := `
		SELECT index_name, column_name, non_unique = 0
		FROM information_schema.statistics
		WHERE table_schema = ?
			AND table_name = ?
			AND index_name != 'PRIMARY'
		ORDER BY index_name, seq_in_index
	`

	rows, err := l.client.DB().QueryContext(ctx, query, l.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []schema.Index
	byName := make(map[string]int)
	for rows.Next() {
		var idxName, column string
		var isUnique bool
		if err := rows.Scan(&idxName, &column, &isUnique); err != nil {
			return nil, err
		}

		i, ok := byName[idxName]
		if !ok {
			i = len(indexes)
			byName[idxName] = i
			indexes = append(indexes, schema.Index{Name: idxName, IsUnique: isUnique})
		}
		indexes[i].Columns = append(indexes[i].Columns, column)
	}
	return indexes, rows.Err()
}

// GroupedTableNames returns a single group for the connected database.
func (l *MySQLLoader) GroupedTableNames(ctx context.Context) ([]schema.TableGroup, error) {
	heads, err := l.listTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return groupHeads(heads), nil
}
