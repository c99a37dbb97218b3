package db

import (
	"context"
	"fmt"

	"github.com/skaldic/schemanav/schema"
)

// PostgresLoader loads schema metadata from PostgreSQL. When schemaName
// is empty, every non-system schema is loaded.
type PostgresLoader struct {
	client     *PostgresClient
	schemaName string
}

// NewPostgresLoader creates a PostgreSQL schema loader
func NewPostgresLoader(client *PostgresClient, schemaName string) *PostgresLoader {
	return &PostgresLoader{
		client:     client,
		schemaName: schemaName,
	}
}

// Close closes the underlying connection
func (l *PostgresLoader) Close(ctx context.Context) error {
	return l.client.Close(ctx)
}

// LoadTables loads every table and view with columns, primary keys,
// foreign keys, and indexes.
func (l *PostgresLoader) LoadTables(ctx context.Context) ([]schema.Table, error) {
	names, err := l.listTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]schema.Table, 0, len(names))
	for _, t := range names {
		table, err := l.loadTable(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("failed to load table %s: %w", t.Name.Complete(), err)
		}
		tables = append(tables, *table)
	}
	return tables, nil
}

type tableHead struct {
	Name    schema.TableName
	IsView  bool
	Comment string
}

// listTables returns tables then views, each sorted by schema and name
func (l *PostgresLoader) listTables(ctx context.Context) ([]tableHead, error) {
	query := `
		SELECT n.nspname, c.relname, c.relkind IN ('v', 'm'),
			COALESCE(obj_description(c.oid, 'pg_class'), '')
		FROM pg_catalog.pg_class c
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relkind IN ('r', 'v', 'm')
			AND n.nspname NOT IN ('pg_catalog', 'information_schema')
			AND n.nspname NOT LIKE 'pg_toast%'
			AND ($1 = '' OR n.nspname = $1)
		ORDER BY c.relkind IN ('v', 'm'), n.nspname, c.relname
	`

	rows, err := l.client.Conn().Query(ctx, query, l.schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var heads []tableHead
	for rows.Next() {
		var h tableHead
		if err := rows.Scan(&h.Name.Schema, &h.Name.Name, &h.IsView, &h.Comment); err != nil {
			return nil, err
		}
		heads = append(heads, h)
	}
	return heads, rows.Err()
}

func (l *PostgresLoader) loadTable(ctx context.Context, head tableHead) (*schema.Table, error) {
	table := &schema.Table{
		Name:    head.Name,
		Comment: head.Comment,
		IsView:  head.IsView,
	}

	columns, err := l.loadColumns(ctx, head.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	table.Columns = columns

	pk, err := l.loadPrimaryKey(ctx, head.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load primary key: %w", err)
	}
	table.PrimaryKey = pk

	fks, err := l.loadForeignKeys(ctx, head.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load foreign keys: %w", err)
	}
	table.ForeignKeys = fks

	indexes, err := l.loadIndexes(ctx, head.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load indexes: %w", err)
	}
	table.Indexes = indexes

	return table, nil
}

// loadColumns loads column information in ordinal order
func (l *PostgresLoader) loadColumns(ctx context.Context, name schema.TableName) ([]schema.Column, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable,
			c.column_default,
			CASE WHEN EXISTS (
				SELECT 1 FROM information_schema.table_constraints tc
				JOIN information_schema.constraint_column_usage ccu
					ON tc.constraint_name = ccu.constraint_name
					AND tc.table_schema = ccu.table_schema
				WHERE tc.table_schema = $1
					AND tc.table_name = $2
					AND tc.constraint_type = 'UNIQUE'
					AND ccu.column_name = c.column_name
			) THEN true ELSE false END as is_unique,
			c.udt_name,
			c.character_maximum_length
		FROM information_schema.columns c
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := l.client.Conn().Query(ctx, query, name.Schema, name.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var nullable string
		var dataType string
		var udtName string
		var charMaxLength *int

		if err := rows.Scan(&col.Name, &dataType, &nullable, &col.DefaultValue, &col.IsUnique, &udtName, &charMaxLength); err != nil {
			return nil, err
		}

		col.Nullable = (nullable == "YES")
		col.Type = normalizePostgresType(dataType, udtName, charMaxLength)
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// normalizePostgresType maps verbose SQL type names to commonly-used PostgreSQL equivalents
func normalizePostgresType(dataType, udtName string, charMaxLength *int) string {
	switch dataType {
	case "timestamp with time zone":
		return "timestamptz"
	case "timestamp without time zone":
		return "timestamp"
	case "time with time zone":
		return "timetz"
	case "time without time zone":
		return "time"
	case "character varying":
		if charMaxLength != nil {
			return fmt.Sprintf("varchar(%d)", *charMaxLength)
		}
		return "varchar"
	case "character":
		if charMaxLength != nil {
			return fmt.Sprintf("char(%d)", *charMaxLength)
		}
		return "char"
	case "ARRAY":
		// udt_name has underscore prefix for arrays (e.g., "_text" for text[])
		if len(udtName) > 0 && udtName[0] == '_' {
			return fmt.Sprintf("%s[]", normalizeUdtName(udtName[1:]))
		}
		return "array"
	case "USER-DEFINED":
		return udtName
	default:
		return dataType
	}
}

// normalizeUdtName converts PostgreSQL internal type names to more readable forms
func normalizeUdtName(udtName string) string {
	switch udtName {
	case "int4":
		return "integer"
	case "int8":
		return "bigint"
	case "int2":
		return "smallint"
	case "float4":
		return "real"
	case "float8":
		return "double precision"
	case "bool":
		return "boolean"
	default:
		return udtName
	}
}

// loadPrimaryKey loads primary key column names
func (l *PostgresLoader) loadPrimaryKey(ctx context.Context, name schema.TableName) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = $1
			AND table_name = $2
			AND constraint_name IN (
				SELECT constraint_name
				FROM information_schema.table_constraints
				WHERE table_schema = $1
					AND table_name = $2
					AND constraint_type = 'PRIMARY KEY'
			)
		ORDER BY ordinal_position
	`

	rows, err := l.client.Conn().Query(ctx, query, name.Schema, name.Name)
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

// loadForeignKeys loads foreign keys grouped by constraint, with the
// referred table kept schema-qualified
func (l *PostgresLoader) loadForeignKeys(ctx context.Context, name schema.TableName) ([]schema.ForeignKey, error) {
	query := `
		SELECT
			tc.constraint_name,
			kcu.column_name,
			ccu.table_schema,
			ccu.table_name,
			ccu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON tc.constraint_name = ccu.constraint_name
			AND tc.table_schema = ccu.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
		ORDER BY tc.constraint_name, kcu.ordinal_position
	`

	rows, err := l.client.Conn().Query(ctx, query, name.Schema, name.Name)
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

// loadIndexes loads non-primary indexes
func (l *PostgresLoader) loadIndexes(ctx context.Context, name schema.TableName) ([]schema.Index, error) {
	query := `
		SELECT i.relname, a.attname, ix.indisunique
		FROM pg_catalog.pg_class t
		JOIN pg_catalog.pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_catalog.pg_index ix ON t.oid = ix.indrelid
		JOIN pg_catalog.pg_class i ON i.oid = ix.indexrelid
		JOIN pg_catalog.pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		WHERE n.nspname = $1
			AND t.relname = $2
			AND NOT ix.indisprimary
		ORDER BY i.relname, a.attnum
	`

	rows, err := l.client.Conn().Query(ctx, query, name.Schema, name.Name)
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

// GroupedTableNames groups table and view names by namespace, tables
// before views.
func (l *PostgresLoader) GroupedTableNames(ctx context.Context) ([]schema.TableGroup, error) {
	heads, err := l.listTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return groupHeads(heads), nil
}

// groupHeads folds a table listing into per-schema groups, preserving
// listing order
func groupHeads(heads []tableHead) []schema.TableGroup {
	var groups []schema.TableGroup
	byName := make(map[string]int)
	for _, h := range heads {
		i, ok := byName[h.Name.Schema]
		if !ok {
			i = len(groups)
			byName[h.Name.Schema] = i
			groups = append(groups, schema.TableGroup{Schema: h.Name.Schema})
		}
		if h.IsView {
			groups[i].Views = append(groups[i].Views, h.Name)
		} else {
			groups[i].Tables = append(groups[i].Tables, h.Name)
		}
	}
	return groups
}
