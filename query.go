package dbadmin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Column is one typed cell of a result row.
type Column struct {
	Name string
	Type ColumnType
	Text string
	Int  int32
}

// Row is one scanned result row with its column types preserved, so the
// renderer can pick the right substitution rule per column.
type Row struct {
	Columns []Column
}

// queryRows executes a statement and scans every row. sql.DB acquires a
// pooled connection for the duration of the one call and releases it when
// the rows are drained.
func queryRows(ctx context.Context, db *sql.DB, query string, values []Value) ([]Row, error) {
	rows, err := db.QueryContext(ctx, query, Args(values)...)
	if err != nil {
		return nil, mapQueryError(err, query, values, "dbadmin.queryRows")
	}
	defer rows.Close()
	return scanTypedRows(rows)
}

// queryOneRow executes a statement that must return exactly one row.
func queryOneRow(ctx context.Context, db *sql.DB, query string, values []Value) (Row, error) {
	scanned, err := queryRows(ctx, db, query, values)
	if err != nil {
		return Row{}, err
	}
	if len(scanned) != 1 {
		return Row{}, newError(KindRowCount,
			"query did not return exactly one record",
			fmt.Sprintf("%s returned %d rows", query, len(scanned)),
			"dbadmin.queryOneRow")
	}
	return scanned[0], nil
}

// scanTypedRows scans a result set into typed rows. An unrecognized column
// type aborts the scan; the renderer has no rule for it.
func scanTypedRows(rows *sql.Rows) ([]Row, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("reading column types: %w", err)
	}

	types := make([]ColumnType, len(colTypes))
	names := make([]string, len(colTypes))
	for i, ct := range colTypes {
		names[i] = ct.Name()
		parsed, err := parseColumnType(ct.DatabaseTypeName())
		if err != nil {
			return nil, err
		}
		types[i] = parsed
	}

	var result []Row
	for rows.Next() {
		texts := make([]sql.NullString, len(types))
		ints := make([]sql.NullInt32, len(types))
		voids := make([]interface{}, len(types))
		targets := make([]interface{}, len(types))
		for i, t := range types {
			switch t {
			case ColText:
				targets[i] = &texts[i]
			case ColInt32:
				targets[i] = &ints[i]
			case ColVoid:
				targets[i] = &voids[i]
			}
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := Row{Columns: make([]Column, len(types))}
		for i, t := range types {
			col := Column{Name: names[i], Type: t}
			switch t {
			case ColText:
				col.Text = texts[i].String
			case ColInt32:
				col.Int = ints[i].Int32
			}
			row.Columns[i] = col
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// mapQueryError folds backend failures into the uniform error shape. The
// SQLSTATE is recorded in the developer detail; unique violations and
// datatype mismatches get no differentiated recovery today, they all route
// to the same query-failed kind with the backend message shown to the user.
// Anything that is not a pq error is a connectivity fault.
func mapQueryError(err error, query string, values []Value, origin string) *Error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return newError(KindQuery,
			pqErr.Message,
			fmt.Sprintf("%s (%s) %s %v", pqErr.Code, pqErr.Code.Name(), query, Args(values)),
			origin)
	}
	return newError(KindConnection,
		"database connection error",
		fmt.Sprintf("%v %s", err, query),
		origin)
}
