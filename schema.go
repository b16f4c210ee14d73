package dbadmin

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Introspection helpers installed alongside the admin views and routines.
// get_function_input_params exposes (proname, args_def) where args_def is the
// comma-space-separated "name type" list from pg_get_function_arguments.
// get_view_fields exposes (relname, attname, typname) per view column.
const (
	routineParamsQuery = "SELECT proname, args_def FROM get_function_input_params;"
	viewFieldsQuery    = "SELECT relname, attname, typname FROM get_view_fields ORDER BY relname;"
)

// RoutineParam is one declared input parameter of a database routine.
type RoutineParam struct {
	Name ParamName
	Type ParamType
}

// SchemaCache holds the introspected shape of every admin routine and view.
// It is built once before the listener binds and shared read-only across all
// requests, so no locking is needed. It is the single source of truth for
// how many arguments a routine call takes and in what order.
type SchemaCache struct {
	// Routines keeps parameters as an ordered slice, not a map. Placeholder
	// numbering must match argument order on every call, so the order is
	// fixed once here instead of re-iterating an unordered map per request.
	Routines map[RoutineName][]RoutineParam
	Views    map[ViewName]map[FieldName]ParamType
}

// LoadSchemaCache runs the two introspection queries. Any failure, including
// an unrecognized type name, aborts the load: the process must not serve
// traffic with an incomplete cache.
func LoadSchemaCache(ctx context.Context, db *sql.DB) (*SchemaCache, error) {
	cache := &SchemaCache{
		Routines: make(map[RoutineName][]RoutineParam),
		Views:    make(map[ViewName]map[FieldName]ParamType),
	}
	if err := cache.loadRoutines(ctx, db); err != nil {
		return nil, err
	}
	if err := cache.loadViews(ctx, db); err != nil {
		return nil, err
	}
	return cache, nil
}

func (c *SchemaCache) loadRoutines(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, routineParamsQuery)
	if err != nil {
		return fmt.Errorf("loading routine params: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, argsDef string
		if err := rows.Scan(&name, &argsDef); err != nil {
			return fmt.Errorf("scanning routine params: %w", err)
		}
		params, err := parseArgsDef(argsDef)
		if err != nil {
			return fmt.Errorf("routine %s: %w", name, err)
		}
		c.Routines[RoutineName(name)] = params
	}
	return rows.Err()
}

// parseArgsDef splits an argument definition like
// "_id integer, _webpage character varying" into ordered typed parameters.
// OUT parameters are declaration-only output columns and are skipped.
func parseArgsDef(argsDef string) ([]RoutineParam, error) {
	if argsDef == "" {
		return nil, nil
	}
	var params []RoutineParam
	for _, token := range strings.Split(argsDef, ", ") {
		fields := strings.Fields(token)
		if len(fields) < 2 {
			return nil, newError(KindSchemaType,
				fmt.Sprintf("malformed argument definition: %s", token),
				fmt.Sprintf("args_def %q", argsDef),
				"dbadmin.parseArgsDef")
		}
		if fields[0] == "OUT" {
			continue
		}
		// two-word types like "character varying" collapse to the first word
		paramType, err := ParseParamType(fields[1])
		if err != nil {
			return nil, err
		}
		params = append(params, RoutineParam{Name: ParamName(fields[0]), Type: paramType})
	}
	return params, nil
}

func (c *SchemaCache) loadViews(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, viewFieldsQuery)
	if err != nil {
		return fmt.Errorf("loading view fields: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var relName, attName, typName string
		if err := rows.Scan(&relName, &attName, &typName); err != nil {
			return fmt.Errorf("scanning view fields: %w", err)
		}
		fieldType, err := ParseParamType(typName)
		if err != nil {
			return fmt.Errorf("view %s field %s: %w", relName, attName, err)
		}
		view := ViewName(relName)
		if c.Views[view] == nil {
			c.Views[view] = make(map[FieldName]ParamType)
		}
		c.Views[view][FieldName(attName)] = fieldType
	}
	return rows.Err()
}
