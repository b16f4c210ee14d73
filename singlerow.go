package dbadmin

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
)

// SingleRowHandler serves the new/insert/show/edit/update/delete pages: one
// routine call that returns exactly one row (or void), rendered into the
// template of the same name.
type SingleRowHandler struct {
	DB        *sql.DB
	Cache     *SchemaCache
	Templates *TemplateStore
	Scope     string
	Routine   RoutineName
}

// Handle runs the typical steps of a single-record page: normalize the web
// params, coerce them into the routine's declared arguments, call the
// routine, and splice the result row into the template.
func (h *SingleRowHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	params, err := ParamsFromRequest(r)
	if err != nil {
		return err
	}
	query, values, err := BuildRoutineCall(h.Cache, h.Routine, params)
	if err != nil {
		return err
	}
	row, err := queryOneRow(r.Context(), h.DB, query, values)
	if err != nil {
		return err
	}
	body, err := h.Templates.Read(h.Scope, string(h.Routine))
	if err != nil {
		return err
	}
	WriteNoCacheHTML(w, RenderSingle(body, row))
	return nil
}

// BuildRoutineCall coerces request parameters into the routine's declared
// argument list and returns the invocation text. Arguments follow the schema
// cache's own declaration order; placeholders are generated in lock-step, so
// numbering is always contiguous from $1.
func BuildRoutineCall(cache *SchemaCache, routine RoutineName, params WebParams) (string, []Value, error) {
	declared, ok := cache.Routines[routine]
	if !ok {
		return "", nil, newError(KindUnknownRoutine,
			fmt.Sprintf("unknown routine: %s", routine),
			"routine is not in the schema cache; check route registration against the database",
			"dbadmin.BuildRoutineCall")
	}

	values := make([]Value, 0, len(declared))
	for _, param := range declared {
		name := stripParamPrefix(param.Name)
		switch param.Type {
		case TypeInteger:
			n, err := params.GetInt32(name)
			if err != nil {
				return "", nil, err
			}
			values = append(values, IntValue(n))
		case TypeText:
			s, err := params.GetText(name)
			if err != nil {
				return "", nil, err
			}
			values = append(values, TextValue(s))
		}
	}

	query := fmt.Sprintf("SELECT * FROM %s(%s);", routine, placeholderList(len(values)))
	return query, values, nil
}

// stripParamPrefix removes the conventional input-parameter markers: any
// leading underscores, then any leading "in_" markers.
func stripParamPrefix(name ParamName) string {
	s := strings.TrimLeft(string(name), "_")
	for strings.HasPrefix(s, "in_") {
		s = strings.TrimPrefix(s, "in_")
	}
	return s
}

// placeholderList renders "$1, $2, ... $n", numbering from 1.
func placeholderList(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", i)
	}
	return b.String()
}
