package dbadmin

import (
	"database/sql"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\{(.+?)\}`)

// MultiRowHandler serves the list page of one view: an optional dynamic
// WHERE built from the candidate filter clauses, an optional validated
// ORDER BY, and a row-repeat render of the result set.
type MultiRowHandler struct {
	DB        *sql.DB
	Cache     *SchemaCache
	Templates *TemplateStore
	Scope     string
	View      ViewName
	// WhereClauses are candidate filter templates, each carrying one {param}
	// token, e.g. "webpage like {f_like_webpage}". A clause is compiled into
	// the query only when the request actually supplies its parameter.
	WhereClauses []string
}

func (h *MultiRowHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	params, err := ParamsFromRequest(r)
	if err != nil {
		return err
	}
	where, orderBy, values, err := BuildFilteredQuery(h.Cache, h.View, h.WhereClauses, params)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("SELECT * FROM %s %s %s;", h.View, where, orderBy)
	rows, err := queryRows(r.Context(), h.DB, query, values)
	if err != nil {
		return err
	}
	body, err := h.Templates.Read(h.Scope, string(h.View))
	if err != nil {
		return err
	}
	rendered, err := RenderList(body, rows, params)
	if err != nil {
		return err
	}
	WriteNoCacheHTML(w, rendered)
	return nil
}

// BuildFilteredQuery assembles the WHERE and ORDER BY suffixes. Clauses
// whose parameter is absent are skipped entirely and never advance the
// placeholder counter, so only the filters the caller used reach the
// database. Filter values are always bound as text. The sort field comes in
// as f_order_by and must be a declared field of the view, since an ORDER BY
// identifier cannot be parameterized; f_order_by_direction=desc flips the
// direction.
func BuildFilteredQuery(cache *SchemaCache, view ViewName, clauses []string, params WebParams) (string, string, []Value, error) {
	var where strings.Builder
	var values []Value
	placeholder := 1
	interWord := "WHERE "

	for _, clause := range clauses {
		for _, match := range tokenPattern.FindAllStringSubmatch(clause, -1) {
			name := match[1]
			value, ok := params.Get(name)
			if !ok {
				continue
			}
			where.WriteString(interWord)
			interWord = " AND "
			token := "{" + name + "}"
			where.WriteString(strings.Replace(clause, token, fmt.Sprintf("$%d", placeholder), 1))
			placeholder++
			values = append(values, TextValue(value))
		}
	}

	orderBy, err := buildOrderBy(cache, view, params)
	if err != nil {
		return "", "", nil, err
	}
	return where.String(), orderBy, values, nil
}

func buildOrderBy(cache *SchemaCache, view ViewName, params WebParams) (string, error) {
	field, ok := params.Get("f_order_by")
	if !ok || field == "" {
		return "", nil
	}
	fields, ok := cache.Views[view]
	if !ok {
		return "", newError(KindUnknownField,
			fmt.Sprintf("unknown view: %s", view),
			"view is not in the schema cache; check route registration against the database",
			"dbadmin.buildOrderBy")
	}
	if _, ok := fields[FieldName(field)]; !ok {
		return "", newError(KindUnknownField,
			fmt.Sprintf("unknown sort field: %s", field),
			fmt.Sprintf("view %s has no field %q", view, field),
			"dbadmin.buildOrderBy")
	}
	orderBy := "ORDER BY " + field
	if dir, ok := params.Get("f_order_by_direction"); ok && strings.EqualFold(dir, "desc") {
		orderBy += " DESC"
	}
	return orderBy, nil
}
