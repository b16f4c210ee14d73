package dbadmin

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Row-repeat sentinels. The text strictly between them is rendered once per
// result row; the markers themselves are consumed by the splice.
const (
	RowStartMarker = "<!--row_start-->"
	RowEndMarker   = "<!--row_end-->"
)

// TemplateStore reads raw template text from disk, addressed by scope and
// name: <root>/<scope>/<name>.html. Every request re-reads the file; there
// is no caching layer, which keeps template edits live without a restart.
type TemplateStore struct {
	Root string
}

func (s *TemplateStore) Read(scope, name string) (string, error) {
	path := filepath.Join(s.Root, scope, name+".html")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", newError(KindTemplate,
			fmt.Sprintf("template not found: %s/%s", scope, name),
			fmt.Sprintf("reading %s: %v", path, err),
			"dbadmin.TemplateStore.Read")
	}
	return string(data), nil
}

// replaceTokens substitutes {name} tokens in a single linear pass. The
// lookup decides the replacement; a miss keeps the token as literal text.
// Emitted replacement text is never rescanned, so a value containing brace
// syntax cannot trigger a second expansion.
func replaceTokens(body string, lookup func(name string) (string, bool)) string {
	var b strings.Builder
	b.Grow(len(body))
	for {
		open := strings.IndexByte(body, '{')
		if open < 0 {
			b.WriteString(body)
			return b.String()
		}
		end := strings.IndexByte(body[open:], '}')
		if end < 0 {
			b.WriteString(body)
			return b.String()
		}
		end += open
		b.WriteString(body[:open])
		name := body[open+1 : end]
		if value, ok := lookup(name); ok {
			b.WriteString(value)
		} else {
			b.WriteString(body[open : end+1])
		}
		body = body[end+1:]
	}
}

// rowLookup builds the substitution source for one result row. Text columns
// are HTML-escaped, integer columns are rendered decimal, void columns
// substitute nothing and leave the token for the trailing pass.
func rowLookup(row Row) func(name string) (string, bool) {
	return func(name string) (string, bool) {
		for _, col := range row.Columns {
			if col.Name != name {
				continue
			}
			switch col.Type {
			case ColText:
				return html.EscapeString(col.Text), true
			case ColInt32:
				return strconv.FormatInt(int64(col.Int), 10), true
			case ColVoid:
				return "", false
			}
		}
		return "", false
	}
}

// RenderSingle substitutes one row into a template. Tokens with no matching
// column stay literal.
func RenderSingle(body string, row Row) string {
	return replaceTokens(body, rowLookup(row))
}

// RenderList renders a list template: the marker-delimited fragment is
// repeated once per row; the rest of the template, and any token the rows
// did not fill, falls back to the caller's own parameters so filter inputs
// stay sticky across submissions. Parameters are substituted raw, tokens
// with no source at all collapse to empty text.
func RenderList(body string, rows []Row, params WebParams) (string, error) {
	startOuter := strings.Index(body, RowStartMarker)
	endInner := strings.Index(body, RowEndMarker)
	if startOuter < 0 || endInner < 0 || endInner < startOuter {
		return "", newError(KindTemplate,
			"list template is missing row markers",
			fmt.Sprintf("need %s and %s, have start=%d end=%d", RowStartMarker, RowEndMarker, startOuter, endInner),
			"dbadmin.RenderList")
	}
	startInner := startOuter + len(RowStartMarker)
	endOuter := endInner + len(RowEndMarker)
	fragment := body[startInner:endInner]

	paramLookup := func(name string) (string, bool) {
		if value, ok := params.Get(name); ok {
			return value, true
		}
		return "", true
	}

	var b strings.Builder
	b.WriteString(replaceTokens(body[:startOuter], paramLookup))
	for _, row := range rows {
		fromRow := rowLookup(row)
		b.WriteString(replaceTokens(fragment, func(name string) (string, bool) {
			if value, ok := fromRow(name); ok {
				return value, true
			}
			return paramLookup(name)
		}))
	}
	b.WriteString(replaceTokens(body[endOuter:], paramLookup))
	return b.String(), nil
}
