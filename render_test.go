package dbadmin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editRow() Row {
	return Row{Columns: []Column{
		{Name: "id", Type: ColInt32, Int: 42},
		{Name: "webpage", Type: ColText, Text: "test"},
		{Name: "hit_count", Type: ColInt32, Int: 3},
	}}
}

func TestRenderSingle(t *testing.T) {
	body := `<form><input name="id" value="{id}"/><input name="webpage" value="{webpage}"/>{hit_count}</form>`
	out := RenderSingle(body, editRow())
	assert.Equal(t, `<form><input name="id" value="42"/><input name="webpage" value="test"/>3</form>`, out)
}

func TestRenderSingleEscapesText(t *testing.T) {
	row := Row{Columns: []Column{{Name: "webpage", Type: ColText, Text: "<b>x</b>"}}}
	out := RenderSingle("{webpage}", row)
	assert.Equal(t, "&lt;b&gt;x&lt;/b&gt;", out)
}

func TestRenderSingleLeavesUnknownTokens(t *testing.T) {
	out := RenderSingle("{id} {nope}", editRow())
	assert.Equal(t, "42 {nope}", out)
}

func TestRenderSingleVoidColumnSubstitutesNothing(t *testing.T) {
	row := Row{Columns: []Column{{Name: "result", Type: ColVoid}}}
	out := RenderSingle("done: {result}", row)
	assert.Equal(t, "done: {result}", out)
}

func TestRenderSingleIdempotent(t *testing.T) {
	body := "<p>{webpage} has {hit_count} hits</p>"
	first := RenderSingle(body, editRow())
	second := RenderSingle(body, editRow())
	assert.Equal(t, first, second)
}

func TestRenderSingleNoReExpansion(t *testing.T) {
	// a substituted value carrying brace syntax must come through literally
	row := Row{Columns: []Column{
		{Name: "webpage", Type: ColText, Text: "{id}"},
		{Name: "id", Type: ColInt32, Int: 7},
	}}
	out := RenderSingle("{webpage}{id}", row)
	assert.Equal(t, "{id}7", out)
}

const listTemplate = `<h1>Hits</h1>
<input name="f_like_webpage" value="{f_like_webpage}"/>
<table><!--row_start--><tr><td>{id}</td><td>{webpage}</td><td>{hit_count}</td></tr><!--row_end--></table>
<input name="f_gt_hit_counter" value="{f_gt_hit_counter}"/>`

func TestRenderList(t *testing.T) {
	rows := []Row{
		{Columns: []Column{
			{Name: "id", Type: ColInt32, Int: 1},
			{Name: "webpage", Type: ColText, Text: "one"},
			{Name: "hit_count", Type: ColInt32, Int: 10},
		}},
		{Columns: []Column{
			{Name: "id", Type: ColInt32, Int: 2},
			{Name: "webpage", Type: ColText, Text: "two"},
			{Name: "hit_count", Type: ColInt32, Int: 20},
		}},
	}
	params := parsePairs("f_like_webpage=%25x%25")

	out, err := RenderList(listTemplate, rows, params)
	require.NoError(t, err)

	assert.Contains(t, out, "<tr><td>1</td><td>one</td><td>10</td></tr><tr><td>2</td><td>two</td><td>20</td></tr>")
	assert.NotContains(t, out, RowStartMarker)
	assert.NotContains(t, out, RowEndMarker)
	// the supplied filter is sticky, the absent one renders empty
	assert.Contains(t, out, `value="%x%"`)
	assert.Contains(t, out, `name="f_gt_hit_counter" value=""`)
}

func TestRenderListNoRows(t *testing.T) {
	out, err := RenderList(listTemplate, nil, WebParams{})
	require.NoError(t, err)
	assert.Contains(t, out, "<table></table>")
}

func TestRenderListMissingMarkers(t *testing.T) {
	_, err := RenderList("<table>{id}</table>", nil, WebParams{})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindTemplate, e.Kind)
}

func TestTemplateStoreRead(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "webpage_hits"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "webpage_hits", "webpage_hits_edit.html"), []byte("<p>{id}</p>"), 0o644))

	store := &TemplateStore{Root: root}
	body, err := store.Read("webpage_hits", "webpage_hits_edit")
	require.NoError(t, err)
	assert.Equal(t, "<p>{id}</p>", body)

	_, err = store.Read("webpage_hits", "no_such_template")
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindTemplate, e.Kind)
}
