package dbadmin

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsFromQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/webpage_hits_list?f_like_webpage=%25example%25&f_order_by=hit_counter", nil)

	params, err := ParamsFromRequest(r)
	require.NoError(t, err)

	v, ok := params.Get("f_like_webpage")
	assert.True(t, ok)
	assert.Equal(t, "%example%", v)

	v, ok = params.Get("f_order_by")
	assert.True(t, ok)
	assert.Equal(t, "hit_counter", v)
}

func TestFormShadowsQuery(t *testing.T) {
	body := "id=42&webpage=from_form"
	r := httptest.NewRequest("POST", "/webpage_hits_update?id=7&stale=yes", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	params, err := ParamsFromRequest(r)
	require.NoError(t, err)

	// the form wins for shared keys, and the query string is not merged in
	v, ok := params.Get("id")
	assert.True(t, ok)
	assert.Equal(t, "42", v)

	_, ok = params.Get("stale")
	assert.False(t, ok)
	assert.Equal(t, 2, params.Len())
}

func TestParsePairsOrderAndOverwrite(t *testing.T) {
	params := parsePairs("b=2&a=1&b=3")

	// keys keep first-seen position, a repeated key overwrites in place
	require.Equal(t, 2, params.Len())
	assert.Equal(t, "b", params.pairs[0].key)
	assert.Equal(t, "3", params.pairs[0].value)
	assert.Equal(t, "a", params.pairs[1].key)
}

func TestGetText(t *testing.T) {
	params := parsePairs("webpage=test")

	v, err := params.GetText("webpage")
	require.NoError(t, err)
	assert.Equal(t, "test", v)

	_, err = params.GetText("hit_count")
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindMissingParameter, e.Kind)
	assert.Contains(t, e.User, "hit_count")
	assert.Contains(t, e.Detail, "webpage")
}

func TestGetInt32(t *testing.T) {
	params := parsePairs("id=42&webpage=test&huge=3000000000")

	n, err := params.GetInt32("id")
	require.NoError(t, err)
	assert.Equal(t, int32(42), n)

	var e *Error

	_, err = params.GetInt32("webpage")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindInvalidInteger, e.Kind)

	// larger than 32 bits is rejected, not truncated
	_, err = params.GetInt32("huge")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindInvalidInteger, e.Kind)

	_, err = params.GetInt32("missing")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindMissingParameter, e.Kind)
}
