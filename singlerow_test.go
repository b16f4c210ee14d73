package dbadmin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertCache() *SchemaCache {
	return &SchemaCache{
		Routines: map[RoutineName][]RoutineParam{
			"webpage_hits_insert": {
				{Name: "_id", Type: TypeInteger},
				{Name: "_webpage", Type: TypeText},
				{Name: "_hit_count", Type: TypeInteger},
			},
			"webpage_hits_new": nil,
		},
	}
}

func TestBuildRoutineCall(t *testing.T) {
	params := parsePairs("id=496953237&webpage=test&hit_count=0")

	query, values, err := BuildRoutineCall(insertCache(), "webpage_hits_insert", params)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM webpage_hits_insert($1, $2, $3);", query)
	require.Len(t, values, 3)
	assert.Equal(t, IntValue(496953237), values[0])
	assert.Equal(t, TextValue("test"), values[1])
	assert.Equal(t, IntValue(0), values[2])
}

func TestBuildRoutineCallNoParams(t *testing.T) {
	query, values, err := BuildRoutineCall(insertCache(), "webpage_hits_new", WebParams{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM webpage_hits_new();", query)
	assert.Empty(t, values)
}

func TestBuildRoutineCallMissingParam(t *testing.T) {
	params := parsePairs("id=1&hit_count=0")

	_, _, err := BuildRoutineCall(insertCache(), "webpage_hits_insert", params)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindMissingParameter, e.Kind)
	assert.Contains(t, e.User, "webpage")
}

func TestBuildRoutineCallUnknownRoutine(t *testing.T) {
	_, _, err := BuildRoutineCall(insertCache(), "webpage_hits_bogus", WebParams{})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindUnknownRoutine, e.Kind)
}

func TestStripParamPrefix(t *testing.T) {
	assert.Equal(t, "id", stripParamPrefix("_id"))
	assert.Equal(t, "webpage", stripParamPrefix("in_webpage"))
	assert.Equal(t, "id", stripParamPrefix("_in_id"))
	assert.Equal(t, "plain", stripParamPrefix("plain"))
}

func TestPlaceholderList(t *testing.T) {
	assert.Equal(t, "", placeholderList(0))
	assert.Equal(t, "$1", placeholderList(1))
	assert.Equal(t, "$1, $2, $3", placeholderList(3))
}
