package dbadmin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParamType(t *testing.T) {
	for name, want := range map[string]ParamType{
		"integer":   TypeInteger,
		"Integer":   TypeInteger,
		"int4":      TypeInteger,
		"character": TypeText,
		"varchar":   TypeText,
		"text":      TypeText,
		"name":      TypeText,
	} {
		got, err := ParseParamType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseParamType("bytea")
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindSchemaType, e.Kind)
}

func TestParseArgsDef(t *testing.T) {
	params, err := parseArgsDef("_id integer, _webpage character varying, _hit_count integer")
	require.NoError(t, err)
	require.Len(t, params, 3)
	assert.Equal(t, RoutineParam{Name: "_id", Type: TypeInteger}, params[0])
	assert.Equal(t, RoutineParam{Name: "_webpage", Type: TypeText}, params[1])
	assert.Equal(t, RoutineParam{Name: "_hit_count", Type: TypeInteger}, params[2])
}

func TestParseArgsDefSkipsOutParams(t *testing.T) {
	params, err := parseArgsDef("_id integer, OUT webpage text, OUT hit_count integer")
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, ParamName("_id"), params[0].Name)
}

func TestParseArgsDefEmpty(t *testing.T) {
	params, err := parseArgsDef("")
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestParseArgsDefUnrecognizedType(t *testing.T) {
	_, err := parseArgsDef("_payload jsonb")
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindSchemaType, e.Kind)
	assert.Contains(t, e.User, "jsonb")
}
