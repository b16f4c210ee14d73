package dbadmin

import (
	"fmt"
	"strings"
)

// Identifier newtypes force unambiguous intent: a routine name is never
// accidentally compared against a view name.
type (
	RoutineName string
	ParamName   string
	ViewName    string
	FieldName   string
)

// ParamType is the closed set of database types this engine accepts for
// routine input parameters and view fields. Postgres has many more; anything
// outside this set is a configuration error, not a runtime fallback.
type ParamType int

const (
	TypeText ParamType = iota
	TypeInteger
)

func (t ParamType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	default:
		return "text"
	}
}

// ParseParamType maps a Postgres type name (as reported by the introspection
// views) onto a ParamType. Matching is case-insensitive over a small fixed
// vocabulary.
func ParseParamType(name string) (ParamType, error) {
	switch strings.ToLower(name) {
	case "integer", "int4":
		return TypeInteger, nil
	case "character", "varchar", "text", "name":
		return TypeText, nil
	}
	return 0, newError(KindSchemaType,
		fmt.Sprintf("unrecognized database type: %s", name),
		fmt.Sprintf("type name %q is not in the supported vocabulary", name),
		"dbadmin.ParseParamType")
}

// ColumnType classifies a result-set column for template substitution.
type ColumnType int

const (
	ColText ColumnType = iota
	ColInt32
	ColVoid
)

// parseColumnType maps database/sql's DatabaseTypeName onto the closed
// column-type set. Void shows up when a routine returns void.
func parseColumnType(name string) (ColumnType, error) {
	switch strings.ToUpper(name) {
	case "TEXT", "VARCHAR", "NAME":
		return ColText, nil
	case "INT4":
		return ColInt32, nil
	case "VOID":
		return ColVoid, nil
	}
	return 0, newError(KindColumnType,
		fmt.Sprintf("unrecognized column type: %s", name),
		fmt.Sprintf("column type %q has no substitution rule", name),
		"dbadmin.parseColumnType")
}

// Value is a typed SQL argument. Only text and 32-bit integers exist in this
// system, so a small struct beats an interface hierarchy.
type Value struct {
	Kind ParamType
	Text string
	Int  int32
}

func TextValue(s string) Value { return Value{Kind: TypeText, Text: s} }
func IntValue(i int32) Value   { return Value{Kind: TypeInteger, Int: i} }

// Arg returns the value in the form the sql driver expects.
func (v Value) Arg() interface{} {
	if v.Kind == TypeInteger {
		return v.Int
	}
	return v.Text
}

// Args converts a value list into driver arguments, preserving order.
func Args(values []Value) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v.Arg()
	}
	return args
}
