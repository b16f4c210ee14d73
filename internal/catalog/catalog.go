// Package catalog loads the JSON document that declares which entities the
// admin serves. Each entity maps onto one database list view plus six
// single-record routines, all named by convention.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed catalog.schema.json
var schemaJSON string

// Catalog is the root document.
type Catalog struct {
	Version  string   `json:"version"`
	Title    string   `json:"title,omitempty"`
	Scope    string   `json:"scope"`
	Entities []Entity `json:"entities"`
}

// Entity declares one administered record type. The backing database objects
// follow the naming convention <name>_list for the view and <name>_<op> for
// the routines; templates carry the same names under the catalog scope.
type Entity struct {
	Name    string   `json:"name"`
	Title   string   `json:"title,omitempty"`
	Filters []string `json:"filters,omitempty"`
}

// ListView is the conventional name of the entity's backing view.
func (e Entity) ListView() string { return e.Name + "_list" }

// Routine is the conventional name of one single-record routine.
func (e Entity) Routine(op string) string { return e.Name + "_" + op }

// SingleRowOps are the route suffixes served by single-record routines.
var SingleRowOps = []string{"new", "insert", "show", "edit", "update", "delete"}

// Load reads, validates and unmarshals a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	if violations, err := Validate(data); err != nil {
		return nil, err
	} else if len(violations) > 0 {
		return nil, fmt.Errorf("catalog %s is invalid: %v", path, violations)
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("unmarshaling catalog: %w", err)
	}
	return &cat, nil
}

// Validate checks a catalog document against the embedded JSON Schema and
// returns the list of violations, empty when the document is valid.
func Validate(data []byte) ([]string, error) {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
	var violations []string
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations, nil
}
