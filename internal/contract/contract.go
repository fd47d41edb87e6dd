// Package contract holds the JSON Schema every stored property document
// must satisfy. It checks the wire shape of a complete PropertyForm; field
// rules with user-facing messages live in the wizard package.
package contract

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kash05/court-connect/internal/courtconnect"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const propertyFormSchema = "property_form.json"

var propertyForm = mustCompile(propertyFormSchema)

func mustCompile(name string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	data, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(fmt.Sprintf("contract: read %s: %v", name, err))
	}
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("contract: add %s: %v", name, err))
	}
	s, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("contract: compile %s: %v", name, err))
	}
	return s
}

// Error is the most specific schema violation found in a document.
type Error struct {
	// Location is a JSON pointer into the document, e.g. /media/images.
	Location string
	Message  string
}

func (e *Error) Error() string {
	if e.Location == "" {
		return "contract: " + e.Message
	}
	return fmt.Sprintf("contract: %s: %s", e.Location, e.Message)
}

// ValidateJSON checks a raw property document against the schema.
func ValidateJSON(body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("contract: body is not valid JSON: %w", err)
	}
	if err := propertyForm.Validate(v); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			leaf := deepest(verr)
			return &Error{Location: leaf.InstanceLocation, Message: leaf.Message}
		}
		return fmt.Errorf("contract: %w", err)
	}
	return nil
}

// Validate checks form the way it would be stored.
func Validate(form courtconnect.PropertyForm) error {
	body, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("contract: marshal form: %w", err)
	}
	return ValidateJSON(body)
}

func deepest(e *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(e.Causes) > 0 {
		e = e.Causes[0]
	}
	return e
}
