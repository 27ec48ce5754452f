package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// compiledSchema lazily compiles schema.json once per process and
// caches the result, the same compile-once-and-reuse shape as the
// teacher's validatorCache, simplified to a single fixed schema
// instead of a hash-keyed cache of many dynamic ones.
func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		const url = "schema://gdtoolkit/sema/config.json"
		if err := compiler.AddResource(url, strings.NewReader(string(schemaJSON))); err != nil {
			compileErr = fmt.Errorf("config: add schema resource: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(url)
	})
	return compiled, compileErr
}

// Validate checks raw (a JSON document, already decoded into a generic
// value as jsonschema.Validate requires) against the embedded options
// schema.
func Validate(raw any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(raw); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}
	return nil
}

// validateJSON decodes data as a generic JSON value and validates it,
// the shape Load needs before unmarshalling into a concrete Options.
func validateJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("config: decode for validation: %w", err)
	}
	return Validate(raw)
}
