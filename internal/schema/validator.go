// Package schema validates JSON documents crossing the service boundary: the
// inbound translate request and the upstream language/domain listings.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed translate_request.schema.json
var translateRequestSchemaJSON string

//go:embed string_list.schema.json
var stringListSchemaJSON string

const (
	translateRequestResource = "translate_request.schema.json"
	stringListResource       = "string_list.schema.json"
)

// TranslateRequest is the wire shape of POST /api/v1/validated-translate.
type TranslateRequest struct {
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Domain         string `json:"domain"`
	Content        string `json:"content"`
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

// DecodeTranslateRequest validates raw against the request schema and decodes it.
func DecodeTranslateRequest(raw []byte) (*TranslateRequest, error) {
	value, err := decodeStrictJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode request JSON: %w", err)
	}
	if err := validate(translateRequestResource, value); err != nil {
		return nil, err
	}

	var req TranslateRequest
	if err := json.Unmarshal(bytes.TrimSpace(raw), &req); err != nil {
		return nil, fmt.Errorf("unmarshal request: %w", err)
	}
	return &req, nil
}

// DecodeStringList validates raw as a JSON array of strings and decodes it.
func DecodeStringList(raw []byte) ([]string, error) {
	value, err := decodeStrictJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode list JSON: %w", err)
	}
	if err := validate(stringListResource, value); err != nil {
		return nil, err
	}

	var items []string
	if err := json.Unmarshal(bytes.TrimSpace(raw), &items); err != nil {
		return nil, fmt.Errorf("unmarshal list: %w", err)
	}
	return items, nil
}

func validate(resource string, value any) error {
	schemas, err := loadSchemas()
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	schema, ok := schemas[resource]
	if !ok {
		return fmt.Errorf("schema %s is not registered", resource)
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func loadSchemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		sources := map[string]string{
			translateRequestResource: translateRequestSchemaJSON,
			stringListResource:       stringListSchemaJSON,
		}
		out := make(map[string]*jsonschema.Schema, len(sources))
		for name, text := range sources {
			if err := compiler.AddResource(name, strings.NewReader(text)); err != nil {
				compileErr = fmt.Errorf("add schema resource %s: %w", name, err)
				return
			}
		}
		for name := range sources {
			schema, err := compiler.Compile(name)
			if err != nil {
				compileErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			out[name] = schema
		}
		compiled = out
	})

	if compileErr != nil {
		return nil, compileErr
	}
	if compiled == nil {
		return nil, fmt.Errorf("schemas not initialized")
	}
	return compiled, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}
	return value, nil
}
