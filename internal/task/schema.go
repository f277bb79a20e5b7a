package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const listSchemaURL = "tasklist://schemas/task-list.json"

// ListSchema is the JSON Schema a task list response must satisfy.
const ListSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Task list",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "completed"],
    "properties": {
      "id": {"type": ["integer", "string"]},
      "description": {"type": ["string", "null"]},
      "category": {"type": ["string", "null"]},
      "deadline": {"type": ["string", "null"]},
      "completed": {"type": "boolean"},
      "created_at": {"type": ["string", "null"]}
    },
    "additionalProperties": true
  }
}`

var (
	listSchemaOnce sync.Once
	listSchema     *jsonschema.Schema
	listSchemaErr  error
)

func compiledListSchema() (*jsonschema.Schema, error) {
	listSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(listSchemaURL, strings.NewReader(ListSchema)); err != nil {
			listSchemaErr = fmt.Errorf("add list schema: %w", err)
			return
		}
		listSchema, listSchemaErr = compiler.Compile(listSchemaURL)
	})
	return listSchema, listSchemaErr
}

// ValidateList checks a raw list response body against ListSchema.
// Schema violations are returned as joined *ValidationError values.
func ValidateList(data []byte) error {
	schema, err := compiledListSchema()
	if err != nil {
		return fmt.Errorf("compile list schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		return errors.Join(collectSchemaErrors(nil, ve)...)
	}
	return nil
}

// DecodeList validates and decodes a list response body.
func DecodeList(data []byte) ([]Task, error) {
	if err := ValidateList(data); err != nil {
		return nil, err
	}
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	return tasks, nil
}

func collectSchemaErrors(errs []error, err *jsonschema.ValidationError) []error {
	if err == nil {
		return errs
	}
	if len(err.Causes) == 0 {
		return append(errs, &ValidationError{
			Path: instancePath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
	}
	for _, cause := range err.Causes {
		errs = collectSchemaErrors(errs, cause)
	}
	return errs
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// instancePath names a location inside a list response: "/0/completed"
// becomes "tasks[0].completed". The list itself has an empty path.
func instancePath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("tasks")
	for _, tok := range strings.Split(ptr, "/") {
		tok = pointerUnescaper.Replace(tok)
		if _, err := strconv.Atoi(tok); err == nil {
			b.WriteString("[" + tok + "]")
			continue
		}
		b.WriteString("." + tok)
	}
	return b.String()
}
