// Package schema validates persisted todo payloads against a JSON schema
// generated from model.Todo.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	invopop "github.com/invopop/jsonschema"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	tadaerrors "github.com/idilsaglam/tada/internal/errors"
	"github.com/idilsaglam/tada/internal/model"
)

const todoListURL = "https://tada.local/schema/todo-list.json"

// Validator checks raw JSON against the todo list schema.
type Validator struct {
	schema *jsonschema.Schema
}

var (
	todoListOnce sync.Once
	todoList     *Validator
	todoListErr  error
)

// TodoList returns the shared validator for a JSON array of todos.
func TodoList() (*Validator, error) {
	todoListOnce.Do(func() {
		todoList, todoListErr = compileTodoList()
	})
	return todoList, todoListErr
}

// TodoListDocument renders the todo list schema as JSON.
func TodoListDocument() ([]byte, error) {
	r := &invopop.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
		Anonymous:                 true,
	}
	item := r.Reflect(&model.Todo{})
	item.Version = ""

	list := &invopop.Schema{
		Version:     invopop.Version,
		Type:        "array",
		Title:       "todo list",
		Description: "Persisted list of todos",
		Items:       item,
	}
	return json.MarshalIndent(list, "", "  ")
}

func compileTodoList() (*Validator, error) {
	doc, err := TodoListDocument()
	if err != nil {
		return nil, fmt.Errorf("render schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(todoListURL, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	s, err := compiler.Compile(todoListURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Validate returns a STORAGE_MALFORMED error when data is not valid JSON or
// does not describe a list of todos.
func (v *Validator) Validate(data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return tadaerrors.Wrap(err, tadaerrors.ErrCodeStorageMalformed, "invalid JSON")
	}
	if err := v.schema.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return tadaerrors.Wrap(err, tadaerrors.ErrCodeStorageMalformed, "schema validation failed")
		}
		leaf := firstLeaf(ve)
		return tadaerrors.New(tadaerrors.ErrCodeStorageMalformed, leaf.Message).
			WithDetail("path", leaf.InstanceLocation)
	}
	return nil
}

// firstLeaf walks down to the most specific cause.
func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}
