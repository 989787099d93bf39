package lesson

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://lesson.json"

// lessonSchema is the reply shape accepted from the model. Slide count is
// requested in the prompt but not enforced; question count is.
var lessonSchema = map[string]any{
	"type":     "object",
	"required": []string{"summary", "questions"},
	"properties": map[string]any{
		"summary": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []string{"title", "html_content"},
				"properties": map[string]any{
					"title":        map[string]any{"type": "string"},
					"html_content": map[string]any{"type": "string", "minLength": 1},
				},
			},
		},
		"questions": map[string]any{
			"type":     "array",
			"minItems": QuestionCount,
			"maxItems": QuestionCount,
			"items": map[string]any{
				"type":     "object",
				"required": []string{"question", "options", "correct_option_index"},
				"properties": map[string]any{
					"question": map[string]any{"type": "string", "minLength": 1},
					"options": map[string]any{
						"type":     "array",
						"minItems": 2,
						"items":    map[string]any{"type": "string"},
					},
					"correct_option_index": map[string]any{"type": "integer", "minimum": 0},
				},
			},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// the compiler wants plain decoded JSON values, not Go slices of strings
		raw, err := json.Marshal(lessonSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal lesson schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileErr = fmt.Errorf("parse lesson schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add lesson schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

func validateShape(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	return s.Validate(doc)
}
