package content

import (
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/cpa-path/cpa-path-hub/internal/domain/shared"
)

// questionBankSchema describes the minimum the engine relies on: a
// "questions" array whose entries carry an id. The remaining question
// fields belong to the content authors and stay unconstrained.
const questionBankSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["questions"],
	"properties": {
		"questions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"chapter_id": {"type": "string"},
					"type": {"type": "string"},
					"difficulty": {"type": "integer", "minimum": 1}
				}
			}
		}
	}
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// compiledBankSchema compiles the schema once per process.
func compiledBankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var parsed any
		if err := json.Unmarshal([]byte(questionBankSchema), &parsed); err != nil {
			compileErr = err
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://question_bank.json"
		if err := c.AddResource(schemaURL, parsed); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// validateQuestionBank checks the raw bank document against the schema.
func validateQuestionBank(raw []byte) error {
	schema, err := compiledBankSchema()
	if err != nil {
		return shared.WrapError("content", "Refresh", shared.ErrInvalidState,
			"compile question bank schema", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return shared.WrapError("content", "Refresh", shared.ErrBankMalformed,
			"parse question bank", err)
	}

	if err := schema.Validate(parsed); err != nil {
		return shared.WrapError("content", "Refresh", shared.ErrBankMalformed,
			"question bank failed schema validation", err)
	}

	return nil
}
