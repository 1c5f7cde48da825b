package draft

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// draftSchema guards restore against corrupt or foreign payloads under the
// draft key. Anything failing it is treated as no draft at all.
const draftSchema = `{
	"type": "object",
	"required": ["form", "step"],
	"properties": {
		"form": {
			"type": "object",
			"properties": {
				"fullName": {"type": "string"},
				"email": {"type": "string"},
				"mobileNumber": {"type": "string"},
				"educationQualifications": {"type": "array"},
				"workExperience": {"type": "array"},
				"references": {"type": "array"}
			}
		},
		"step": {"type": "integer", "minimum": 0, "maximum": 7},
		"savedAt": {"type": "string"}
	}
}`

var compiledSchema = gojsonschema.NewStringLoader(draftSchema)

// validatePayload checks a raw draft document against the schema.
func validatePayload(raw []byte) error {
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(compiledSchema, documentLoader)
	if err != nil {
		return fmt.Errorf("draft schema validation: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("draft payload invalid: %s", strings.Join(msgs, "; "))
	}
	return nil
}
