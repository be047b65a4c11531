package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/harun/vidya/pkg/language"
)

// PackSchema is the JSON Schema for template pack validation.
const PackSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["templates"],
  "properties": {
    "templates": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": false,
      "patternProperties": {
        "^(en|hi|te)$": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "system": { "type": "string", "minLength": 1 },
            "format": { "type": "string", "minLength": 1 },
            "context_header": { "type": "string", "minLength": 1 },
            "final_instruction": { "type": "string", "minLength": 1 },
            "greeting": { "type": "string", "minLength": 1 },
            "api_error_notice": { "type": "string", "minLength": 1 }
          }
        }
      }
    }
  }
}`

// Pack is a set of template overrides loaded from a JSON file. Missing
// fields keep their built-in defaults.
type Pack struct {
	Templates map[language.Language]Templates `json:"templates"`
}

// LoadPack reads and validates a template pack file.
func LoadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template pack: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(PackSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate template pack: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			issues = append(issues, e.String())
		}
		return nil, fmt.Errorf("invalid template pack %s: %s", path, strings.Join(issues, "; "))
	}

	var pack Pack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse template pack: %w", err)
	}

	return &pack, nil
}
