package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/toolvet/toolvet/internal/descriptor"
)

var requiredStringFields = []string{"id", "name", "version"}

var sequenceFields = []string{"capabilities", "dependencies"}

// MetadataValidityCheck verifies the declared metadata shape: required
// string fields, optional sequence fields, and — when a tool declares
// a configSchema — that the schema compiles as JSON Schema.
type MetadataValidityCheck struct{}

func NewMetadataValidityCheck() *MetadataValidityCheck {
	return &MetadataValidityCheck{}
}

func (c *MetadataValidityCheck) Name() string { return "metadata_validity" }

func (c *MetadataValidityCheck) Run(_ context.Context, tool *descriptor.Tool) (*Result, error) {
	var issues []string

	for _, field := range requiredStringFields {
		v, ok := tool.Metadata[field]
		if !ok {
			issues = append(issues, "missing required field: "+field)
			continue
		}
		if _, ok := v.(string); !ok {
			issues = append(issues, fmt.Sprintf("field %s must be a string", field))
		}
	}

	for _, field := range sequenceFields {
		if _, present, isSeq := tool.Metadata.SequenceField(field); present && !isSeq {
			issues = append(issues, fmt.Sprintf("field %s must be an array of strings", field))
		}
	}

	if raw, ok := tool.Metadata["configSchema"]; ok {
		if issue := compileConfigSchema(raw); issue != "" {
			issues = append(issues, issue)
		}
	}

	if len(issues) > 0 {
		return Fail(SeverityError, strings.Join(issues, "; ")), nil
	}
	return Pass("metadata well-formed"), nil
}

// compileConfigSchema verifies a declared config schema is valid JSON
// Schema. The schema is only compiled here, never applied.
func compileConfigSchema(raw any) string {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("configSchema.json", raw); err != nil {
		return fmt.Sprintf("configSchema is not a valid schema document: %v", err)
	}
	if _, err := compiler.Compile("configSchema.json"); err != nil {
		return fmt.Sprintf("configSchema does not compile: %v", err)
	}
	return ""
}
