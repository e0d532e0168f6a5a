package reference

import (
	"embed"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/*.json schemas/*.json
var files embed.FS

const (
	taxonomySchema = "schemas/taxonomy.schema.json"
	marketSchema   = "schemas/market.schema.json"
	catalogSchema  = "schemas/catalog.schema.json"
)

var validate = validator.New()

// ValidationError lists every schema or struct rule a document broke.
type ValidationError struct {
	Document string
	Errors   []FieldError
}

// FieldError is a single violation at a field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid %s:", ve.Document)
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, " %d. %s: %s;", i+1, err.Field, err.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// validateJSON checks raw JSON against one of the embedded schemas.
func validateJSON(document, schemaPath string, data []byte) error {
	schema, err := files.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema %s: %w", schemaPath, err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &ValidationError{
			Document: document,
			Errors:   []FieldError{{Field: "(root)", Message: err.Error()}},
		}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Document: document,
		Errors:   make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// validateStruct applies the validate tags of the decoded value.
func validateStruct(document string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid %s: %w", document, err)
	}
	validationErr := &ValidationError{Document: document}
	for _, fe := range verrs {
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("failed %q rule", fe.Tag()),
		})
	}
	return validationErr
}
