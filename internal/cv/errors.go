package cv

import "fmt"

// UnsupportedFormatError is returned when a document's declared format is not
// one of pdf, docx or text.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format: %q", e.Format)
}

// CorruptDocumentError is returned when the format is recognized but the
// content cannot be parsed.
type CorruptDocumentError struct {
	Format Format
	Cause  error
}

func (e *CorruptDocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corrupt %s document: %v", e.Format, e.Cause)
	}
	return fmt.Sprintf("corrupt %s document", e.Format)
}

func (e *CorruptDocumentError) Unwrap() error {
	return e.Cause
}

// TaxonomyError reports an invalid skill taxonomy definition.
type TaxonomyError struct {
	Skill   string
	Message string
}

func (e *TaxonomyError) Error() string {
	if e.Skill != "" {
		return fmt.Sprintf("taxonomy error for %q: %s", e.Skill, e.Message)
	}
	return fmt.Sprintf("taxonomy error: %s", e.Message)
}
