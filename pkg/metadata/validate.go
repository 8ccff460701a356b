package metadata

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Validate checks the structural shape of a decoded document against the
// embedded schema. It does not cross-check names against any header.
func Validate(raw any) error {
	schemaBytes, err := SchemaFS.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("read embedded schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("%w: schema validation: %w", ErrInvalidDocument, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return &ValidationError{Problems: problems}
}

// ValidationError lists every schema violation of a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidDocument, strings.Join(e.Problems, "; "))
}

// Unwrap makes errors.Is(err, ErrInvalidDocument) hold.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidDocument
}
