package apimodel

import (
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/bindinfo/pkg/cdecl"
	"github.com/Sumatoshi-tech/bindinfo/pkg/metadata"
)

// Model is the aggregate view of an API surface handed to binding generators.
type Model struct {
	Functions       *Ordered[*FunctionInfo]   `json:"functions"         yaml:"functions"`
	Typedefs        *Ordered[TypeInfo]        `json:"typedefs"          yaml:"typedefs"`
	Constants       *Ordered[int64]           `json:"constants"         yaml:"constants"`
	ConstantsByEnum *Ordered[*Ordered[int64]] `json:"constants_by_enum" yaml:"constants_by_enum"`
	Metadata        *metadata.Document        `json:"metadata"          yaml:"metadata"`
	ImportantEnums  []string                  `json:"important_enums"   yaml:"important_enums"`
}

// Options tunes the naming conventions used while building a Model.
type Options struct {
	// SentinelSuffix marks enumerators dropped from ConstantsByEnum.
	SentinelSuffix string
	// OutputMarker marks output parameters by substring of their name.
	OutputMarker string
}

// DefaultOptions returns the conventions used by the headers this tool targets.
func DefaultOptions() Options {
	return Options{
		SentinelSuffix: DefaultSentinelSuffix,
		OutputMarker:   DefaultOutputMarker,
	}
}

// Build runs every extractor over unit and reconciles the result with doc.
// Any extraction error aborts the build; there is no partial model.
func Build(unit *cdecl.TranslationUnit, doc *metadata.Document, opts Options) (*Model, error) {
	resolver := NewResolver(opts.OutputMarker)

	functions, err := resolver.ExtractFunctions(unit)
	if err != nil {
		return nil, fmt.Errorf("extract functions: %w", err)
	}

	typedefs, err := resolver.ExtractTypedefs(unit)
	if err != nil {
		return nil, fmt.Errorf("extract typedefs: %w", err)
	}

	groups, err := ExtractEnums(unit)
	if err != nil {
		return nil, fmt.Errorf("extract enums: %w", err)
	}

	return &Model{
		Functions:       functions,
		Typedefs:        typedefs,
		Constants:       FlattenConstants(groups),
		ConstantsByEnum: FilterSentinels(groups, opts.SentinelSuffix),
		Metadata:        doc,
		ImportantEnums:  ImportantEnums(doc),
	}, nil
}

// IsImportant reports whether enumName is listed in ImportantEnums.
func (m *Model) IsImportant(enumName string) bool {
	return slices.Contains(m.ImportantEnums, enumName)
}
