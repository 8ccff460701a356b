package apimodel

import "github.com/Sumatoshi-tech/bindinfo/pkg/metadata"

// ImportantEnums lists the enumerations the metadata marks as important: every
// property value_enum in document order, then additional_important_enums.
// Duplicates are kept and names are not checked against the extracted model.
func ImportantEnums(doc *metadata.Document) []string {
	important := make([]string, 0)
	if doc == nil {
		return important
	}

	for _, node := range doc.Nodes {
		for _, prop := range node.Properties {
			if prop.HasValueEnum {
				important = append(important, prop.ValueEnum)
			}
		}
	}

	return append(important, doc.AdditionalImportantEnums...)
}

// UnknownImportantEnums lists, once each and in order, the important enum
// names that match no enumeration in m.
func (m *Model) UnknownImportantEnums() []string {
	seen := make(map[string]bool, len(m.ImportantEnums))

	var unknown []string

	for _, name := range m.ImportantEnums {
		if seen[name] || m.ConstantsByEnum.Has(name) {
			continue
		}

		seen[name] = true
		unknown = append(unknown, name)
	}

	return unknown
}
