package metadata

import "embed"

// SchemaFS contains the embedded metadata JSON schema.
//
//go:embed schema.json
var SchemaFS embed.FS

const schemaFile = "schema.json"
