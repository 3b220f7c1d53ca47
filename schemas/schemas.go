// Package schemas embeds the JSON Schema documents shipped with the binary.
package schemas

import _ "embed"

// AnalysisResult is the schema every model-produced analysis payload must
// satisfy before it reaches callers.
//
//go:embed analysis_result.schema.json
var AnalysisResult string
