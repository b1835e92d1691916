package templates

import "embed"

// FS exposes the codegen template used by layoutgen
// for per-struct layout variable generation.
//
//go:embed *.go.tpl
var FS embed.FS
