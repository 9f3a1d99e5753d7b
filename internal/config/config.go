// Package config holds the small set of knobs the CLI exposes, bound
// directly from Cobra flags rather than a config file or environment
// variables (the teacher carries no config-file layer either — its
// `dwscript` options are all plain cobra flags).
package config

// Options is the compiler's run-time configuration for a single
// invocation of the pipeline.
type Options struct {
	// IncludeDirs seeds the preprocessor's `#include "..."` search path,
	// in addition to the including file's own directory (§4.3). Only the
	// quoted include form is recognized.
	IncludeDirs []string

	// EmitDebugLines toggles `.file`/`.loc` directive emission in the
	// generated assembly (§4.5).
	EmitDebugLines bool

	// ParseOnly is not bound to any flag and is not read by any pipeline
	// stage; the `lex`/`parse` debug subcommands stop early by calling
	// the CLI's tokenize/parse helpers directly.
	ParseOnly bool
}
