package cmd

import (
	"io"
	"os"

	"github.com/cwbudde/cc64/internal/config"
	"github.com/cwbudde/cc64/internal/parser"
	"github.com/cwbudde/cc64/internal/preprocessor"
	"github.com/cwbudde/cc64/internal/source"
	"github.com/cwbudde/cc64/internal/token"
)

// options builds this invocation's config.Options from the bound cobra
// flags (§2's "flags bound via cobra PersistentFlags").
func options() config.Options {
	return config.Options{IncludeDirs: includeDirs, EmitDebugLines: emitDebugLines}
}

// readSource implements §6's input rule: path "-" reads standard input,
// anything else is read from disk.
func readSource(path string) (*source.Source, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return source.New("", string(b)), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return source.New(path, string(b)), nil
}

// tokenize runs stages A-C (source, lex, preprocess) of the pipeline.
func tokenize(path string, opts config.Options) ([]token.Token, error) {
	src, err := readSource(path)
	if err != nil {
		return nil, err
	}
	pp := preprocessor.New(preprocessor.OSReader).WithSearchDirs(opts.IncludeDirs)
	toks, diag := pp.Process(src)
	if diag != nil {
		return nil, diag
	}
	return toks, nil
}

// parse runs stages A-D: tokenize, then the recursive-descent parser.
func parse(path string, opts config.Options) (*parser.ParseContext, error) {
	toks, err := tokenize(path, opts)
	if err != nil {
		return nil, err
	}
	ctx, diag := parser.Parse(toks)
	if diag != nil {
		return nil, diag
	}
	return ctx, nil
}
