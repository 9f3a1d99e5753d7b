// Package preprocessor implements §4.3: a minimal line-oriented
// preprocessor that strips directives and splices in #include'd files.
//
// Grammar:
//
//	preprocessing_file := ("#" directive | text_line)*
//	text_line           := token* LineFeed
//	directive           := /* empty */ LineFeed
//	                     | "include" string LineFeed
package preprocessor

import (
	"os"
	"path/filepath"

	"github.com/cwbudde/cc64/internal/lexer"
	"github.com/cwbudde/cc64/internal/source"
	"github.com/cwbudde/cc64/internal/token"
)

// Reader abstracts file access so the preprocessor's include resolution
// can be tested without touching the real filesystem. cmd/cc64 wires
// osReader; tests wire an in-memory map.
type Reader interface {
	ReadFile(path string) (string, error)
}

// osReader reads includes straight off disk; the file-descriptor
// acquisition is scoped to the single ReadFile call, so nothing escapes
// this routine (§5).
type osReader struct{}

func (osReader) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}

// OSReader is the default Reader, backed by the real filesystem.
var OSReader Reader = osReader{}

// Preprocessor expands #include directives and strips all directive
// lines from a token stream, producing a flat token vector (§4.3).
type Preprocessor struct {
	reader Reader
	// including tracks the absolute-ish include chain for cycle
	// detection; it is not part of the spec's failure modes but keeps a
	// self-including header from looping the compiler forever.
	including map[string]bool
	// searchDirs is an additional include search path, seeded from the
	// CLI's `-I` flags (cmd/cc64), tried after the including file's own
	// directory and before ".".
	searchDirs []string
}

// New creates a Preprocessor that resolves includes through reader.
func New(reader Reader) *Preprocessor {
	if reader == nil {
		reader = OSReader
	}
	return &Preprocessor{reader: reader, including: map[string]bool{}}
}

// WithSearchDirs sets the additional `-I` include search path and
// returns p for chaining.
func (p *Preprocessor) WithSearchDirs(dirs []string) *Preprocessor {
	p.searchDirs = dirs
	return p
}

// Process lexes src, expands its #include directives (searching the
// directory of the including source, then the -I directories, then "."),
// strips directive lines,
// and returns the flat token vector ending in a single EOF.
func (p *Preprocessor) Process(src *source.Source) ([]token.Token, *source.Diagnostic) {
	if src.Path != "" {
		p.including[src.Path] = true
		defer delete(p.including, src.Path)
	}

	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	return p.preprocessingFile(toks, 0)
}

// preprocessingFile walks the token vector and implements the grammar's
// top production, returning the spliced-and-stripped output, which ends
// with the input's own EOF token (includeDirective drops an included
// file's EOF before splicing).
func (p *Preprocessor) preprocessingFile(toks []token.Token, i int) ([]token.Token, *source.Diagnostic) {
	var out []token.Token
	for i < len(toks) {
		t := toks[i]
		if t.Kind == token.EOF {
			out = append(out, t)
			return out, nil
		}
		if t.Kind == token.Punctuator && t.Str == "#" {
			spliced, next, err := p.directive(toks, i+1)
			if err != nil {
				return nil, err
			}
			out = append(out, spliced...)
			i = next
			continue
		}
		line, next, err := textLine(toks, i)
		if err != nil {
			return nil, err
		}
		out = append(out, line...)
		i = next
	}
	return out, nil
}

// textLine copies tokens up to (and discards) the next LineFeed.
func textLine(toks []token.Token, i int) ([]token.Token, int, *source.Diagnostic) {
	var out []token.Token
	for i < len(toks) {
		t := toks[i]
		if t.Kind == token.LineFeed {
			return out, i + 1, nil
		}
		if t.Kind == token.EOF {
			return out, i, nil
		}
		out = append(out, t)
		i++
	}
	return out, i, nil
}

// directive dispatches on the token right after "#": the empty directive
// (bare LineFeed) or "include" "<path>".
func (p *Preprocessor) directive(toks []token.Token, i int) ([]token.Token, int, *source.Diagnostic) {
	if i >= len(toks) {
		return nil, i, nil
	}
	t := toks[i]

	if t.Kind == token.LineFeed {
		return nil, i + 1, nil
	}

	if t.Kind == token.Ident && t.Str == "include" {
		return p.includeDirective(toks, i+1)
	}

	return nil, i, source.Fatalf(t.Src, t.Loc, source.CategoryPreprocessor, "unknown directive %q", t.Str)
}

func (p *Preprocessor) includeDirective(toks []token.Token, i int) ([]token.Token, int, *source.Diagnostic) {
	if i >= len(toks) || toks[i].Kind != token.Str {
		loc := source.Loc{}
		var src *source.Source
		if i < len(toks) {
			loc, src = toks[i].Loc, toks[i].Src
		}
		return nil, i, source.Fatalf(src, loc, source.CategoryPreprocessor, "expected a quoted path after #include")
	}
	pathTok := toks[i]
	i++

	// consume the LineFeed terminating the directive line, if present
	if i < len(toks) && toks[i].Kind == token.LineFeed {
		i++
	}

	// pathTok.Bytes includes the lexer's trailing NUL terminator.
	path := string(trimNul(pathTok.Bytes))

	resolved, content, ok := p.resolveInclude(path, pathTok.Src)
	if !ok {
		return nil, i, source.Fatalf(pathTok.Src, pathTok.Loc, source.CategoryPreprocessor, "include file not found: %s", path)
	}

	if p.including[resolved] {
		return nil, i, source.Fatalf(pathTok.Src, pathTok.Loc, source.CategoryPreprocessor, "circular #include of %s", path)
	}
	p.including[resolved] = true
	defer delete(p.including, resolved)

	includedSrc := source.New(resolved, content)
	includedToks, err := lexer.Lex(includedSrc)
	if err != nil {
		return nil, i, err
	}
	spliced, err := p.preprocessingFile(includedToks, 0)
	if err != nil {
		return nil, i, err
	}
	// drop the included file's own trailing EOF; it is not a real token
	// boundary in the splice.
	if n := len(spliced); n > 0 && spliced[n-1].Kind == token.EOF {
		spliced = spliced[:n-1]
	}

	return spliced, i, nil
}

// resolveInclude implements §6's search order: absolute paths resolve
// directly; relative paths search the directory of the including
// source, then the -I directories, then ".".
func (p *Preprocessor) resolveInclude(path string, includingSrc *source.Source) (resolved, content string, ok bool) {
	if filepath.IsAbs(path) {
		c, err := p.reader.ReadFile(path)
		if err != nil {
			return "", "", false
		}
		return path, c, true
	}

	var searchDirs []string
	if includingSrc != nil && includingSrc.Path != "" {
		searchDirs = append(searchDirs, filepath.Dir(includingSrc.Path))
	}
	searchDirs = append(searchDirs, p.searchDirs...)
	searchDirs = append(searchDirs, ".")

	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, path)
		c, err := p.reader.ReadFile(candidate)
		if err == nil {
			return candidate, c, true
		}
	}
	return "", "", false
}

func trimNul(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == 0 {
		return b[:n-1]
	}
	return b
}
