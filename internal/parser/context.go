// Package parser implements §4.4: a recursive-descent parser over the
// preprocessor's flat token vector that builds the AST while performing
// semantic typing, scope/tag management, and constant folding during
// construction (the "Parser + ParseContext" component of §2).
package parser

import (
	"strconv"

	"github.com/cwbudde/cc64/internal/ast"
	"github.com/cwbudde/cc64/internal/types"
)

// Function is one entry of ParseContext.Functions: a defined function's
// name, its final stack frame size, and its body.
type Function struct {
	Name      string
	Params    []*ast.Node
	Body      *ast.Node
	StackSize int64
	// Node is the ast.KindDefun wrapper around Params/Body, used by
	// debug tooling (the `cc64 parse` dump command) that wants a single
	// Node per top-level definition rather than the ParseContext's
	// separate tables.
	Node *ast.Node
}

// GVar is one entry of ParseContext.Globals.
type GVar struct {
	Name string
	Type *types.Type
	// Init holds the flattened initializer node list for array globals,
	// or a single-element list for scalar globals; nil when uninitialized.
	Init []*ast.Node
}

// StringLit is one entry of ParseContext.Strings: an auto-labelled string
// literal destined for .rodata.
type StringLit struct {
	Label string
	Bytes []byte
}

// localVar is one entry of a Scope's local variable table.
type localVar struct {
	typ    *types.Type
	offset int64
}

// Scope is one level of the nested-scope stack of §3: a (locals, tags)
// pair linked to its parent. The parser pushes a Scope on entering a
// compound_stmt and pops it on exit; lookups walk child-first to
// outermost, then fall through to ParseContext.Globals/Tags.
type Scope struct {
	parent *Scope
	locals map[string]*localVar
	tags   map[string]*types.Type
}

func newScope(parent *Scope) *Scope {
	return &Scope{parent: parent, locals: map[string]*localVar{}, tags: map[string]*types.Type{}}
}

// ParseContext is the process-wide state of §3: the function table,
// global-variable table, string-literal table, file-scope tag table, the
// currently-open function (if any) and its scope chain, and the
// string-label counter.
type ParseContext struct {
	Functions []*Function
	Globals   []*GVar
	Strings   []StringLit

	fileTags map[string]*types.Type

	currentFn    *Function
	currentFrame int64
	scope        *Scope

	strCounter int
}

// New creates an empty ParseContext, ready to parse a translation unit.
func New() *ParseContext {
	return &ParseContext{fileTags: map[string]*types.Type{}}
}

// --- functions -------------------------------------------------------------

// EnterFunction opens a new function scope; StackSize is finalized by
// LeaveFunction once the body has been parsed.
func (c *ParseContext) EnterFunction(name string) {
	c.currentFn = &Function{Name: name}
	c.currentFrame = 0
	c.scope = newScope(nil)
}

// LeaveFunction closes the current function, records its final frame
// size, registers it in Functions, and clears the active scope.
func (c *ParseContext) LeaveFunction(params []*ast.Node, body *ast.Node) *Function {
	fn := c.currentFn
	fn.Params = params
	fn.Body = body
	fn.StackSize = c.currentFrame
	fn.Node = ast.NewDefun(fn.Body.Tok, fn.Name, fn.Params, fn.Body)
	c.Functions = append(c.Functions, fn)
	c.currentFn = nil
	c.scope = nil
	return fn
}

// InFunction reports whether a function body is currently being parsed.
func (c *ParseContext) InFunction() bool { return c.currentFn != nil }

// --- scopes ------------------------------------------------------------

// PushScope enters a nested block scope (compound_stmt entry).
func (c *ParseContext) PushScope() { c.scope = newScope(c.scope) }

// PopScope leaves the innermost block scope (compound_stmt exit).
func (c *ParseContext) PopScope() { c.scope = c.scope.parent }

// DeclareLocal adds name to the innermost scope, allocating a frame
// offset of currentFrame + typ.Size(). Returns an error if name is
// already declared at this exact scope level (redeclaration, §7).
func (c *ParseContext) DeclareLocal(name string, typ *types.Type) (offset int64, err error) {
	if _, dup := c.scope.locals[name]; dup {
		return 0, &ast.Error{Msg: "redeclaration of '" + name + "' in the same scope"}
	}
	c.currentFrame += typ.Size()
	offset = c.currentFrame
	c.scope.locals[name] = &localVar{typ: typ, offset: offset}
	return offset, nil
}

// LookupLocal walks the scope chain innermost-first looking for name.
func (c *ParseContext) LookupLocal(name string) (typ *types.Type, offset int64, ok bool) {
	for s := c.scope; s != nil; s = s.parent {
		if lv, found := s.locals[name]; found {
			return lv.typ, lv.offset, true
		}
	}
	return nil, 0, false
}

// --- globals -------------------------------------------------------------

// DeclareGlobal registers a file-scope variable.
func (c *ParseContext) DeclareGlobal(name string, typ *types.Type, init []*ast.Node) error {
	for _, g := range c.Globals {
		if g.Name == name {
			return &ast.Error{Msg: "redeclaration of global '" + name + "'"}
		}
	}
	c.Globals = append(c.Globals, &GVar{Name: name, Type: typ, Init: init})
	return nil
}

// LookupGlobal finds a previously-declared global by name.
func (c *ParseContext) LookupGlobal(name string) (*types.Type, bool) {
	for _, g := range c.Globals {
		if g.Name == name {
			return g.Type, true
		}
	}
	return nil, false
}

// --- tags ------------------------------------------------------------------

// DeclareTag registers a struct/union tag, preferring the innermost open
// scope if one exists, else the file scope. Returns an error if the tag
// is already defined at that same level (§7: "duplicate tag").
func (c *ParseContext) DeclareTag(name string, typ *types.Type) error {
	table := c.fileTags
	if c.scope != nil {
		table = c.scope.tags
	}
	if _, dup := table[name]; dup {
		return &ast.Error{Msg: "redefinition of tag '" + name + "'"}
	}
	table[name] = typ
	return nil
}

// LookupTag finds a struct/union tag, walking the scope chain
// innermost-first before falling back to file scope.
func (c *ParseContext) LookupTag(name string) (*types.Type, bool) {
	for s := c.scope; s != nil; s = s.parent {
		if t, ok := s.tags[name]; ok {
			return t, ok
		}
	}
	t, ok := c.fileTags[name]
	return t, ok
}

// --- string literals -------------------------------------------------------

// InternString allocates a new `.L__String{n}` label for bytes. Two
// identical literals are intentionally not deduplicated (§9 open
// question): each occurrence gets its own label.
func (c *ParseContext) InternString(bytes []byte) string {
	label := stringLabel(c.strCounter)
	c.strCounter++
	c.Strings = append(c.Strings, StringLit{Label: label, Bytes: bytes})
	return label
}

func stringLabel(n int) string {
	return ".L__String" + strconv.Itoa(n)
}

// --- snapshot / restore ----------------------------------------------------

// Snapshot is a deep copy of everything a failed lookahead probe could
// have mutated: the function/global/string/tag tables, the current
// function's frame counter, and its scope chain (§4.4, §9). Cloning the
// whole context is acceptable because the only probe that uses it is the
// bounded function-definition-vs-global-declaration lookahead of §4.4.
type Snapshot struct {
	functions    []*Function
	globals      []*GVar
	strings      []StringLit
	fileTags     map[string]*types.Type
	currentFn    *Function
	currentFrame int64
	scope        *Scope
	strCounter   int
}

// Snapshot captures the current state for later Restore.
func (c *ParseContext) Snapshot() *Snapshot {
	return &Snapshot{
		functions:    append([]*Function(nil), c.Functions...),
		globals:      append([]*GVar(nil), c.Globals...),
		strings:      append([]StringLit(nil), c.Strings...),
		fileTags:     cloneTags(c.fileTags),
		currentFn:    c.currentFn,
		currentFrame: c.currentFrame,
		scope:        cloneScope(c.scope),
		strCounter:   c.strCounter,
	}
}

// Restore undoes every mutation made since Snapshot was taken.
func (c *ParseContext) Restore(s *Snapshot) {
	c.Functions = s.functions
	c.Globals = s.globals
	c.Strings = s.strings
	c.fileTags = s.fileTags
	c.currentFn = s.currentFn
	c.currentFrame = s.currentFrame
	c.scope = s.scope
	c.strCounter = s.strCounter
}

func cloneTags(in map[string]*types.Type) map[string]*types.Type {
	out := make(map[string]*types.Type, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneScope(s *Scope) *Scope {
	if s == nil {
		return nil
	}
	clone := &Scope{parent: cloneScope(s.parent), locals: map[string]*localVar{}, tags: cloneTags(s.tags)}
	for k, v := range s.locals {
		lv := *v
		clone.locals[k] = &lv
	}
	return clone
}
