// Package types implements §3's CType algebra: Integer, Pointer, Array,
// Struct, Union, and Statement, with the size/alignment/equality rules
// of §3's invariants.
package types

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/cwbudde/cc64/internal/token"
)

// Kind discriminates the CType variants.
type Kind int

const (
	KindChar Kind = iota
	KindInt
	KindPointer
	KindArray
	KindStruct
	KindUnion
	KindStatement
)

// Member is one (name, type, offset) entry of a Struct or Union.
type Member struct {
	Name   string
	Type   *Type
	Offset int64
}

// Type is the CType value. Struct/Union carry a defID assigned at
// definition time so that two structurally identical aggregates declared
// at different source sites compare unequal (nominal equality, §3/§9);
// DefTok is kept only for diagnostics, not for the equality check itself.
type Type struct {
	Kind Kind

	Base *Type // Pointer, Array
	Len  int64 // Array element count

	Tag     string   // Struct/Union, optional
	Members []Member // Struct/Union
	DefTok  token.Token
	defID   int64
}

var (
	Char = &Type{Kind: KindChar}
	Int  = &Type{Kind: KindInt}
	// Stmt is the type of every statement-kind AST node: size 0, and it
	// cannot appear as the value of a statement-expression (§3).
	Stmt = &Type{Kind: KindStatement}
)

var nextDefID int64

func newDefID() int64 {
	return atomic.AddInt64(&nextDefID, 1)
}

// NewPointer builds Pointer(base).
func NewPointer(base *Type) *Type {
	return &Type{Kind: KindPointer, Base: base}
}

// NewArray builds Array(base, n).
func NewArray(base *Type, n int64) *Type {
	return &Type{Kind: KindArray, Base: base, Len: n}
}

// NewStruct builds a Struct type from ordered (name, type) members,
// laying members out with alignment padding and assigning offsets.
// Returns an error if members is empty (§7: "empty aggregate") or
// contains a duplicate member name.
func NewStruct(tag string, fields []Member, defTok token.Token) (*Type, error) {
	return newAggregate(KindStruct, tag, fields, defTok, alignUp)
}

// NewUnion builds a Union type: every member sits at offset 0.
func NewUnion(tag string, fields []Member, defTok token.Token) (*Type, error) {
	return newAggregate(KindUnion, tag, fields, defTok, func(_, _ int64) int64 { return 0 })
}

func newAggregate(kind Kind, tag string, fields []Member, defTok token.Token, offsetFn func(cur, align int64) int64) (*Type, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty struct/union is not allowed")
	}

	seen := map[string]bool{}
	members := make([]Member, 0, len(fields))
	var cur int64
	for _, f := range fields {
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate member name %q", f.Name)
		}
		seen[f.Name] = true

		offset := offsetFn(cur, f.Type.Align())
		members = append(members, Member{Name: f.Name, Type: f.Type, Offset: offset})
		cur = offset + f.Type.Size()
	}

	return &Type{Kind: kind, Tag: tag, Members: members, DefTok: defTok, defID: newDefID()}, nil
}

func alignUp(cur, align int64) int64 {
	if align == 0 {
		return cur
	}
	return (cur + align - 1) / align * align
}

// Size returns sizeof(t), rounded up to t's own alignment for aggregates
// (§3's invariant).
func (t *Type) Size() int64 {
	switch t.Kind {
	case KindChar:
		return 1
	case KindInt, KindPointer:
		return 8
	case KindArray:
		return t.Base.Size() * t.Len
	case KindStruct:
		if len(t.Members) == 0 {
			return 0
		}
		last := t.Members[len(t.Members)-1]
		raw := last.Offset + last.Type.Size()
		return alignUp(raw, t.Align())
	case KindUnion:
		var max int64
		for _, m := range t.Members {
			if s := m.Type.Size(); s > max {
				max = s
			}
		}
		return alignUp(max, t.Align())
	default: // KindStatement
		return 0
	}
}

// Align returns the alignment requirement of t: the max alignment of its
// members for aggregates, its own size for scalars (§3).
func (t *Type) Align() int64 {
	switch t.Kind {
	case KindChar, KindInt, KindPointer:
		return t.Size()
	case KindArray:
		return t.Base.Align()
	case KindStruct, KindUnion:
		var max int64
		for _, m := range t.Members {
			if a := m.Type.Align(); a > max {
				max = a
			}
		}
		return max
	default:
		return 0
	}
}

// FlatLen returns the element count as if t were flattened to a 1-D
// array: int[2][3] -> 6, int -> 1, Statement -> 0. Used to pad/truncate
// brace-initializer lists (§4.4).
func (t *Type) FlatLen() int64 {
	switch t.Kind {
	case KindArray:
		return t.Base.FlatLen() * t.Len
	case KindStatement:
		return 0
	default:
		return 1
	}
}

// Member looks up a Struct/Union field by name.
func (t *Type) Member(name string) (Member, bool) {
	if t.Kind != KindStruct && t.Kind != KindUnion {
		return Member{}, false
	}
	for _, m := range t.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// IsInteger reports whether t is Integer(Char) or Integer(Int).
func (t *Type) IsInteger() bool { return t.Kind == KindChar || t.Kind == KindInt }

// Equal implements §3's nominal equality: scalars/pointers/arrays compare
// structurally (recursively), but two Struct/Union types are equal only
// when they share a defID — i.e. originate from the same definition
// site, per §9's "Nominal type equality" glossary entry.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindChar, KindInt, KindStatement:
		return true
	case KindPointer:
		return t.Base.Equal(o.Base)
	case KindArray:
		return t.Len == o.Len && t.Base.Equal(o.Base)
	case KindStruct, KindUnion:
		return t.defID == o.defID
	default:
		return false
	}
}

func (t *Type) String() string {
	switch t.Kind {
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindPointer:
		return t.Base.String() + "*"
	case KindArray:
		return fmt.Sprintf("%s[%d]", t.Base.String(), t.Len)
	case KindStruct, KindUnion:
		kw := "struct"
		if t.Kind == KindUnion {
			kw = "union"
		}
		var sb strings.Builder
		sb.WriteString(kw)
		if t.Tag != "" {
			sb.WriteString(" ")
			sb.WriteString(t.Tag)
		}
		sb.WriteString(" {")
		for i, m := range t.Members {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%s %s;", m.Type.String(), m.Name)
		}
		sb.WriteString("}")
		return sb.String()
	default:
		return "Statement"
	}
}
