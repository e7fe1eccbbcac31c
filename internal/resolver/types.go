// # internal/resolver/types.go
package resolver

import (
	"strings"

	"extricrate/internal/syntax"
)

const PathSeparator = "::"

// rootSegment is the name of the crate root module. Every local module path
// starts with it; external paths (std, third-party crates) do not.
const rootSegment = "crate"

// ModulePath is an opaque ::-joined position in the module tree, e.g.
// "crate::storage::disk". Comparable and hashable by construction.
type ModulePath string

var RootModule = ModulePath(rootSegment)

func JoinPath(segments ...string) ModulePath {
	return ModulePath(strings.Join(segments, PathSeparator))
}

func (p ModulePath) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), PathSeparator)
}

func (p ModulePath) Child(segment string) ModulePath {
	if p == "" {
		return ModulePath(segment)
	}
	return ModulePath(string(p) + PathSeparator + segment)
}

// IsLocal reports whether the path lives inside the analyzed crate.
func (p ModulePath) IsLocal() bool {
	return p == RootModule || strings.HasPrefix(string(p), rootSegment+PathSeparator)
}

// HasPrefix reports whether prefix is an ancestor of (or equal to) p,
// segment-wise. "crate::log" is not a prefix of "crate::logger".
func (p ModulePath) HasPrefix(prefix ModulePath) bool {
	if p == prefix {
		return true
	}
	return strings.HasPrefix(string(p), string(prefix)+PathSeparator)
}

// SourceFile is a source path relative to the crate root, slash-separated.
type SourceFile string

type ImportKind int

const (
	KindDirect ImportKind = iota
	KindAliased
	KindWildcard
)

func (k ImportKind) String() string {
	switch k {
	case KindAliased:
		return "aliased"
	case KindWildcard:
		return "wildcard"
	default:
		return "direct"
	}
}

// ImportLeaf is one fully-flattened, single-target import. Module is always
// absolute: no self/super/crate markers survive flattening.
type ImportLeaf struct {
	Module ModulePath
	Kind   ImportKind
	Name   string // bare imported name; empty for wildcards
	Alias  string // set only for KindAliased
}

// ImportDeclaration is one syntactic use statement. A single declaration may
// desugar into many leaves via grouping.
type ImportDeclaration struct {
	Leaves []ImportLeaf
	Span   syntax.Span
}

// ModuleImportRecord ties a declaration to the module it appears in, which is
// not necessarily the file's top module: inline sub-modules nest inside one
// file.
type ModuleImportRecord struct {
	Module      ModulePath
	Declaration ImportDeclaration
}

// Targets returns the distinct imported module paths in declaration order.
func (r ModuleImportRecord) Targets() []ModulePath {
	seen := make(map[ModulePath]bool, len(r.Declaration.Leaves))
	out := make([]ModulePath, 0, len(r.Declaration.Leaves))
	for _, leaf := range r.Declaration.Leaves {
		if seen[leaf.Module] {
			continue
		}
		seen[leaf.Module] = true
		out = append(out, leaf.Module)
	}
	return out
}

// ImportIndex maps each visited file to its import records, in source order.
// Built once per walk and read-only afterwards.
type ImportIndex map[SourceFile][]ModuleImportRecord
