// # internal/resolver/flatten.go
package resolver

import "unicode"

// Reserved path segments of the use grammar.
const (
	currentModuleMarker = "self"
	parentModuleMarker  = "super"
	crateRootMarker     = "crate"
)

type UseTreeKind int

const (
	UsePath UseTreeKind = iota
	UseName
	UseRename
	UseGlob
	UseGroup
)

// UseTree is the syntactic shape of one use clause, mirroring the nesting of
// the source: path segments wrap a leaf name, rename, glob or group.
type UseTree struct {
	Kind     UseTreeKind
	Segment  string     // UsePath
	Name     string     // UseName, UseRename
	Alias    string     // UseRename
	Child    *UseTree   // UsePath
	Children []*UseTree // UseGroup
}

// PathTree folds a segment list around a leaf, right to left.
func PathTree(segments []string, leaf *UseTree) *UseTree {
	tree := leaf
	for i := len(segments) - 1; i >= 0; i-- {
		tree = &UseTree{Kind: UsePath, Segment: segments[i], Child: tree}
	}
	return tree
}

// IsItemSegment is the module-vs-item disambiguation heuristic: the grammar
// does not distinguish "import a sub-module" from "import an item defined in
// a module", so a trailing segment named exactly "self", or starting with an
// upper-case rune, is treated as an item and dropped from the module path.
// A lower-case item name is misclassified as a module; that ambiguity is
// inherent to the convention, not fixable here.
func IsItemSegment(segment string) bool {
	if segment == currentModuleMarker {
		return true
	}
	for _, r := range segment {
		return unicode.IsUpper(r)
	}
	return false
}

// FlattenUseTree resolves one use clause into its leaf imports. ancestors is
// the chain of module-name segments (crate root excluded) of the module the
// declaration appears in; it anchors the self/super markers. Leaves come out
// in source order, left to right, depth first, with every module path
// absolute.
func FlattenUseTree(ancestors []string, tree *UseTree) []ImportLeaf {
	return flattenNode(ancestors, nil, tree)
}

// flattenNode threads an immutable prefix through the recursion: each branch
// gets its own copy, so sibling group entries cannot leak segments into each
// other.
func flattenNode(ancestors, prefix []string, tree *UseTree) []ImportLeaf {
	if tree == nil {
		return nil
	}

	switch tree.Kind {
	case UsePath:
		switch tree.Segment {
		case currentModuleMarker:
			next := make([]string, 0, len(ancestors)+1)
			next = append(next, rootSegment)
			next = append(next, ancestors...)
			return flattenNode(ancestors, next, tree.Child)
		case parentModuleMarker:
			// First super anchors at the parent of the current module;
			// chained supers keep climbing, clamped at the crate root.
			var next []string
			if len(prefix) > 0 && prefix[0] == rootSegment {
				next = append(next, prefix...)
			} else {
				next = append(next, rootSegment)
				next = append(next, ancestors...)
			}
			if len(next) > 1 {
				next = next[:len(next)-1]
			}
			return flattenNode(ancestors, next, tree.Child)
		case crateRootMarker:
			return flattenNode(ancestors, []string{rootSegment}, tree.Child)
		default:
			next := make([]string, 0, len(prefix)+1)
			next = append(next, prefix...)
			next = append(next, tree.Segment)
			return flattenNode(ancestors, next, tree.Child)
		}

	case UseName:
		return []ImportLeaf{{
			Module: leafModule(prefix, tree.Name),
			Kind:   KindDirect,
			Name:   tree.Name,
		}}

	case UseRename:
		return []ImportLeaf{{
			Module: leafModule(prefix, tree.Name),
			Kind:   KindAliased,
			Name:   tree.Name,
			Alias:  tree.Alias,
		}}

	case UseGlob:
		// Wildcards always target the full prefix; no trailing trim.
		return []ImportLeaf{{
			Module: JoinPath(prefix...),
			Kind:   KindWildcard,
		}}

	case UseGroup:
		var out []ImportLeaf
		for _, child := range tree.Children {
			out = append(out, flattenNode(ancestors, prefix, child)...)
		}
		return out
	}

	return nil
}

func leafModule(prefix []string, name string) ModulePath {
	if IsItemSegment(name) {
		return JoinPath(prefix...)
	}
	full := make([]string, 0, len(prefix)+1)
	full = append(full, prefix...)
	full = append(full, name)
	return JoinPath(full...)
}
