// # internal/resolver/flatten_test.go
package resolver

import (
	"reflect"
	"testing"
)

func name(n string) *UseTree   { return &UseTree{Kind: UseName, Name: n} }
func glob() *UseTree           { return &UseTree{Kind: UseGlob} }
func group(c ...*UseTree) *UseTree {
	return &UseTree{Kind: UseGroup, Children: c}
}
func rename(n, a string) *UseTree {
	return &UseTree{Kind: UseRename, Name: n, Alias: a}
}

func targetsOf(leaves []ImportLeaf) []ModulePath {
	out := make([]ModulePath, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, l.Module)
	}
	return out
}

func TestFlatten_GroupOrder(t *testing.T) {
	// p::{a, b::{c, d}}
	tree := PathTree([]string{"p"}, group(
		name("a"),
		PathTree([]string{"b"}, group(name("c"), name("d"))),
	))

	leaves := FlattenUseTree(nil, tree)
	want := []ModulePath{"p::a", "p::b::c", "p::b::d"}
	if !reflect.DeepEqual(targetsOf(leaves), want) {
		t.Errorf("expected %v, got %v", want, targetsOf(leaves))
	}
	for i, leaf := range leaves {
		if leaf.Kind != KindDirect {
			t.Errorf("leaf %d: expected Direct, got %v", i, leaf.Kind)
		}
	}
}

func TestFlatten_ItemLikeTrailingSegment(t *testing.T) {
	// std::collections::HashMap: HashMap is capitalized, so the module path
	// collapses to std::collections.
	tree := PathTree([]string{"std", "collections"}, name("HashMap"))
	leaves := FlattenUseTree(nil, tree)
	if len(leaves) != 1 {
		t.Fatalf("expected 1 leaf, got %d", len(leaves))
	}
	if leaves[0].Module != "std::collections" {
		t.Errorf("expected std::collections, got %s", leaves[0].Module)
	}
	if leaves[0].Name != "HashMap" {
		t.Errorf("expected name HashMap, got %s", leaves[0].Name)
	}
}

func TestFlatten_ModuleLikeTrailingSegment(t *testing.T) {
	tree := PathTree([]string{"std"}, name("collections"))
	leaves := FlattenUseTree(nil, tree)
	if leaves[0].Module != "std::collections" {
		t.Errorf("expected std::collections, got %s", leaves[0].Module)
	}
}

func TestFlatten_Aliased(t *testing.T) {
	// p::X as Y: item-like name, module stays at p.
	tree := PathTree([]string{"p"}, rename("X", "Y"))
	leaves := FlattenUseTree(nil, tree)
	if len(leaves) != 1 {
		t.Fatalf("expected 1 leaf, got %d", len(leaves))
	}
	leaf := leaves[0]
	if leaf.Kind != KindAliased || leaf.Module != "p" || leaf.Name != "X" || leaf.Alias != "Y" {
		t.Errorf("unexpected leaf: %+v", leaf)
	}

	// p::x as y: module-like name, module extends to p::x.
	tree = PathTree([]string{"p"}, rename("x", "y"))
	leaves = FlattenUseTree(nil, tree)
	if leaves[0].Module != "p::x" {
		t.Errorf("expected p::x, got %s", leaves[0].Module)
	}
}

func TestFlatten_Wildcard(t *testing.T) {
	// p::q::*: wildcard never trims the trailing segment.
	tree := PathTree([]string{"p", "q"}, glob())
	leaves := FlattenUseTree(nil, tree)
	if len(leaves) != 1 {
		t.Fatalf("expected 1 leaf, got %d", len(leaves))
	}
	if leaves[0].Kind != KindWildcard || leaves[0].Module != "p::q" {
		t.Errorf("unexpected leaf: %+v", leaves[0])
	}
}

func TestFlatten_CurrentModuleMarker(t *testing.T) {
	// self::helpers at ancestors [a, b] resolves under crate::a::b.
	tree := PathTree([]string{"self"}, name("helpers"))
	leaves := FlattenUseTree([]string{"a", "b"}, tree)
	if leaves[0].Module != "crate::a::b::helpers" {
		t.Errorf("expected crate::a::b::helpers, got %s", leaves[0].Module)
	}
}

func TestFlatten_ParentModuleMarker(t *testing.T) {
	tree := PathTree([]string{"super"}, name("shared"))
	leaves := FlattenUseTree([]string{"a", "b"}, tree)
	if leaves[0].Module != "crate::a::shared" {
		t.Errorf("expected crate::a::shared, got %s", leaves[0].Module)
	}
}

func TestFlatten_ChainedParentMarkers(t *testing.T) {
	tree := PathTree([]string{"super", "super"}, name("top"))
	leaves := FlattenUseTree([]string{"a", "b"}, tree)
	if leaves[0].Module != "crate::top" {
		t.Errorf("expected crate::top, got %s", leaves[0].Module)
	}
}

func TestFlatten_ParentMarkerClampsAtRoot(t *testing.T) {
	tree := PathTree([]string{"super"}, name("other"))
	leaves := FlattenUseTree(nil, tree)
	if leaves[0].Module != "crate::other" {
		t.Errorf("expected crate::other, got %s", leaves[0].Module)
	}
}

func TestFlatten_CrateRootMarker(t *testing.T) {
	// crate:: resets the prefix even deep inside a nested module.
	tree := PathTree([]string{"crate"}, name("module_a"))
	leaves := FlattenUseTree([]string{"x", "y"}, tree)
	if leaves[0].Module != "crate::module_a" {
		t.Errorf("expected crate::module_a, got %s", leaves[0].Module)
	}
}

func TestFlatten_GroupWithSelfLeaf(t *testing.T) {
	// foo::{self, bar}: the self leaf imports foo itself.
	tree := PathTree([]string{"foo"}, group(name("self"), name("bar")))
	leaves := FlattenUseTree(nil, tree)
	want := []ModulePath{"foo", "foo::bar"}
	if !reflect.DeepEqual(targetsOf(leaves), want) {
		t.Errorf("expected %v, got %v", want, targetsOf(leaves))
	}
}

func TestFlatten_SiblingBranchesDoNotLeak(t *testing.T) {
	// a::{b::C, D}: the second entry must not see b's segment.
	tree := PathTree([]string{"a"}, group(
		PathTree([]string{"b"}, name("C")),
		name("D"),
	))
	leaves := FlattenUseTree(nil, tree)
	want := []ModulePath{"a::b", "a"}
	if !reflect.DeepEqual(targetsOf(leaves), want) {
		t.Errorf("expected %v, got %v", want, targetsOf(leaves))
	}
}

func TestIsItemSegment(t *testing.T) {
	cases := map[string]bool{
		"self":    true,
		"HashMap": true,
		"Vec":     true,
		"module":  false,
		"super":   false,
		"crate":   false,
		"":        false,
	}
	for segment, want := range cases {
		if got := IsItemSegment(segment); got != want {
			t.Errorf("IsItemSegment(%q) = %v, want %v", segment, got, want)
		}
	}
}
