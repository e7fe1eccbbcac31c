// # internal/resolver/types_test.go
package resolver

import (
	"reflect"
	"testing"
)

func TestModulePath(t *testing.T) {
	t.Run("JoinAndSegments", func(t *testing.T) {
		p := JoinPath("crate", "a", "b")
		if p != "crate::a::b" {
			t.Errorf("expected crate::a::b, got %s", p)
		}
		if !reflect.DeepEqual(p.Segments(), []string{"crate", "a", "b"}) {
			t.Errorf("unexpected segments: %v", p.Segments())
		}
	})

	t.Run("Child", func(t *testing.T) {
		if RootModule.Child("log") != "crate::log" {
			t.Errorf("expected crate::log, got %s", RootModule.Child("log"))
		}
	})

	t.Run("IsLocal", func(t *testing.T) {
		if !ModulePath("crate::storage").IsLocal() {
			t.Error("crate::storage should be local")
		}
		if !RootModule.IsLocal() {
			t.Error("crate root should be local")
		}
		if ModulePath("std::collections").IsLocal() {
			t.Error("std::collections should not be local")
		}
		if ModulePath("crateish::x").IsLocal() {
			t.Error("crateish::x should not be local")
		}
	})

	t.Run("HasPrefix", func(t *testing.T) {
		p := ModulePath("crate::log::format")
		if !p.HasPrefix("crate::log") {
			t.Error("expected crate::log to be a prefix")
		}
		if !p.HasPrefix(p) {
			t.Error("expected path to be its own prefix")
		}
		if ModulePath("crate::logger").HasPrefix("crate::log") {
			t.Error("crate::log must not prefix crate::logger")
		}
	})
}

func TestModuleImportRecord_Targets(t *testing.T) {
	record := ModuleImportRecord{
		Module: "crate",
		Declaration: ImportDeclaration{
			Leaves: []ImportLeaf{
				{Module: "crate::a", Kind: KindDirect, Name: "a"},
				{Module: "crate::b", Kind: KindDirect, Name: "B"},
				{Module: "crate::a", Kind: KindDirect, Name: "other"},
			},
		},
	}

	want := []ModulePath{"crate::a", "crate::b"}
	if !reflect.DeepEqual(record.Targets(), want) {
		t.Errorf("expected %v, got %v", want, record.Targets())
	}
}
