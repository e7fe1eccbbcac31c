// # internal/resolver/manifest_test.go
package resolver

import (
	"testing"

	"extricrate/internal/errors"
)

func TestReadManifest(t *testing.T) {
	tree := NewMemTree().Add("Cargo.toml", "[package]\nname = \"extricrate-fixture\"\nversion = \"0.2.0\"\nedition = \"2021\"\n")

	m, err := ReadManifest(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Package.Name != "extricrate-fixture" {
		t.Errorf("expected extricrate-fixture, got %s", m.Package.Name)
	}
	if m.Package.Edition != "2021" {
		t.Errorf("expected edition 2021, got %s", m.Package.Edition)
	}
}

func TestReadManifest_Missing(t *testing.T) {
	_, err := ReadManifest(NewMemTree())
	if !errors.IsCode(err, errors.CodeNotACrate) {
		t.Errorf("expected NOT_A_CRATE, got %v", err)
	}
}

func TestReadManifest_Malformed(t *testing.T) {
	tree := NewMemTree().Add("Cargo.toml", "[package\nname =\n")
	_, err := ReadManifest(tree)
	if !errors.IsCode(err, errors.CodeNotACrate) {
		t.Errorf("expected NOT_A_CRATE, got %v", err)
	}
}
