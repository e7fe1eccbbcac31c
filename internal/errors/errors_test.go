package errors

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotACrate, "no Cargo.toml at root")
		if err.Error() != "[NOT_A_CRATE] no Cargo.toml at root" {
			t.Errorf("expected [NOT_A_CRATE] no Cargo.toml at root, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("permission denied")
		err := Wrap(original, CodeReadFailed, "read source file")
		expected := "[READ_FAILED] read source file: permission denied"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeNoEntryFile, "neither src/main.rs nor src/lib.rs exists")
		if !IsCode(err, CodeNoEntryFile) {
			t.Error("expected IsCode to return true for CodeNoEntryFile")
		}
		if IsCode(err, CodeParseFailed) {
			t.Error("expected IsCode to return false for CodeParseFailed")
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		original := errors.New("syntax error")
		err := Wrap(original, CodeParseFailed, "parse src/lib.rs")
		if !IsCode(err, CodeParseFailed) {
			t.Error("expected IsCode to return true for wrapped CodeParseFailed")
		}
	})

	t.Run("Context", func(t *testing.T) {
		err := New(CodeModuleFileMissing, "declared module has no file")
		_ = AddContext(err, CtxModule, "settings")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatal("expected DomainError")
		}
		if de.Context[CtxModule] != "settings" {
			t.Errorf("expected module context, got %v", de.Context)
		}
	})
}
