package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", ".secnum.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context()["file"]
		if !exists || file != ".secnum.yaml" {
			t.Errorf("expected context file=.secnum.yaml, got %v", file)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		if _, ok := AsClassified(err); !ok {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Processing errors are warnings", func(t *testing.T) {
		err := ProcessingError("chapter skipped").Build()
		if err.IsFatal() {
			t.Error("expected processing error not to be fatal")
		}
		if err.Severity() != SeverityWarning {
			t.Errorf("expected warning severity, got %s", err.Severity())
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Wrapping", func(t *testing.T) {
		originalErr := errors.New("unexpected EOF")
		err := WrapError(originalErr, CategoryProtocol, "cannot decode book").
			WithContext("renderer", "html").
			WithContext("bytes", 12).
			Build()

		if err.Category() != CategoryProtocol {
			t.Errorf("expected category %s, got %s", CategoryProtocol, err.Category())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}
		renderer, _ := err.Context()["renderer"].(string)
		if renderer != "html" {
			t.Errorf("expected renderer context 'html', got %s", renderer)
		}
		if err.Error() != "[protocol:error] cannot decode book: unexpected EOF" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Context merge", func(t *testing.T) {
		merged := ErrorContext{"a": 1}.Merge(ErrorContext{"a": 2, "b": 3})

		if merged["a"] != 2 {
			t.Errorf("expected merged value 2, got %v", merged["a"])
		}
		if _, ok := merged["b"]; !ok {
			t.Error("expected key b after merge")
		}
	})
}

func TestAsClassified_FindsWrapped(t *testing.T) {
	inner := ValidationError("bad max depth").Build()
	outer := fmt.Errorf("loading config: %w", inner)

	got, ok := AsClassified(outer)
	if !ok {
		t.Fatal("expected classified error in chain")
	}
	if got != inner {
		t.Error("expected the wrapped error to be returned")
	}
	if GetCategory(outer) != CategoryValidation {
		t.Errorf("expected validation category, got %s", GetCategory(outer))
	}
	if GetCategory(errors.New("plain")) != CategoryInternal {
		t.Error("expected plain errors to map to internal")
	}
}

func TestClassifiedError_WithContextDoesNotMutate(t *testing.T) {
	base := NewError(CategoryProcessing, "failed").WithContext("chapter", "Intro").Build()
	derived := base.WithContext("path", "intro.md")

	if _, ok := base.Context()["path"]; ok {
		t.Error("expected base context to stay unchanged")
	}
	if p, _ := derived.Context()["path"].(string); p != "intro.md" {
		t.Errorf("expected derived path context, got %q", p)
	}
}
