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
			WithContext("file", "notenav.yaml").
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
		file, exists := err.Context().GetString("file")
		if !exists || file != "notenav.yaml" {
			t.Errorf("expected context file=notenav.yaml, got %v", file)
		}
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		base := NotFoundError("target missing").WithContext("target", "/python/").Build()
		wrapped := fmt.Errorf("verify: %w", base)

		if !IsClassified(wrapped) {
			t.Fatal("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryNotFound) {
			t.Error("expected not_found category")
		}
		if base.CanRetry() {
			t.Error("authoring errors need user action, not retries")
		}
	})

	t.Run("Unclassified defaults", func(t *testing.T) {
		plain := errors.New("boom")
		if GetCategory(plain) != CategoryInternal {
			t.Errorf("expected internal, got %s", GetCategory(plain))
		}
		if GetSeverity(plain) != SeverityError {
			t.Errorf("expected error severity, got %s", GetSeverity(plain))
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("connection refused")
	err := WrapError(originalErr, CategoryNetwork, "probe failed").
		Warning().
		Retryable().
		WithContext("url", "https://github.com/vuejs/vitepress").
		Build()

	if !errors.Is(err, originalErr) {
		t.Error("expected cause to be reachable via errors.Is")
	}
	if !err.CanRetry() {
		t.Error("expected retryable error")
	}
	if err.IsFatal() {
		t.Error("warning must not be fatal")
	}
	if got := err.Error(); got != "[network:warning] probe failed: connection refused" {
		t.Errorf("unexpected Error(): %q", got)
	}
}

func TestBuilderReuseDoesNotShareContext(t *testing.T) {
	b := ValidationError("empty label")
	first := b.WithContext("section", "Python").Build()
	second := b.WithContext("section", "Container").Build()

	s1, _ := first.Context().GetString("section")
	s2, _ := second.Context().GetString("section")
	if s1 != "Python" || s2 != "Container" {
		t.Fatalf("context leaked between builds: %q %q", s1, s2)
	}
}

func TestWithContextCopies(t *testing.T) {
	err := ContentError("bad frontmatter").Build()
	withPath := err.WithContext("path", "docs/python/index.md")

	if _, ok := err.Context().Get("path"); ok {
		t.Error("original error must not be mutated")
	}
	if p, _ := withPath.Context().GetString("path"); p != "docs/python/index.md" {
		t.Errorf("unexpected path %q", p)
	}
	if !errors.Is(withPath, err) {
		t.Error("copies compare equal by category and message")
	}
}
