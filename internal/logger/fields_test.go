package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  Gemini  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "provider" || fields[0].String != "Gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}
}

func TestWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithCommonFields(zap.New(core), "gemini", "text-embedding-004").Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" {
		t.Fatalf("expected provider field to be gemini, got %q", ctx[FieldProvider])
	}
	if ctx[FieldModel] != "text-embedding-004" {
		t.Fatalf("expected model field, got %q", ctx[FieldModel])
	}

	// Ensure logging with the fallback logger does not panic.
	WithCommonFields(nil, "gemini", "m").Info("another log")
}

func TestRequestFieldsSkipEmpty(t *testing.T) {
	fields := RequestFields("user-1", "")
	if len(fields) != 1 || fields[0].Key != FieldOwner {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestComponent(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	Component(zap.New(core), "matching").Info("ranked")

	if got := observed.All()[0].LoggerName; got != "matching" {
		t.Fatalf("expected logger name matching, got %q", got)
	}

	Component(nil, "noop").Info("does not panic")
}
