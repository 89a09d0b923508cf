package tap

import (
	"strings"
	"testing"
)

func TestGetSuggestionShape(t *testing.T) {
	top := getSuggestion(0)
	if len(top) != 9 || top[4] != '-' {
		t.Fatalf("depth 0 suggestion should be xxxx-xxxx, got %q", top)
	}

	nested := getSuggestion(1)
	if len(nested) != 4 {
		t.Fatalf("depth>0 suggestion should be 4 chars, got %q", nested)
	}
}

func TestShortnameSuggestionPreferredUsername(t *testing.T) {
	e := NewEntity("https://example.com/a")
	e.Append(PredPreferredName, ValuePointer{Value: Value{Raw: "Alice Smith!"}})

	name, ok := shortnameSuggestion(e)
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if !strings.HasPrefix(name, "~") {
		t.Fatalf("expected ~ prefix, got %q", name)
	}
}

func TestShortnameSuggestionFromType(t *testing.T) {
	e := NewEntity("https://example.com/a")
	e.Types = []string{TypeCreate}

	name, ok := shortnameSuggestion(e)
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if name != "create" {
		t.Fatalf("expected local type name, got %q", name)
	}
}

func TestShortnameSuggestionNoneForActivity(t *testing.T) {
	e := NewEntity("https://example.com/a")
	e.Types = []string{TypeCreate}
	e.Append(PredActor, IDPointer{ID: "https://example.com/actor"})

	if _, ok := shortnameSuggestion(e); ok {
		t.Fatal("entities carrying as:actor should not get a type-derived suggestion")
	}
}

func TestTranslateNameSanitises(t *testing.T) {
	got := translateName(PredPreferredName, "Alice_Smith! 日本語")
	if !strings.HasPrefix(got, "~") {
		t.Fatalf("expected ~ prefix, got %q", got)
	}
	if len([]rune(got)) > 16 {
		t.Fatalf("expected at most 15 sanitised chars plus prefix, got %q (%d)", got, len([]rune(got)))
	}
}
