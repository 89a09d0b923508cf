package tap

import "testing"

func TestParseQueryIDWildcard(t *testing.T) {
	q, err := ParseQueryID("_")
	if err != nil {
		t.Fatalf("ParseQueryID: %v", err)
	}
	if q.Kind != QueryIDIgnore {
		t.Fatalf("expected ignore kind, got %v", q.Kind)
	}
}

func TestParseQueryIDPrefix(t *testing.T) {
	q, err := ParseQueryID("as:Create")
	if err != nil {
		t.Fatalf("ParseQueryID: %v", err)
	}
	if q.Kind != QueryIDValue || q.Value != TypeCreate {
		t.Fatalf("expected expanded as:Create, got %+v", q)
	}
}

func TestParseQueryIDPlaceholder(t *testing.T) {
	q, err := ParseQueryID("?3")
	if err != nil {
		t.Fatalf("ParseQueryID: %v", err)
	}
	if q.Kind != QueryIDPlaceholder || q.Placeholder != 3 {
		t.Fatalf("expected placeholder 3, got %+v", q)
	}
}

func TestParseQueryIDAbsoluteIRIUntouched(t *testing.T) {
	q, err := ParseQueryID("https://example.com/note")
	if err != nil {
		t.Fatalf("ParseQueryID: %v", err)
	}
	if q.Kind != QueryIDValue || q.Value != "https://example.com/note" {
		t.Fatalf("expected literal IRI passthrough, got %+v", q)
	}
}

func TestParseQueryObjectLiteralWithDatatype(t *testing.T) {
	obj, err := ParseQueryObject(`"5"^^xsd:integer`)
	if err != nil {
		t.Fatalf("ParseQueryObject: %v", err)
	}
	if obj.Kind != QueryObjectLiteral || obj.Value != "5" || obj.TypeID.Value != nsXSD+"integer" {
		t.Fatalf("unexpected parse: %+v", obj)
	}
}

func TestParseQueryObjectLanguageString(t *testing.T) {
	obj, err := ParseQueryObject(`"hello"@en`)
	if err != nil {
		t.Fatalf("ParseQueryObject: %v", err)
	}
	if obj.Kind != QueryObjectLanguageString || obj.Value != "hello" || obj.Language != "en" {
		t.Fatalf("unexpected parse: %+v", obj)
	}
}

func TestParseQuadQueryFull(t *testing.T) {
	q, err := ParseQuadQuery("?0 as:actor ?1")
	if err != nil {
		t.Fatalf("ParseQuadQuery: %v", err)
	}
	if q.Subject.Kind != QueryIDPlaceholder || q.Subject.Placeholder != 0 {
		t.Fatalf("unexpected subject: %+v", q.Subject)
	}
	if q.Predicate.Value != PredActor {
		t.Fatalf("unexpected predicate: %+v", q.Predicate)
	}
	if q.Object.Kind != QueryObjectID || q.Object.ID.Placeholder != 1 {
		t.Fatalf("unexpected object: %+v", q.Object)
	}
}

func TestParseQuadQueryMalformed(t *testing.T) {
	if _, err := ParseQuadQuery("onlyonetoken"); err == nil {
		t.Fatal("expected error for malformed query")
	}
}
