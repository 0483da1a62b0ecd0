package event

import "testing"

func TestBySlug(t *testing.T) {
	e, ok := BySlug("mathematics-day")
	if !ok {
		t.Fatalf("expected mathematics-day to exist")
	}
	if e.CodePrefix != "MD25" {
		t.Fatalf("unexpected prefix %s", e.CodePrefix)
	}
	if _, ok := BySlug("chess-open"); ok {
		t.Fatalf("expected unknown slug to miss")
	}
}

func TestCode(t *testing.T) {
	e, _ := BySlug("mathematics-day")
	if got := Code(e, 42); got != "MD25-00042" {
		t.Fatalf("expected MD25-00042, got %s", got)
	}
	if got := Code(e, 123456); got != "MD25-123456" {
		t.Fatalf("expected MD25-123456, got %s", got)
	}
}

func TestValidClassification(t *testing.T) {
	md, _ := BySlug("mathematics-day")
	if !ValidClassification(md, "10") {
		t.Fatalf("expected grade 10 to be valid")
	}
	if ValidClassification(md, "13") {
		t.Fatalf("expected grade 13 to be invalid")
	}
	if ValidClassification(md, "") {
		t.Fatalf("expected empty value to be invalid")
	}

	lp, _ := BySlug("language-program")
	if !ValidClassification(lp, "B.Sc Mathematics") {
		t.Fatalf("expected free-text degree to be valid")
	}
}
