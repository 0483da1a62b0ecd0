package objstore

import (
	"testing"
	"time"
)

func TestObjectPath(t *testing.T) {
	at := time.Date(2025, 11, 2, 10, 30, 0, 0, time.UTC)
	got := ObjectPath("coding-camp", "CC25-00007", "Asha.K+test@x.com", at, "pdf")
	want := "coding-camp/CC25-00007_ashaktest_1762079400.pdf"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestSanitizeEmailPrefix(t *testing.T) {
	cases := map[string]string{
		"asha@x.com":       "asha",
		"A.Sha+9@x.com":    "asha9",
		"@x.com":           "user",
		"_-!@x.com":        "user",
		"no-at-sign":       "noatsign",
		"MIXED.Case@y.org": "mixedcase",
	}
	for input, want := range cases {
		if got := sanitizeEmailPrefix(input); got != want {
			t.Fatalf("sanitize(%q): expected %s, got %s", input, want, got)
		}
	}
}

func TestPublicURL(t *testing.T) {
	c := &Client{bucket: "uploads", publicURL: "https://cdn.example.com/uploads"}
	if got := c.PublicURL("coding-camp/a.pdf"); got != "https://cdn.example.com/uploads/coding-camp/a.pdf" {
		t.Fatalf("unexpected public url %s", got)
	}
}
