package event

import "fmt"

// Event describes one programme on the site. The catalog is static: pages are
// built per event and the backend only needs the metadata that shapes
// registration records and storage paths.
type Event struct {
	Slug           string
	Name           string
	CodePrefix     string
	StorageFolder  string
	Classification string
	Categories     []string
}

var catalog = []Event{
	{
		Slug:           "mathematics-day",
		Name:           "Mathematics Day 2025",
		CodePrefix:     "MD25",
		StorageFolder:  "mathematics-day",
		Classification: "grade",
		Categories:     []string{"6", "7", "8", "9", "10", "11", "12"},
	},
	{
		Slug:           "coding-camp",
		Name:           "Coding Camp",
		CodePrefix:     "CC25",
		StorageFolder:  "coding-camp",
		Classification: "category",
		Categories:     []string{"school", "college"},
	},
	{
		Slug:           "language-program",
		Name:           "Language Program",
		CodePrefix:     "LP25",
		StorageFolder:  "language-program",
		Classification: "degree",
	},
	{
		Slug:           "video-contest",
		Name:           "Video Contest",
		CodePrefix:     "VC25",
		StorageFolder:  "video-contest",
		Classification: "category",
		Categories:     []string{"junior", "senior"},
	},
}

func All() []Event {
	events := make([]Event, len(catalog))
	copy(events, catalog)
	return events
}

func BySlug(slug string) (Event, bool) {
	for _, e := range catalog {
		if e.Slug == slug {
			return e, true
		}
	}
	return Event{}, false
}

// Code builds the human-readable registration identifier from the row's
// sequence number, e.g. MD25-00042. Codes are stable because the sequence
// never changes after insert.
func Code(e Event, seq int64) string {
	return fmt.Sprintf("%s-%05d", e.CodePrefix, seq)
}

// ValidClassification reports whether value is acceptable for the event's
// classification field. Events without a fixed category list accept any
// non-empty value.
func ValidClassification(e Event, value string) bool {
	if value == "" {
		return false
	}
	if len(e.Categories) == 0 {
		return true
	}
	for _, c := range e.Categories {
		if c == value {
			return true
		}
	}
	return false
}
