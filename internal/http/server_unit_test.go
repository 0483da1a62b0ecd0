package http

import (
	"testing"
	"time"

	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/model"
)

func TestValidVideoURL(t *testing.T) {
	valid := []string{
		"https://drive.google.com/file/d/abc/view",
		"https://DRIVE.GOOGLE.COM/open?id=1",
	}
	for _, url := range valid {
		if !validVideoURL(url) {
			t.Fatalf("expected %s to be valid", url)
		}
	}
	invalid := []string{
		"https://dropbox.com/s/abc",
		"https://youtube.com/watch?v=abc",
		"",
	}
	for _, url := range invalid {
		if validVideoURL(url) {
			t.Fatalf("expected %s to be invalid", url)
		}
	}
}

func TestValidSocialURL(t *testing.T) {
	if !validSocialURL("https://www.instagram.com/p/abc/") {
		t.Fatalf("expected instagram post to be valid")
	}
	if validSocialURL("https://facebook.com/p/abc") {
		t.Fatalf("expected facebook link to be invalid")
	}
}

func TestRegistrationCodeFor(t *testing.T) {
	reg := model.Registration{Event: "video-contest", Seq: 7}
	if got := registrationCodeFor(reg); got != "VC25-00007" {
		t.Fatalf("expected VC25-00007, got %s", got)
	}
	reg = model.Registration{Event: "retired-event", Seq: 7}
	if got := registrationCodeFor(reg); got != "REG-00007" {
		t.Fatalf("expected fallback code, got %s", got)
	}
}

func TestFilterRegistrations(t *testing.T) {
	regs := []model.Registration{
		{Event: "mathematics-day", Seq: 1, FullName: "Asha Kumar", Email: "asha@x.com", Phone: "9876543210", Institution: "St Mary School", City: "Chennai"},
		{Event: "mathematics-day", Seq: 2, FullName: "Ravi Menon", Email: "ravi@y.org", Phone: "9123456780", Institution: "Govt College", City: "Madurai"},
	}

	if got := filterRegistrations(regs, ""); len(got) != 2 {
		t.Fatalf("expected empty query to keep all rows, got %d", len(got))
	}
	got := filterRegistrations(regs, "ASHA")
	if len(got) != 1 || got[0].FullName != "Asha Kumar" {
		t.Fatalf("expected case-insensitive name match, got %v", got)
	}
	got = filterRegistrations(regs, "madurai")
	if len(got) != 1 || got[0].FullName != "Ravi Menon" {
		t.Fatalf("expected city match, got %v", got)
	}
	got = filterRegistrations(regs, "MD25-00002")
	if len(got) != 1 || got[0].Seq != 2 {
		t.Fatalf("expected registration code match, got %v", got)
	}
	if got := filterRegistrations(regs, "zzz"); len(got) != 0 {
		t.Fatalf("expected no match, got %v", got)
	}
}

func TestSubmissionIndex(t *testing.T) {
	subs := []model.ContestSubmission{
		{Email: "Asha@X.com"},
		{Email: "ravi@y.org"},
	}
	index := submissionIndex(subs)
	if !index["asha@x.com"] {
		t.Fatalf("expected lowercased email in index")
	}
	if index["someone@z.net"] {
		t.Fatalf("unexpected email in index")
	}
}

func TestBearerToken(t *testing.T) {
	if got := bearerToken("Bearer abc"); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	if got := bearerToken("bearer abc"); got != "abc" {
		t.Fatalf("expected lowercase scheme to work, got %q", got)
	}
	for _, header := range []string{"", "abc", "Basic abc"} {
		if got := bearerToken(header); got != "" {
			t.Fatalf("expected %q to yield empty token, got %q", header, got)
		}
	}
}

func TestBuildRegistrationWorkbook(t *testing.T) {
	regs := []model.Registration{
		{Event: "mathematics-day", Seq: 1, FullName: "Asha Kumar", Email: "asha@x.com", CreatedAt: time.Unix(1762079400, 0)},
	}
	workbook, err := buildRegistrationWorkbook(regs, map[string]bool{"asha@x.com": true})
	if err != nil {
		t.Fatalf("workbook error: %v", err)
	}
	if got, _ := workbook.GetCellValue("Registrations", "A1"); got != "Code" {
		t.Fatalf("expected header Code, got %q", got)
	}
	if got, _ := workbook.GetCellValue("Registrations", "A2"); got != "MD25-00001" {
		t.Fatalf("expected registration code in first row, got %q", got)
	}
	if got, _ := workbook.GetCellValue("Registrations", "C2"); got != "Asha Kumar" {
		t.Fatalf("expected full name in first row, got %q", got)
	}
}
