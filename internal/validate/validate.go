package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxFileSize is the upload ceiling in bytes.
const MaxFileSize = 10 << 20

const phoneDigits = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var allowedFileTypes = map[string]string{
	"application/pdf": "pdf",
	"application/zip": "zip",
	"image/png":       "png",
	"image/jpeg":      "jpg",
	"video/mp4":       "mp4",
}

// Required checks the named fields in order and reports the first missing
// one. Checks after the first failure are skipped.
func Required(fields map[string]string, names ...string) error {
	for _, name := range names {
		if strings.TrimSpace(fields[name]) == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	return nil
}

func Email(value string) error {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

// Phone strips every non-digit character and requires exactly ten digits.
func Phone(value string) error {
	if len(Digits(value)) != phoneDigits {
		return fmt.Errorf("enter a valid 10-digit phone number")
	}
	return nil
}

func Digits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FileType maps an allowed MIME type to its canonical extension.
func FileType(contentType string) (string, error) {
	if mediaType, _, found := strings.Cut(contentType, ";"); found {
		contentType = mediaType
	}
	ext, ok := allowedFileTypes[strings.TrimSpace(strings.ToLower(contentType))]
	if !ok {
		return "", fmt.Errorf("file type %s is not allowed", contentType)
	}
	return ext, nil
}

func FileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("file is empty")
	}
	if size > MaxFileSize {
		return fmt.Errorf("file exceeds the 10 MB limit")
	}
	return nil
}
