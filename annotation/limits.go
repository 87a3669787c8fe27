package annotation

import (
	"errors"
	"fmt"
)

const (
	// MaxAnnotations caps the number of annotations accepted from one file.
	MaxAnnotations = 4096

	// MaxLabelLength is the maximum label length in bytes.
	MaxLabelLength = 255

	// MaxFileSize is the largest annotation file Load will read (1MB).
	MaxFileSize = 1024 * 1024
)

var (
	// ErrTooManyAnnotations indicates a file exceeding MaxAnnotations.
	ErrTooManyAnnotations = errors.New("too many annotations")

	// ErrLabelTooLong indicates a label exceeding MaxLabelLength.
	ErrLabelTooLong = errors.New("annotation label too long")

	// ErrFileTooLarge indicates an annotation file exceeding MaxFileSize.
	ErrFileTooLarge = errors.New("annotation file too large")
)

// ValidateLabel checks a label against MaxLabelLength.
func ValidateLabel(label string) error {
	if len(label) > MaxLabelLength {
		return fmt.Errorf("%w: length %d exceeds limit %d", ErrLabelTooLong, len(label), MaxLabelLength)
	}
	return nil
}

// ValidateCount checks an annotation count against MaxAnnotations.
func ValidateCount(n int) error {
	if n > MaxAnnotations {
		return fmt.Errorf("%w: count %d exceeds limit %d", ErrTooManyAnnotations, n, MaxAnnotations)
	}
	return nil
}
