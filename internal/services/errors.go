package services

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Format and transport failures propagate up to the
// single operation that requested them; shape failures never become errors,
// they degrade to the raw variant of the normalizer results.
var (
	// ErrNoResumeUploaded means the profile has no resume document reference.
	ErrNoResumeUploaded = errors.New("no resume uploaded")

	// ErrFetchFailed wraps transport/storage errors while retrieving document bytes.
	ErrFetchFailed = errors.New("failed to fetch document")

	// ErrGenerationFailed wraps transport/auth errors from the generation service.
	ErrGenerationFailed = errors.New("generation failed")
)

// UnsupportedFormatError is returned for a document reference whose suffix is
// neither .pdf nor .docx. Extraction is never attempted for such references.
type UnsupportedFormatError struct {
	Reference string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format: %s", e.Reference)
}
