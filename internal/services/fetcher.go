package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DocumentFetcher retrieves the raw bytes of a stored resume document.
// Read-only; no retry policy lives here, callers decide.
type DocumentFetcher interface {
	Fetch(ctx context.Context, reference string) ([]byte, error)
}

type documentFetcher struct {
	storage StorageService
	client  *http.Client
}

func NewDocumentFetcher(storage StorageService, timeout time.Duration) DocumentFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &documentFetcher{
		storage: storage,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch implements DocumentFetcher. References are either http(s) URLs or
// filenames in the local upload directory.
func (f *documentFetcher) Fetch(ctx context.Context, reference string) ([]byte, error) {
	if strings.HasPrefix(reference, "http://") || strings.HasPrefix(reference, "https://") {
		return f.fetchURL(ctx, reference)
	}

	data, err := os.ReadFile(f.storage.GetFilePath(reference))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	return data, nil
}

func (f *documentFetcher) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d for %s", ErrFetchFailed, resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	return data, nil
}
