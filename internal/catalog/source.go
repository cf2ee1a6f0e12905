package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hyperjump/busca/internal/models"
)

// Source fetches the raw item list from somewhere.
type Source interface {
	Fetch(ctx context.Context) ([]models.CatalogItem, error)
	String() string
}

// maxDocumentBytes bounds how much of a remote catalog document is read.
const maxDocumentBytes = 32 << 20

// ErrTooLarge is returned when a remote catalog document exceeds the read limit.
var ErrTooLarge = errors.New("catalog document too large")

// FileSource reads a JSON catalog document from disk.
type FileSource struct {
	Path string
}

// Fetch reads and parses the file.
func (s *FileSource) Fetch(ctx context.Context) ([]models.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	items, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.Path, err)
	}
	return items, nil
}

func (s *FileSource) String() string {
	return "file:" + s.Path
}

// HTTPSource fetches a JSON catalog document over HTTP. Responses are never
// served from a cache.
type HTTPSource struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
	// MaxBytes caps the document size; zero means 32 MiB.
	MaxBytes int64
}

// Fetch requests the document and parses it. Non-2xx responses are errors.
func (s *HTTPSource) Fetch(ctx context.Context) ([]models.CatalogItem, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch error %d from %s", resp.StatusCode, s.URL)
	}
	limit := s.MaxBytes
	if limit <= 0 {
		limit = maxDocumentBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, s.URL, limit)
	}
	items, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.URL, err)
	}
	return items, nil
}

func (s *HTTPSource) String() string {
	return s.URL
}

// FallbackSource tries each source in order and returns the first success.
type FallbackSource []Source

// Fetch returns the items of the first source that succeeds, or all errors joined.
func (fs FallbackSource) Fetch(ctx context.Context) ([]models.CatalogItem, error) {
	if len(fs) == 0 {
		return nil, errors.New("no catalog sources configured")
	}
	var errs []error
	for _, s := range fs {
		items, err := s.Fetch(ctx)
		if err == nil {
			return items, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.Join(errs...)
}

func (fs FallbackSource) String() string {
	names := make([]string, len(fs))
	for i, s := range fs {
		names[i] = s.String()
	}
	return strings.Join(names, ",")
}

// FromLocation picks a source for a configured location: http(s) URLs are
// fetched over the network, anything else is a file path.
func FromLocation(location string, timeout time.Duration) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{URL: location, Timeout: timeout}
	}
	return &FileSource{Path: location}
}
