package docsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tournament-data/internal/domain/document"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxDocumentSize = 16 << 20

var errSourceUnavailable = crerr.New("document source unavailable")

// New picks a source for location: http and https URLs are fetched over the
// network, anything else is read as a local file path.
func New(location string, httpClient *http.Client, timeout time.Duration) (document.Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("document location is empty")
	}

	parsed, err := url.Parse(location)
	if err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		if httpClient == nil {
			httpClient = &http.Client{
				Timeout:   timeout,
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			}
		}
		return &HTTPSource{url: location, httpClient: httpClient}, nil
	}
	if err == nil && parsed.Scheme == "file" {
		location = parsed.Path
	}
	return &FileSource{path: location}, nil
}

// NewAll builds one source per non-empty location, keeping their order.
func NewAll(locations []string, httpClient *http.Client, timeout time.Duration) ([]document.Source, error) {
	out := make([]document.Source, 0, len(locations))
	for _, location := range locations {
		if strings.TrimSpace(location) == "" {
			continue
		}
		src, err := New(location, httpClient, timeout)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// HTTPSource reads the document with a plain GET, the way a static site host
// serves it.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

func (s *HTTPSource) Name() string {
	return s.url
}

func (s *HTTPSource) Fetch(ctx context.Context) (document.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return document.Document{}, crerr.Wrap(err, "build document request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return document.Document{}, fmt.Errorf("%w: %v", errSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return document.Document{}, fmt.Errorf("%w: status=%d", errSourceUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return document.Document{}, fmt.Errorf("%w: read body: %v", errSourceUnavailable, err)
	}
	return document.Parse(raw)
}

// FileSource reads the document from the local filesystem.
type FileSource struct {
	path string
}

func (s *FileSource) Name() string {
	return "file:" + s.path
}

func (s *FileSource) Fetch(ctx context.Context) (document.Document, error) {
	if err := ctx.Err(); err != nil {
		return document.Document{}, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return document.Document{}, fmt.Errorf("%w: %v", errSourceUnavailable, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxDocumentSize))
	if err != nil {
		return document.Document{}, fmt.Errorf("%w: read file: %v", errSourceUnavailable, err)
	}
	return document.Parse(raw)
}
