package contentstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tournament-data/internal/domain/document"
	"github.com/riskibarqy/tournament-data/internal/platform/logging"
	"github.com/riskibarqy/tournament-data/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL  = "https://api.github.com"
	DefaultPath     = "data/data.json"
	DefaultBranch   = "main"
	sourceName      = "content-repository"
	acceptJSON      = "application/vnd.github.v3+json"
	acceptRaw       = "application/vnd.github.raw"
	userAgent       = "tournament-data"
	maxResponseSize = 16 << 20
)

// Token is the blob sha the repository uses as its version token.
type Token string

// AbsentToken means the blob does not exist yet; a write without a token
// creates it.
const AbsentToken Token = ""

// Coordinates address the repository and the credential used to reach it.
type Coordinates struct {
	Owner  string `validate:"required"`
	Repo   string `validate:"required"`
	Branch string
	Token  string `validate:"required"`
}

// CoordinatesProvider resolves repository coordinates at call time, so edits to
// the local credential store take effect without a restart.
type CoordinatesProvider interface {
	Coordinates(ctx context.Context) (Coordinates, error)
}

// StaticCoordinates serves a fixed set of coordinates.
type StaticCoordinates Coordinates

func (s StaticCoordinates) Coordinates(context.Context) (Coordinates, error) {
	return Coordinates(s), nil
}

type ClientConfig struct {
	HTTPClient  *http.Client
	BaseURL     string
	Path        string
	Timeout     time.Duration
	Coordinates CoordinatesProvider
	Logger      *logging.Logger
	Now         func() time.Time
}

// Client reads and writes the tournament document as one file in a GitHub
// repository through the contents API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	path        string
	coordinates CoordinatesProvider
	validate    *validator.Validate
	logger      *logging.Logger
	now         func() time.Time
}

// ConnectionResult reports whether the configured repository is reachable.
type ConnectionResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Commit identifies what a successful write produced.
type Commit struct {
	ContentSHA Token
	CommitSHA  string
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	path := strings.Trim(strings.TrimSpace(cfg.Path), "/")
	if path == "" {
		path = DefaultPath
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	coordinates := cfg.Coordinates
	if coordinates == nil {
		coordinates = StaticCoordinates{}
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		path:        path,
		coordinates: coordinates,
		validate:    validator.New(),
		logger:      logger,
		now:         now,
	}
}

func (c *Client) Name() string {
	return sourceName
}

// VersionToken returns the sha of the stored blob, or AbsentToken when the
// repository answers anything but 200.
func (c *Client) VersionToken(ctx context.Context) (Token, error) {
	coords, err := c.resolve(ctx)
	if err != nil {
		return AbsentToken, err
	}

	resp, body, err := c.do(ctx, coords, http.MethodGet, c.contentsURL(coords, true), acceptJSON, nil)
	if err != nil {
		return AbsentToken, err
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.DebugContext(ctx, "content blob not readable, treating as absent",
			"status_code", resp.StatusCode,
			"path", c.path,
		)
		return AbsentToken, nil
	}

	var meta contentResponse
	if err := sonic.Unmarshal(body, &meta); err != nil {
		return AbsentToken, fmt.Errorf("%w: decode content metadata: %v", usecase.ErrParse, err)
	}
	return Token(meta.SHA), nil
}

// Put writes content conditioned on token. A stale or missing token comes back
// as *ConflictError. Nothing is retried.
func (c *Client) Put(ctx context.Context, content []byte, token Token, message string) (Commit, error) {
	coords, err := c.resolve(ctx)
	if err != nil {
		return Commit{}, err
	}

	payload := putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  coords.Branch,
		SHA:     string(token),
	}
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		return Commit{}, crerr.Wrap(err, "encode content write request")
	}

	resp, body, err := c.do(ctx, coords, http.MethodPut, c.contentsURL(coords, false), acceptJSON, buf.B)
	if err != nil {
		return Commit{}, err
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var decoded putResponse
		if err := sonic.Unmarshal(body, &decoded); err != nil {
			return Commit{}, fmt.Errorf("%w: decode content write response: %v", usecase.ErrParse, err)
		}
		return Commit{ContentSHA: Token(decoded.Content.SHA), CommitSHA: decoded.Commit.SHA}, nil
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		return Commit{}, &ConflictError{
			StatusCode: resp.StatusCode,
			Token:      token,
			Message:    remoteMessage(body, "version token rejected"),
		}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound:
		return Commit{}, fmt.Errorf("%w: repository rejected write status=%d: %s",
			usecase.ErrConfiguration, resp.StatusCode, remoteMessage(body, "access denied"))
	case resp.StatusCode >= http.StatusInternalServerError:
		return Commit{}, fmt.Errorf("%w: repository status=%d: %s",
			usecase.ErrTransientNetwork, resp.StatusCode, remoteMessage(body, "server error"))
	default:
		return Commit{}, fmt.Errorf("save content status=%d: %s", resp.StatusCode, remoteMessage(body, "Failed to save data"))
	}
}

// Save writes doc pretty-printed under the current version token.
func (c *Client) Save(ctx context.Context, doc document.Document) error {
	if _, err := c.resolve(ctx); err != nil {
		return err
	}

	content, err := document.EncodeIndent(doc)
	if err != nil {
		return crerr.Wrap(err, "encode tournament document")
	}

	token, err := c.VersionToken(ctx)
	if err != nil {
		return fmt.Errorf("read version token: %w", err)
	}

	message := "Update tournament data - " + c.now().UTC().Format(time.RFC3339)
	commit, err := c.Put(ctx, content, token, message)
	if err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "tournament document written",
		"path", c.path,
		"previous_sha", string(token),
		"content_sha", string(commit.ContentSHA),
		"commit_sha", commit.CommitSHA,
	)
	return nil
}

// Fetch reads the stored document. A missing file is usecase.ErrNotFound.
func (c *Client) Fetch(ctx context.Context) (document.Document, error) {
	coords, err := c.resolve(ctx)
	if err != nil {
		return document.Document{}, err
	}

	resp, body, err := c.do(ctx, coords, http.MethodGet, c.contentsURL(coords, true), acceptRaw, nil)
	if err != nil {
		return document.Document{}, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return document.Document{}, fmt.Errorf("%w: %s", usecase.ErrNotFound, remoteMessage(body, "not found"))
	case resp.StatusCode != http.StatusOK:
		return document.Document{}, fmt.Errorf("read content status=%d: %s", resp.StatusCode, remoteMessage(body, http.StatusText(resp.StatusCode)))
	}

	doc, err := document.Parse(body)
	if err != nil {
		return document.Document{}, fmt.Errorf("%w: %v", usecase.ErrParse, err)
	}
	return doc, nil
}

// TestConnection checks that the repository exists and the credential can see
// it. Failures are reported in the result, never as an error.
func (c *Client) TestConnection(ctx context.Context) ConnectionResult {
	coords, err := c.resolve(ctx)
	if err != nil {
		return ConnectionResult{Success: false, Error: "Repository not configured"}
	}

	resp, body, err := c.do(ctx, coords, http.MethodGet, c.repoURL(coords), acceptJSON, nil)
	if err != nil {
		return ConnectionResult{Success: false, Error: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return ConnectionResult{Success: false, Error: remoteMessage(body, http.StatusText(resp.StatusCode))}
	}
	return ConnectionResult{Success: true}
}

func (c *Client) resolve(ctx context.Context) (Coordinates, error) {
	coords, err := c.coordinates.Coordinates(ctx)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", usecase.ErrConfiguration, err)
	}
	coords = normalizeCoordinates(coords)
	if err := c.validate.StructCtx(ctx, coords); err != nil {
		return Coordinates{}, fmt.Errorf("%w: repository owner, name and token are required", usecase.ErrConfiguration)
	}
	return coords, nil
}

func (c *Client) do(ctx context.Context, coords Coordinates, method, url, accept string, payload []byte) (*http.Response, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, nil, crerr.Wrap(err, "build content request")
	}
	req.Header.Set("Authorization", "token "+coords.Token)
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, fmt.Errorf("%w: %s %s: %s", usecase.ErrTransientNetwork, method, c.path, sanitize(err.Error(), coords.Token))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read content response: %v", usecase.ErrTransientNetwork, err)
	}
	return resp, body, nil
}
