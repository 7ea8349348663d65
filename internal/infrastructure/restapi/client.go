package restapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tournament-data/internal/domain/document"
	"github.com/riskibarqy/tournament-data/internal/platform/logging"
	"github.com/riskibarqy/tournament-data/internal/usecase"
	"github.com/valyala/fasthttp"
)

const maxResponseBodySize = 8 << 20

var errBackendTransient = crerr.New("backend transient failure")

// TokenSource supplies the bearer token sent with every request.
type TokenSource interface {
	BearerToken(ctx context.Context) (string, error)
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	Client  *fasthttp.Client
	Logger  *logging.Logger
}

// Client calls a conventional tournament backend over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	tokens  TokenSource
	client  *fasthttp.Client
	logger  *logging.Logger
}

func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: api base url is required", usecase.ErrConfiguration)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid api base url: %v", usecase.ErrConfiguration, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	client := cfg.Client
	if client == nil {
		client = &fasthttp.Client{
			Name:                "tournament-data",
			MaxResponseBodySize: maxResponseBodySize,
		}
	}

	return &Client{
		baseURL: baseURL,
		timeout: cfg.Timeout,
		tokens:  cfg.Tokens,
		client:  client,
		logger:  logger,
	}, nil
}

// Do sends one request and returns the decoded response data. Bodies in the
// {"apiVersion", "data"} envelope are unwrapped; other JSON is returned as-is.
func (c *Client) Do(ctx context.Context, method, path string, body any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/" + strings.TrimLeft(path, "/"))
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	if c.tokens != nil {
		token, err := c.tokens.BearerToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("read bearer token: %w", err)
		}
		if token = strings.TrimSpace(token); token != "" {
			req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
		}
	}

	if body != nil {
		raw, err := document.JSON.Marshal(body)
		if err != nil {
			return nil, crerr.Wrap(err, "encode request body")
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(raw)
	}

	if err := c.send(ctx, req, resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.WarnContext(ctx, "backend request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %v", usecase.ErrTransientNetwork, method, path, err)
	}

	status := resp.StatusCode()
	raw := resp.Body()
	if status < 200 || status >= 300 {
		return nil, statusError(method, path, status, raw)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}

	var decoded any
	if err := document.JSON.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode %s %s response: %v", usecase.ErrParse, method, path, err)
	}
	return unwrapEnvelope(decoded), nil
}

func (c *Client) send(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	deadline, ok := ctx.Deadline()
	if c.timeout > 0 {
		byTimeout := time.Now().Add(c.timeout)
		if !ok || byTimeout.Before(deadline) {
			deadline, ok = byTimeout, true
		}
	}
	if ok {
		return c.client.DoDeadline(req, resp, deadline)
	}
	return c.client.Do(req, resp)
}

type envelopeError struct {
	Code    int
	Message string
	Reason  string
}

func unwrapEnvelope(decoded any) any {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return decoded
	}
	if _, versioned := obj["apiVersion"]; !versioned {
		return decoded
	}
	return obj["data"]
}

func parseEnvelopeError(raw []byte) envelopeError {
	var decoded struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Errors  []struct {
				Reason  string `json:"reason"`
				Message string `json:"message"`
			} `json:"errors"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := document.JSON.Unmarshal(raw, &decoded); err != nil {
		return envelopeError{}
	}

	out := envelopeError{Code: decoded.Error.Code, Message: decoded.Error.Message}
	if out.Message == "" {
		out.Message = decoded.Message
	}
	if len(decoded.Error.Errors) > 0 {
		out.Reason = decoded.Error.Errors[0].Reason
	}
	return out
}

func statusError(method, path string, status int, raw []byte) error {
	detail := parseEnvelopeError(raw)
	message := detail.Message
	if message == "" {
		message = http.StatusText(status)
	}

	var sentinel error
	switch status {
	case http.StatusBadRequest:
		sentinel = usecase.ErrInvalidInput
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = usecase.ErrUnauthorized
	case http.StatusNotFound:
		sentinel = usecase.ErrNotFound
	case http.StatusMethodNotAllowed:
		sentinel = usecase.ErrUnsupportedOperation
	case http.StatusConflict:
		sentinel = usecase.ErrConflict
	case http.StatusServiceUnavailable:
		if detail.Reason == "notConfigured" {
			sentinel = usecase.ErrConfiguration
		} else {
			sentinel = usecase.ErrDocumentUnavailable
		}
	default:
		if status >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %w: %s %s status=%d: %s", usecase.ErrTransientNetwork, errBackendTransient, method, path, status, message)
		}
		return fmt.Errorf("%s %s status=%d: %s", method, path, status, message)
	}
	return fmt.Errorf("%w: %s %s: %s", sentinel, method, path, message)
}
