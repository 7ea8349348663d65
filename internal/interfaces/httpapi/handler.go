package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/tournament-data/internal/infrastructure/contentstore"
	"github.com/riskibarqy/tournament-data/internal/interfaces/dataapi"
	"github.com/riskibarqy/tournament-data/internal/platform/logging"
	"github.com/riskibarqy/tournament-data/internal/usecase"
)

const (
	apiPrefix      = "/v1"
	maxRequestBody = 1 << 20
)

// ConnectionTester checks that the content repository is reachable with the
// configured credentials.
type ConnectionTester interface {
	TestConnection(ctx context.Context) contentstore.ConnectionResult
}

type Handler struct {
	data      dataapi.Client
	points    *usecase.PointsService
	content   ConnectionTester
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(
	data dataapi.Client,
	points *usecase.PointsService,
	content ConnectionTester,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		data:      data,
		points:    points,
		content:   content,
		logger:    logger,
		validator: validator.New(),
	}
}

type teamPointsRequest struct {
	TeamID int64 `json:"teamId" validate:"required,gt=0"`
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// Serve hands a /v1 request to the data API unchanged, minus the prefix.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Serve")
	defer span.End()

	path := logicalPath(r)
	var (
		resp dataapi.Response
		err  error
	)
	switch r.Method {
	case http.MethodGet:
		resp, err = h.data.Get(ctx, path)
	case http.MethodDelete:
		resp, err = h.data.Delete(ctx, path)
	case http.MethodPost, http.MethodPut:
		body, decodeErr := decodeBody(r)
		if decodeErr != nil {
			writeError(ctx, w, decodeErr)
			return
		}
		if r.Method == http.MethodPost {
			resp, err = h.data.Post(ctx, path, body)
		} else {
			resp, err = h.data.Put(ctx, path, body)
		}
	default:
		err = fmt.Errorf("%w: method %s", usecase.ErrUnsupportedOperation, r.Method)
	}
	if err != nil {
		h.logFailure(ctx, "data api call failed", err, "method", r.Method, "path", path)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resp.Data)
}

func (h *Handler) GetTeamPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamPoints")
	defer span.End()

	if h.points == nil {
		writeError(ctx, w, fmt.Errorf("%w: points lookups are not configured", usecase.ErrUnsupportedOperation))
		return
	}

	teamID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("teamID")), 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: teamID must be an integer", usecase.ErrInvalidInput))
		return
	}
	req := teamPointsRequest{TeamID: teamID}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.points.TeamPoints(ctx, req.TeamID)
	if err != nil {
		h.logFailure(ctx, "get team points failed", err, "team_id", req.TeamID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) ListTeamPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamPoints")
	defer span.End()

	if h.points == nil {
		writeError(ctx, w, fmt.Errorf("%w: points lookups are not configured", usecase.ErrUnsupportedOperation))
		return
	}

	reports, err := h.points.AllTeamPoints(ctx)
	if err != nil && len(reports) == 0 {
		h.logFailure(ctx, "list team points failed", err)
		writeError(ctx, w, err)
		return
	}
	if err != nil {
		h.logger.WarnContext(ctx, "some team points lookups failed", "error", err)
	}

	writeSuccess(ctx, w, http.StatusOK, reports)
}

func (h *Handler) TestContentConnection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TestContentConnection")
	defer span.End()

	if h.content == nil {
		writeError(ctx, w, fmt.Errorf("%w: content repository is not configured", usecase.ErrConfiguration))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.content.TestConnection(ctx))
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if mapError(ctx, err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}

func logicalPath(r *http.Request) string {
	path := strings.TrimPrefix(r.URL.Path, apiPrefix)
	if path == "" {
		path = "/"
	}
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}
	return path
}

// decodeBody reads an arbitrary JSON body. Numbers are kept as json.Number so
// integer ids are not turned into floats on the way to the document.
func decodeBody(r *http.Request) (any, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var body any
	decoder := jsoniter.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return body, nil
}
