package dataapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tournament-data/internal/domain/document"
	"github.com/riskibarqy/tournament-data/internal/domain/player"
	"github.com/riskibarqy/tournament-data/internal/platform/logging"
	"github.com/riskibarqy/tournament-data/internal/usecase"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const staticToken = "static-token"

var dataTracer = otel.Tracer("tournament-data/internal/interfaces/dataapi")

type teamPointsRequest struct {
	TeamID int64 `json:"teamId" validate:"required,gt=0"`
}

// staticClient answers the REST surface from the stored document. Writes go
// through the collection engine; reads never touch the network backend.
type staticClient struct {
	store     *usecase.DocumentStore
	engine    *usecase.CollectionEngine
	points    *usecase.PointsService
	logger    *logging.Logger
	validator *validator.Validate
	table     routeTable
}

func (c *staticClient) routes() []route {
	return []route{
		{method: http.MethodGet, pattern: "/settings", handle: c.getSettings},
		{method: http.MethodGet, pattern: "/players", handle: c.listPlayers},
		{method: http.MethodGet, pattern: "/players/{id}/stats", handle: c.getPlayerStats},
		{method: http.MethodGet, pattern: "/players/{id}", handle: c.getPlayer},
		{method: http.MethodGet, pattern: "/teams", handle: c.listTeams},
		{method: http.MethodGet, pattern: "/teams/{id}", handle: c.getTeam},
		{method: http.MethodGet, pattern: "/matches", handle: c.listMatches},
		{method: http.MethodGet, pattern: "/matches/bracket", handle: c.getBracket},
		{method: http.MethodGet, pattern: "/rules", handle: c.listRules},
		{method: http.MethodGet, pattern: "/rules/cards", handle: c.listRuleCards},

		{method: http.MethodPost, pattern: "/auth/login", handle: c.login},
		{method: http.MethodPost, pattern: "/wotstat/team-points", handle: c.teamPoints},

		{method: http.MethodPut, pattern: "/settings", handle: c.putSettings},
		{method: http.MethodPut, pattern: "/players/{id}", handle: c.upsert(document.CollectionPlayers)},
		{method: http.MethodPut, pattern: "/teams/{id}", handle: c.upsert(document.CollectionTeams)},
		{method: http.MethodPut, pattern: "/matches/{id}", handle: c.upsert(document.CollectionMatches)},
		{method: http.MethodPut, pattern: "/rules/cards/{id}", handle: c.upsert(document.CollectionRuleCards)},
		{method: http.MethodPut, pattern: "/rules/{id}", handle: c.upsert(document.CollectionRules)},

		{method: http.MethodDelete, pattern: "/players/{id}", handle: c.remove(document.CollectionPlayers)},
		{method: http.MethodDelete, pattern: "/teams/{id}", handle: c.remove(document.CollectionTeams)},
		{method: http.MethodDelete, pattern: "/matches/{id}", handle: c.remove(document.CollectionMatches)},
		{method: http.MethodDelete, pattern: "/rules/cards/{id}", handle: c.remove(document.CollectionRuleCards)},
		{method: http.MethodDelete, pattern: "/rules/{id}", handle: c.remove(document.CollectionRules)},
	}
}

func (c *staticClient) Get(ctx context.Context, path string) (Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *staticClient) Post(ctx context.Context, path string, body any) (Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *staticClient) Put(ctx context.Context, path string, body any) (Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *staticClient) Delete(ctx context.Context, path string) (Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *staticClient) do(ctx context.Context, method, path string, body any) (Response, error) {
	if trace.SpanFromContext(ctx).SpanContext().IsValid() {
		var span trace.Span
		ctx, span = dataTracer.Start(ctx, "dataapi.staticClient."+method, trace.WithAttributes(attribute.String("dataapi.path", path)))
		defer span.End()
	}

	data, err := c.table.dispatch(ctx, method, path, body)
	if err != nil {
		return Response{}, err
	}
	return Response{Data: data}, nil
}

func (c *staticClient) getSettings(ctx context.Context, _ call) (any, error) {
	return c.store.Settings(ctx)
}

func (c *staticClient) listPlayers(ctx context.Context, in call) (any, error) {
	filter, err := player.FilterFromQuery(in.query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return c.store.Players(ctx, filter)
}

func (c *staticClient) getPlayer(ctx context.Context, in call) (any, error) {
	id, err := in.id()
	if err != nil {
		return nil, err
	}
	p, ok, err := c.store.Player(ctx, id)
	if err != nil || !ok {
		return nil, err
	}
	return p, nil
}

func (c *staticClient) getPlayerStats(ctx context.Context, in call) (any, error) {
	id, err := in.id()
	if err != nil {
		return nil, err
	}
	rec, ok, err := c.store.PlayerRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	stats := rec.Object("stats")
	if !ok || stats == nil {
		return map[string]any{}, nil
	}
	return stats.Clone(), nil
}

func (c *staticClient) listTeams(ctx context.Context, _ call) (any, error) {
	return c.store.Teams(ctx)
}

func (c *staticClient) getTeam(ctx context.Context, in call) (any, error) {
	id, err := in.id()
	if err != nil {
		return nil, err
	}
	t, ok, err := c.store.Team(ctx, id)
	if err != nil || !ok {
		return nil, err
	}
	return t, nil
}

func (c *staticClient) listMatches(ctx context.Context, _ call) (any, error) {
	return c.store.Matches(ctx)
}

func (c *staticClient) getBracket(ctx context.Context, _ call) (any, error) {
	return c.store.Bracket(ctx)
}

func (c *staticClient) listRules(ctx context.Context, _ call) (any, error) {
	return c.store.Rules(ctx)
}

func (c *staticClient) listRuleCards(ctx context.Context, _ call) (any, error) {
	return c.store.RuleCards(ctx)
}

func (c *staticClient) login(context.Context, call) (any, error) {
	return map[string]any{
		"token": staticToken,
		"user": map[string]any{
			"id":       1,
			"username": "admin",
		},
	}, nil
}

func (c *staticClient) teamPoints(ctx context.Context, in call) (any, error) {
	if c.points == nil {
		return nil, fmt.Errorf("%w: points lookups are not configured", usecase.ErrUnsupportedOperation)
	}

	body, err := patchFromBody(in.body)
	if err != nil {
		return nil, err
	}
	// Pages post the id straight from the route, so "10" and 10 both count.
	teamID, _ := body.Int64("teamId")
	req := teamPointsRequest{TeamID: teamID}
	if err := c.validator.StructCtx(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: teamId must be a positive integer", usecase.ErrInvalidInput)
	}
	return c.points.TeamPoints(ctx, req.TeamID)
}

func (c *staticClient) putSettings(ctx context.Context, in call) (any, error) {
	patch, err := patchFromBody(in.body)
	if err != nil {
		return nil, err
	}
	if err := c.requireEngine(); err != nil {
		return nil, err
	}
	if err := c.engine.Upsert(ctx, document.CollectionSettings, 0, patch); err != nil {
		return nil, err
	}
	return patch, nil
}

func (c *staticClient) upsert(collection document.Collection) handlerFunc {
	return func(ctx context.Context, in call) (any, error) {
		id, err := in.id()
		if err != nil {
			return nil, err
		}
		patch, err := patchFromBody(in.body)
		if err != nil {
			return nil, err
		}
		if err := c.requireEngine(); err != nil {
			return nil, err
		}
		if err := c.engine.Upsert(ctx, collection, id, patch); err != nil {
			return nil, err
		}
		return patch, nil
	}
}

func (c *staticClient) remove(collection document.Collection) handlerFunc {
	return func(ctx context.Context, in call) (any, error) {
		id, err := in.id()
		if err != nil {
			return nil, err
		}
		if err := c.requireEngine(); err != nil {
			return nil, err
		}
		if err := c.engine.Remove(ctx, collection, id); err != nil {
			return nil, err
		}
		return map[string]any{"message": "Deleted"}, nil
	}
}

func (c *staticClient) requireEngine() error {
	if c.engine == nil {
		return fmt.Errorf("%w: writes are not configured", usecase.ErrConfiguration)
	}
	return nil
}

func patchFromBody(body any) (document.Record, error) {
	patch, err := document.DecodeRecord(body)
	if err != nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", usecase.ErrInvalidInput)
	}
	return patch, nil
}
