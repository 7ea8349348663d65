package dataapi

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tournament-data/internal/platform/logging"
	"github.com/riskibarqy/tournament-data/internal/usecase"
)

// Response carries the data part of a call, as a conventional backend would
// return it inside its envelope.
type Response struct {
	Data any `json:"data"`
}

// Client is the logical REST surface. Paths look like "/players?sortBy=rating"
// or "/teams/3" no matter which variant serves them.
type Client interface {
	Get(ctx context.Context, path string) (Response, error)
	Post(ctx context.Context, path string, body any) (Response, error)
	Put(ctx context.Context, path string, body any) (Response, error)
	Delete(ctx context.Context, path string) (Response, error)
}

// Backend is a conventional network service speaking the same surface.
type Backend interface {
	Do(ctx context.Context, method, path string, body any) (any, error)
}

type Options struct {
	// StaticMode serves every call from the stored document instead of the
	// network backend.
	StaticMode bool

	Store   *usecase.DocumentStore
	Engine  *usecase.CollectionEngine
	Points  *usecase.PointsService
	Backend Backend
	Logger  *logging.Logger
}

// New picks the variant once. Callers keep the returned Client for the
// lifetime of the process.
func New(opts Options) (Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	if !opts.StaticMode {
		if opts.Backend == nil {
			return nil, fmt.Errorf("%w: api backend is required outside static mode", usecase.ErrConfiguration)
		}
		logger.Info("data api uses network backend")
		return &remoteClient{backend: opts.Backend}, nil
	}

	if opts.Store == nil {
		return nil, fmt.Errorf("%w: document store is required in static mode", usecase.ErrConfiguration)
	}
	client := &staticClient{
		store:     opts.Store,
		engine:    opts.Engine,
		points:    opts.Points,
		logger:    logger,
		validator: validator.New(),
	}
	table, err := compileRoutes(client.routes())
	if err != nil {
		return nil, err
	}
	client.table = table
	logger.Info("data api uses stored document", "routes", len(table.routes))
	return client, nil
}
