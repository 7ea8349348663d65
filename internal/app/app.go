package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/tournament-data/external/wotstat"
	"github.com/riskibarqy/tournament-data/internal/config"
	"github.com/riskibarqy/tournament-data/internal/domain/document"
	"github.com/riskibarqy/tournament-data/internal/infrastructure/contentstore"
	"github.com/riskibarqy/tournament-data/internal/infrastructure/credentials"
	"github.com/riskibarqy/tournament-data/internal/infrastructure/docsource"
	"github.com/riskibarqy/tournament-data/internal/infrastructure/restapi"
	"github.com/riskibarqy/tournament-data/internal/interfaces/dataapi"
	"github.com/riskibarqy/tournament-data/internal/interfaces/httpapi"
	"github.com/riskibarqy/tournament-data/internal/platform/logging"
	"github.com/riskibarqy/tournament-data/internal/platform/resilience"
	"github.com/riskibarqy/tournament-data/internal/usecase"
)

// Container holds the wired collaborators shared by the HTTP server and the
// operator CLI.
type Container struct {
	Config      config.Config
	Credentials *credentials.Store
	Resolver    *credentials.Resolver
	Content     *contentstore.Client
	Store       *usecase.DocumentStore
	Engine      *usecase.CollectionEngine
	Points      *usecase.PointsService
	Data        dataapi.Client
}

// New wires the data layer. The adapter mode is decided here, once.
func New(cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	credentialsPath := cfg.CredentialsFile
	if credentialsPath == "" {
		credentialsPath = credentials.DefaultPath()
	}
	credStore := credentials.NewStore(credentialsPath)
	resolver := credentials.NewResolver(credStore, contentstore.Coordinates{
		Owner:  cfg.GitHubOwner,
		Repo:   cfg.GitHubRepo,
		Branch: cfg.GitHubBranch,
		Token:  cfg.GitHubToken,
	})

	content := contentstore.NewClient(contentstore.ClientConfig{
		BaseURL:     cfg.GitHubAPIBaseURL,
		Path:        cfg.GitHubDataPath,
		Timeout:     cfg.GitHubTimeout,
		Coordinates: resolver,
		Logger:      logger.Named("contentstore"),
	})

	mirrors, err := docsource.NewAll([]string{cfg.DataPrimaryURL, cfg.DataFallbackURL}, nil, cfg.DataTimeout)
	if err != nil {
		return nil, fmt.Errorf("build document sources: %w", err)
	}
	// The repository is read first; without coordinates it is skipped and the
	// published mirrors serve reads.
	sources := append([]document.Source{content}, mirrors...)

	store := usecase.NewDocumentStore(sources, logger.Named("document_store"))
	engine := usecase.NewCollectionEngine(store, content, logger.Named("collection_engine"))

	points := usecase.NewPointsService(store, wotstat.NewClient(wotstat.ClientConfig{
		Timeout:       cfg.WotstatTimeout,
		Concurrency:   cfg.WotstatConcurrency,
		RatePerSecond: cfg.WotstatRatePerSecond,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.WotstatCircuitEnabled,
			FailureThreshold: cfg.WotstatCircuitFailureCount,
			OpenTimeout:      cfg.WotstatCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WotstatCircuitHalfOpenMaxReq,
		},
		Logger: logger.Named("wotstat"),
	}), cfg.PointsWorkers, logger.Named("points"))

	opts := dataapi.Options{
		StaticMode: cfg.StaticMode(),
		Store:      store,
		Engine:     engine,
		Points:     points,
		Logger:     logger.Named("dataapi"),
	}
	if !opts.StaticMode {
		backend, err := restapi.NewClient(restapi.ClientConfig{
			BaseURL: cfg.APIURL,
			Timeout: cfg.APITimeout,
			Tokens:  resolver,
			Logger:  logger.Named("restapi"),
		})
		if err != nil {
			return nil, fmt.Errorf("build api client: %w", err)
		}
		opts.Backend = backend
	}

	data, err := dataapi.New(opts)
	if err != nil {
		return nil, fmt.Errorf("build data api: %w", err)
	}

	logger.Info("data layer ready",
		"static_mode", opts.StaticMode,
		"sources", len(sources),
		"credentials_file", credentialsPath,
	)

	return &Container{
		Config:      cfg,
		Credentials: credStore,
		Resolver:    resolver,
		Content:     content,
		Store:       store,
		Engine:      engine,
		Points:      points,
		Data:        data,
	}, nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	container, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}

	handler := httpapi.NewHandler(container.Data, container.Points, container.Content, logger.Named("httpapi"))
	router := httpapi.NewRouter(handler, logger.Named("http"), cfg.CORSAllowedOrigins, cfg.WriteToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
