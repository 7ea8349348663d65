package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/riskibarqy/tournament-data/internal/config"
	"github.com/riskibarqy/tournament-data/internal/platform/logging"
)

// Runtime holds the started tracing and profiling backends.
type Runtime struct {
	logger          *logging.Logger
	shutdownTracing func(context.Context) error
	stopProfiler    func() error
	pprofServer     *http.Server
}

// Start brings up Uptrace, Pyroscope and the pprof listener according to cfg.
// Anything already started is stopped again when a later step fails.
func Start(cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("observability")

	shutdownTracing, err := InitUptrace(cfg, logger)
	if err != nil {
		return nil, err
	}

	stopProfiler, err := InitPyroscope(cfg, logger)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, err
	}

	return &Runtime{
		logger:          logger,
		shutdownTracing: shutdownTracing,
		stopProfiler:    stopProfiler,
		pprofServer:     StartPprofServer(cfg, logger),
	}, nil
}

func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}

	var errs []error
	if err := stopPprofServer(ctx, r.pprofServer); err != nil {
		errs = append(errs, err)
	}
	if err := r.stopProfiler(); err != nil {
		errs = append(errs, err)
	}
	if err := r.shutdownTracing(ctx); err != nil {
		errs = append(errs, err)
	}

	err := errors.Join(errs...)
	if err != nil {
		r.logger.Warn("observability shutdown finished with errors", "error", err)
	}
	return err
}
