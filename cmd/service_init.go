package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/guideline/internal/retrieval"
	"github.com/sells-group/guideline/internal/schedule"
	"github.com/sells-group/guideline/internal/store"
	"github.com/sells-group/guideline/pkg/provider"
)

// serviceEnv holds the initialized store and the Q&A pipelines needed by
// the serve/ask/review/schedule commands.
type serviceEnv struct {
	Store    store.Store
	Pipeline *retrieval.Pipeline
	Schedule *schedule.Answerer
}

// Close releases resources held by the service environment.
func (se *serviceEnv) Close() {
	if se.Store != nil {
		_ = se.Store.Close()
	}
}

// initService sets up the store, the optional composition provider and the
// answer pipelines. Callers should defer env.Close().
func initService(ctx context.Context, mode string) (*serviceEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	opts := []retrieval.PipelineOption{
		retrieval.WithProviderTimeout(time.Duration(cfg.Provider.TimeoutSecs) * time.Second),
	}
	if p := initProvider(); p != nil {
		opts = append(opts, retrieval.WithProvider(p))
	}

	return &serviceEnv{
		Store:    st,
		Pipeline: retrieval.NewPipeline(st, opts...),
		Schedule: schedule.NewAnswerer(),
	}, nil
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.Path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initProvider builds the answer-composition backend, or nil when answers
// should come from the citation templates alone.
func initProvider() provider.Provider {
	switch cfg.Provider.Backend {
	case "mock":
		return provider.NewMock()
	case "openai":
		opts := []provider.OpenAIOption{
			provider.WithBaseURL(cfg.Provider.BaseURL),
			provider.WithModel(cfg.Provider.Model),
			provider.WithRateLimit(cfg.Provider.RPS),
		}
		return provider.WithRetry(provider.NewOpenAICompatible(cfg.Provider.Key, opts...), cfg.Provider.Retries)
	case "anthropic":
		p := provider.NewAnthropic(cfg.Provider.Key,
			provider.WithAnthropicModel(cfg.Provider.Model),
			provider.WithAnthropicBaseURL(cfg.Provider.BaseURL),
		)
		return provider.WithRetry(p, cfg.Provider.Retries)
	default:
		zap.L().Debug("no composition provider configured, using template answers")
		return nil
	}
}
