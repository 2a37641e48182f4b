// Package backend opens the task store selected in the configuration.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"taskview/internal/backend/googletasks"
	"taskview/internal/backend/redisstore"
	"taskview/internal/config"
	"taskview/internal/repository"
	"taskview/internal/tracing"
)

// ErrAuth marks failures to set up credentials for a backend.
var ErrAuth = errors.New("auth error")

// Open returns the repository for cfg.Settings.Backend, wrapped with
// tracing. Spans are logged to log at debug level. The result implements
// io.Closer, which flushes the tracer and releases the backend.
func Open(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (repository.Repository, error) {
	var (
		repo repository.Repository
		err  error
	)

	switch cfg.Settings.Backend {
	case config.BackendGoogle:
		repo, err = openGoogle(ctx, cfg, log)
	case config.BackendRedis:
		repo, err = openRedis(ctx, cfg, log)
	default:
		err = fmt.Errorf("unknown backend: %s", cfg.Settings.Backend)
	}
	if err != nil {
		return nil, err
	}

	log.WithField("backend", cfg.Settings.Backend).Debug("backend ready")
	tp := tracing.NewProvider(log)
	return &tracedStore{
		Repository: repository.Traced(repo, tp.Tracer(repository.TracerName)),
		provider:   tp,
	}, nil
}

// tracedStore owns the tracer provider for the repository it wraps.
type tracedStore struct {
	repository.Repository
	provider *sdktrace.TracerProvider
}

func (s *tracedStore) Close() error {
	err := s.provider.Shutdown(context.Background())
	if c, ok := s.Repository.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

func openGoogle(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (repository.Repository, error) {
	if !cfg.HasOAuthClient() {
		return nil, fmt.Errorf("%w: oauth_client.json not found in %s", ErrAuth, cfg.Dir)
	}
	if !cfg.HasToken() {
		return nil, fmt.Errorf("%w: not logged in (run: taskview login)", ErrAuth)
	}

	client, err := googletasks.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return client, nil
}

func openRedis(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (repository.Repository, error) {
	rs := cfg.Settings.Redis
	dialCtx, cancel := context.WithTimeout(ctx, cfg.Settings.Timeout)
	defer cancel()

	store, err := redisstore.Dial(dialCtx, &redis.Options{
		Addr:     rs.Addr,
		Password: rs.Password,
		DB:       rs.DB,
	}, rs.Prefix, log)
	if err != nil {
		return nil, err
	}
	return store, nil
}
