package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/gabapcia/lazydict/internal/config"
	redisstorage "github.com/gabapcia/lazydict/internal/infra/storage/redis"
	"github.com/gabapcia/lazydict/internal/pkg/logger"
	"github.com/gabapcia/lazydict/internal/pkg/metrics"
	"github.com/gabapcia/lazydict/internal/pkg/resilience/retry"
	"github.com/gabapcia/lazydict/internal/pkg/telemetry"
	transporthttp "github.com/gabapcia/lazydict/internal/pkg/transport/http"
	"github.com/gabapcia/lazydict/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/lazydict/internal/pkg/types"
	"github.com/gabapcia/lazydict/internal/pkg/validator"
	"github.com/gabapcia/lazydict/internal/resolver"
	"github.com/gabapcia/lazydict/internal/seed"

	"github.com/urfave/cli/v3"
)

// ErrDiscoverUnsupported is returned when --discover is used with a source
// that cannot list its keys.
var ErrDiscoverUnsupported = errors.New("discover requires the redis source")

type keyScanner interface {
	ScanKeys(ctx context.Context) ([]string, error)
}

// session holds the map a single command runs against, built from the global flags.
type session struct {
	cfg       config.Config
	providers *telemetry.Providers

	m        *types.LazyMap[string, string]
	stats    *types.Stats
	recorder *metrics.Recorder
	closers  []func() error
}

// open builds the map described by the root command's flags.
func (s *session) open(ctx context.Context, root *cli.Command) (context.Context, error) {
	source := root.String("source")
	if err := validator.Var("source", source, "required,oneof="+strings.Join(Sources, " ")); err != nil {
		return ctx, err
	}

	ctx = logger.Derive(ctx, "map", s.cfg.MapName, "source", source)

	next, stubArgs, scanner, err := s.newResolver(ctx, root, source)
	if err != nil {
		return ctx, err
	}

	r := next
	if !retriedByTransport(source) {
		r = resolver.WithRetry(ctx, s.newRetry(ctx), next)
	}
	r = resolver.Traced(ctx, s.providers.Tracer(), r)

	mapObserver, err := telemetry.NewMapObserver(s.providers.MeterProvider, s.cfg.MapName)
	if err != nil {
		return ctx, err
	}

	opts := []types.Option[string, string]{
		types.WithDefaultResolver(r),
		types.WithObserver[string, string](mapObserver),
		types.WithObserver[string, string](logObserver{ctx: ctx}),
	}
	if root.Bool("restore-on-error") {
		opts = append(opts, types.WithRestoreOnError[string, string]())
	}

	s.m, s.stats = types.NewDebugLazyMap(nil, opts...)
	s.recorder = metrics.NewRecorder(s.cfg.MapName, s.stats)

	if path := root.String("seed"); path != "" {
		sd, err := seed.Load(path)
		if err != nil {
			return ctx, err
		}
		s.m.Update(sd.All())
	}

	if root.Bool("discover") {
		if scanner == nil {
			return ctx, ErrDiscoverUnsupported
		}

		keys, err := scanner.ScanKeys(ctx)
		if err != nil {
			return ctx, fmt.Errorf("discover keys: %w", err)
		}

		for _, key := range keys {
			if !s.m.Contains(key) {
				s.m.SetStub(key, nil, stubArgs...)
			}
		}
	}

	for _, key := range root.StringSlice("stub") {
		s.m.SetStub(key, nil, stubArgs...)
	}

	logger.Debug(ctx, "map ready", "len", s.m.Len(), "pending", s.m.Pending())
	return ctx, nil
}

// newResolver returns the resolver of source, the arguments bound to every
// stub, and a key scanner when the source can list its keys.
func (s *session) newResolver(ctx context.Context, root *cli.Command, source string) (types.Resolver[string, string], []any, keyScanner, error) {
	switch source {
	case "identity":
		return resolver.Identity, nil, nil, nil

	case "template":
		return resolver.Template, []any{root.String("template")}, nil, nil

	case "static":
		path := root.String("values")
		if err := validator.Var("values", path, "required"); err != nil {
			return nil, nil, nil, err
		}

		values, err := seed.Load(path)
		if err != nil {
			return nil, nil, nil, err
		}

		return resolver.Static(maps.Collect(values.All())), nil, nil, nil

	case "http":
		baseURL := root.String("url")
		if err := validator.Var("url", baseURL, "required,url"); err != nil {
			return nil, nil, nil, err
		}

		return resolver.HTTP(ctx, transporthttp.NewClient(s.httpOptions()...), baseURL), nil, nil, nil

	case "jsonrpc":
		endpoint, method := root.String("url"), root.String("method")
		if err := errors.Join(
			validator.Var("url", endpoint, "required,url"),
			validator.Var("method", method, "required"),
		); err != nil {
			return nil, nil, nil, err
		}

		return resolver.JSONRPC(ctx, jsonrpc.NewClient(endpoint, s.httpOptions()...), method), nil, nil, nil

	case "redis":
		rc := s.cfg.Redis
		client, err := redisstorage.NewClient(ctx, rc.Addr, rc.Username, rc.Password, rc.DB, rc.KeyPrefix)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		s.closers = append(s.closers, client.Close)

		return client.Resolver(ctx), nil, client, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown source %q", source)
}

// retriedByTransport reports whether source's client already retries failed
// requests, in which case resolutions are not wrapped in another retry.
func retriedByTransport(source string) bool {
	return source == "http" || source == "jsonrpc"
}

func (s *session) httpOptions() []transporthttp.Option {
	return []transporthttp.Option{
		transporthttp.WithTimeout(s.cfg.HTTP.Timeout),
		transporthttp.WithRetryWaitMin(s.cfg.HTTP.RetryWaitMin),
		transporthttp.WithRetryWaitMax(s.cfg.HTTP.RetryWaitMax),
		transporthttp.WithRetryMax(s.cfg.HTTP.RetryMax),
		transporthttp.WithLogging(),
	}
}

func (s *session) newRetry(ctx context.Context) retry.Retry {
	return retry.New(
		retry.WithAttempts(s.cfg.Retry.Attempts),
		retry.WithDelay(s.cfg.Retry.Delay),
		retry.WithMaxDelay(s.cfg.Retry.MaxDelay),
		retry.WithRetryIf(resolver.Retryable),
		retry.WithOnRetry(func(attempt uint, err error) {
			logger.Warn(ctx, "resolution attempt failed", "attempt", attempt+1, "error", err)
		}),
	)
}

// close logs the map statistics, writes the metrics file if one was asked
// for and releases the source.
func (s *session) close(ctx context.Context, root *cli.Command) error {
	var errs []error

	if s.m != nil {
		logger.Info(ctx, "map stats",
			"stubs", s.stats.Stubs(),
			"resolved", s.stats.Resolved(),
			"real_items", s.stats.RealItems(),
			"pending", s.m.Pending(),
		)

		if path := root.String("metrics-file"); path != "" {
			errs = append(errs, s.recorder.WriteTextfile(path))
		}
	}

	for _, closeFn := range s.closers {
		errs = append(errs, closeFn())
	}
	s.closers = nil

	return errors.Join(errs...)
}

// action wraps a command so it runs against a freshly opened map and is
// timed and counted under name.
func (s *session) action(name string, fn func(ctx context.Context, c *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) (err error) {
		root := c.Root()

		ctx, err = s.open(ctx, root)
		defer func() {
			err = errors.Join(err, s.close(ctx, root))
		}()
		if err != nil {
			return err
		}

		defer s.recorder.TrackDuration(name)()

		if err = fn(ctx, c); err != nil {
			s.recorder.TrackStatus(name, "error")
			return err
		}

		s.recorder.TrackStatus(name, "ok")
		return nil
	}
}
