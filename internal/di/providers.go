package di

import (
	"fmt"

	"FlowShift/internal/domain/repository"
	"FlowShift/internal/handler/api"
	"FlowShift/internal/handler/ws"
	mid "FlowShift/internal/middleware"
	internalrepo "FlowShift/internal/repository"
	"FlowShift/internal/service/ratelimit"
	"FlowShift/internal/services/advisor"
	"FlowShift/internal/services/simulator"
	"FlowShift/internal/services/source"
	"FlowShift/internal/services/ticker"
	"FlowShift/internal/usecase"
	"FlowShift/pkg/cache"
	"FlowShift/pkg/config"
	xhttp "FlowShift/pkg/http"
	pkgkafka "FlowShift/pkg/kafka"
	"FlowShift/pkg/logger"
	"FlowShift/pkg/metrics"
	"FlowShift/pkg/server"
)

// ProvideLogger creates the process logger with the terminal journal
// attached and seeded with the boot lines.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	journal := logger.NewJournal(cfg.Log.JournalCap)
	journal.Seed(usecase.BootLines())
	l.AttachJournal(journal)
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideCache creates the session backend: in-process or Redis.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Session.Backend == "redis" {
		c, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Redis.Host),
			cache.WithRedisPort(cfg.Redis.Port),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
			cache.WithRedisPrefix(cfg.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewMemoryCache(
		cache.WithMemoryMaxSize(cfg.Session.MaxSize),
		cache.WithMemoryDefaultTTL(cfg.Session.TTL),
	), nil
}

func ProvideSessionStore(c cache.Service, cfg *config.Config) repository.SessionStore {
	return internalrepo.NewCacheSessionStore(c, cfg.Session.TTL)
}

// ProvideQuotePublisher creates a Kafka publisher, or a no-op one when
// Kafka is disabled.
func ProvideQuotePublisher(cfg *config.Config) (repository.QuotePublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NewNoopPublisher(), nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithBatch(cfg.Kafka.BatchSize, cfg.Kafka.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideQuoteFeed builds the pipeline between the ticker and the publisher.
func ProvideQuoteFeed(pub repository.QuotePublisher, rec *metrics.Recorder, cfg *config.Config, log *logger.Logger) *usecase.QuoteFeed {
	pipe := mid.NewRealtimePipeline(pub, rec,
		mid.WithMaxRPS(cfg.Kafka.MaxRPS),
		mid.WithBufferSize(cfg.Kafka.BufferSize),
	)
	return usecase.NewQuoteFeed(pipe, pub, log)
}

func ProvideSimulator(cfg *config.Config, rec *metrics.Recorder) *simulator.Simulator {
	opts := []simulator.Option{simulator.WithRecorder(rec)}
	if cfg.Simulator.Seed != 0 {
		opts = append(opts, simulator.WithSeed(cfg.Simulator.Seed))
	}
	return simulator.New(opts...)
}

func ProvideTicker(cfg *config.Config, rec *metrics.Recorder, feed *usecase.QuoteFeed, log *logger.Logger) *ticker.Ticker {
	opts := []ticker.Option{
		ticker.WithInterval(cfg.Ticker.Interval),
		ticker.WithBuffer(cfg.Ticker.Buffer),
		ticker.WithRecorder(rec),
		ticker.WithListener(feed),
		ticker.WithLogger(log),
	}
	if cfg.Simulator.Seed != 0 {
		opts = append(opts, ticker.WithSeed(cfg.Simulator.Seed))
	}
	return ticker.New(opts...)
}

func ProvideAdvisor(cfg *config.Config, log *logger.Logger, rec *metrics.Recorder) *advisor.Advisor {
	return advisor.New(cfg, log, rec)
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Advisor.RateLimitPerMin, cfg.Advisor.RateLimitBurst)
}

func ProvideDashboard(sim *simulator.Simulator, tk *ticker.Ticker, log *logger.Logger, cfg *config.Config) *usecase.Dashboard {
	return usecase.NewDashboard(sim, tk, log.Journal(), cfg.Simulator.DefaultSymbol)
}

// ProvideSessionService lets a stuck advisor call hold the session guard
// for at most twice the advisor timeout.
func ProvideSessionService(
	store repository.SessionStore,
	sim *simulator.Simulator,
	adv *advisor.Advisor,
	cfg *config.Config,
	log *logger.Logger,
) *usecase.SessionService {
	return usecase.NewSessionService(store, sim, adv, source.Code(), log,
		usecase.WithGuardTTL(2*cfg.Advisor.Timeout),
	)
}

// ProvideHandler composes every route group served by the HTTP server.
func ProvideHandler(
	dash *usecase.Dashboard,
	sessions *usecase.SessionService,
	tk *ticker.Ticker,
	limiter *ratelimit.Limiter,
	log *logger.Logger,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewDashboardHandler(dash),
		api.NewSessionHandler(log, sessions, limiter.Middleware()),
		ws.NewQuotesHandler(tk, log),
	}
}

func ProvideHTTPServer(cfg *config.Config, handler xhttp.Handler, log *logger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithCORSOrigins(cfg.Server.AllowOrigins),
		xhttp.WithLogger(log),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	tk *ticker.Ticker,
	feed *usecase.QuoteFeed,
	store cache.Service,
	httpServer *xhttp.Server,
) *server.App {
	return server.New(cfg, log, tk, feed, store, httpServer)
}
