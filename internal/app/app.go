package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/cricket-slots/external/cricbuzz"
	"github.com/riskibarqy/cricket-slots/internal/config"
	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/domain/score"
	"github.com/riskibarqy/cricket-slots/internal/domain/slot"
	"github.com/riskibarqy/cricket-slots/internal/domain/user"
	"github.com/riskibarqy/cricket-slots/internal/domain/userstats"
	"github.com/riskibarqy/cricket-slots/internal/infrastructure/fallback"
	cacherepo "github.com/riskibarqy/cricket-slots/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/cricket-slots/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-slots/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/cricket-slots/internal/interfaces/httpapi"
	"github.com/riskibarqy/cricket-slots/internal/platform/cache"
	idgen "github.com/riskibarqy/cricket-slots/internal/platform/id"
	"github.com/riskibarqy/cricket-slots/internal/platform/lock"
	"github.com/riskibarqy/cricket-slots/internal/platform/logging"
	"github.com/riskibarqy/cricket-slots/internal/platform/resilience"
	"github.com/riskibarqy/cricket-slots/internal/usecase"
)

const bootstrapTimeout = 30 * time.Second

type repositories struct {
	matches match.Repository
	slots   slot.Repository
	scores  score.Repository
	stats   userstats.Repository
	users   user.Repository
}

// NewHTTPServer wires the API. The returned closer releases the database and
// lock connections and must be called after the server stops.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var closers []io.Closer
	closeAll := func() error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if db != nil {
		closers = append(closers, db)
	}

	locker, lockCloser, err := buildLocker(cfg, logger)
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}
	if lockCloser != nil {
		closers = append(closers, lockCloser)
	}

	source := cricbuzz.NewClient(cricbuzz.ClientConfig{
		BaseURL:          cfg.CricbuzzBaseURL,
		UserAgent:        cfg.CricbuzzUserAgent,
		Timeout:          cfg.CricbuzzTimeout,
		MaxAttempts:      cfg.CricbuzzMaxAttempts,
		BackoffStep:      cfg.CricbuzzBackoffStep,
		SeriesIDs:        cfg.CricbuzzSeriesIDs,
		HydrationWorkers: cfg.CricbuzzHydrationWorkers,
		Logger:           logger.Named("cricbuzz"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CricbuzzCircuitEnabled,
			FailureThreshold: cfg.CricbuzzCircuitFailureCount,
			OpenTimeout:      cfg.CricbuzzCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CricbuzzCircuitHalfOpenMaxReq,
		},
	})

	var scorecardFallback usecase.ScorecardFallback
	if cfg.FallbackEnabled && !cfg.IsProduction() {
		dataset, err := fallback.LoadFile(cfg.FallbackDatasetPath)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("load fallback dataset: %w", err)
		}
		scorecardFallback = dataset
		logger.Warn("synthetic scorecard fallback enabled",
			"dataset", cfg.FallbackDatasetPath,
			"match_keys", strings.Join(cfg.FallbackMatchKeys, ","),
		)
	}

	matchSyncSvc := usecase.NewMatchSyncService(source, repos.matches, idgen.NewUUIDGenerator(), logger)
	matchSvc := usecase.NewMatchService(repos.matches, source)
	slotSvc := usecase.NewSlotService(
		repos.matches,
		repos.slots,
		repos.users,
		repos.scores,
		repos.stats,
		locker,
		idgen.NewUUIDGenerator(),
		logger,
	)
	liveScoreSvc := usecase.NewLiveScoreService(
		source,
		scorecardFallback,
		repos.matches,
		repos.slots,
		repos.scores,
		repos.stats,
		locker,
		usecase.LiveScoreConfig{
			Workers:           cfg.LiveSyncWorkers,
			FallbackEnabled:   cfg.FallbackEnabled,
			FallbackMatchKeys: cfg.FallbackMatchKeys,
			Production:        cfg.IsProduction(),
		},
		logger,
	)
	leaderboardSvc := usecase.NewLeaderboardService(repos.matches, repos.slots, repos.scores, repos.stats, repos.users)
	settlementSvc := usecase.NewSettlementService(
		repos.matches,
		repos.slots,
		repos.stats,
		repos.users,
		usecase.SettlementConfig{
			Stake:    cfg.SettlementStake,
			Location: cfg.SettlementLocation,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		matchSyncSvc,
		matchSvc,
		slotSvc,
		liveScoreSvc,
		leaderboardSvc,
		settlementSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, httpapi.RouterOptions{
		Logger:             logger,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = closeAll()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeAll, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	var (
		repos repositories
		db    *sqlx.DB
	)

	if cfg.DBEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
		defer cancel()

		var err error
		db, err = openPostgres(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return repositories{}, nil, err
		}

		repos = repositories{
			matches: postgres.NewMatchRepository(db),
			slots:   postgres.NewSlotRepository(db),
			scores:  postgres.NewScoreRepository(db),
			stats:   postgres.NewUserStatsRepository(db),
			users:   postgres.NewUserRepository(db),
		}
		logger.Info("postgres repositories enabled")
	} else {
		scores := memory.NewScoreRepository()
		repos = repositories{
			matches: memory.NewMatchRepository(nil),
			slots:   memory.NewSlotRepository(scores),
			scores:  scores,
			stats:   memory.NewUserStatsRepository(),
			users:   memory.NewUserRepository(memory.SeedUsers()),
		}
		logger.Info("in-memory repositories enabled", "reason", "DB_ENABLED=false")
	}

	if cfg.CacheEnabled {
		repos.matches = cacherepo.NewMatchRepository(repos.matches, cache.NewStore(cfg.CacheTTL))
		repos.users = cacherepo.NewUserRepository(repos.users, cache.NewStore(cfg.CacheTTL))
		logger.Info("read-through cache enabled", "ttl", cfg.CacheTTL.String())
	}

	return repos, db, nil
}

func buildLocker(cfg config.Config, logger *logging.Logger) (lock.Locker, io.Closer, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		logger.Info("in-process match locks enabled", "reason", "REDIS_URL empty")
		return lock.NewKeyedMutex(), nil, nil
	}

	client, err := lock.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("build redis client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("redis match locks enabled", "ttl", cfg.MatchLockTTL.String())
	return lock.NewRedisLocker(client, cfg.ServiceName+":lock:", cfg.MatchLockTTL), client, nil
}
