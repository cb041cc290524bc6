package botapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hp356662-a11y/Mingle9933-Bot/internal/config"
	tginfra "github.com/hp356662-a11y/Mingle9933-Bot/internal/infra/telegram"
	browsejob "github.com/hp356662-a11y/Mingle9933-Bot/internal/jobs/browse"
	pgrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/postgres"
	redisrepo "github.com/hp356662-a11y/Mingle9933-Bot/internal/repo/redis"
	browsesvc "github.com/hp356662-a11y/Mingle9933-Bot/internal/services/browse"
	matchessvc "github.com/hp356662-a11y/Mingle9933-Bot/internal/services/matches"
	onboardingsvc "github.com/hp356662-a11y/Mingle9933-Bot/internal/services/onboarding"
	profilessvc "github.com/hp356662-a11y/Mingle9933-Bot/internal/services/profiles"
	swipessvc "github.com/hp356662-a11y/Mingle9933-Bot/internal/services/swipes"
	"github.com/hp356662-a11y/Mingle9933-Bot/internal/session"
	httptransport "github.com/hp356662-a11y/Mingle9933-Bot/internal/transport/http"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	bot        *tginfra.Bot
	dispatcher *dispatcher
	worker     *browsejob.Worker
	opsServer  *http.Server
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	if err := pgrepo.Migrate(ctx, cfg.Postgres.DSN); err != nil {
		return nil, fmt.Errorf("migrate postgres schema: %w", err)
	}

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("init postgres for bot app: %w", err)
	}

	redisClient, err := redisrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis for bot app: %w", err)
	}

	bot, err := tginfra.NewBot(cfg.Bot.Token)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	userRepo := pgrepo.NewUserRepo(pool)
	prefRepo := pgrepo.NewPreferenceRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	candidateRepo := pgrepo.NewCandidateRepo(pool)
	queueRepo := redisrepo.NewBrowseQueueRepo(redisClient)

	sessions := session.NewStore()
	onboardingService := onboardingsvc.NewService(onboardingsvc.Dependencies{
		Pool:            pool,
		Sessions:        sessions,
		UserStore:       userRepo,
		PreferenceStore: prefRepo,
	})
	browseService := browsesvc.NewService(prefRepo, candidateRepo)
	swipeService := swipessvc.NewService(swipessvc.Dependencies{
		Pool:       pool,
		SwipeStore: swipeRepo,
		MatchStore: matchRepo,
	})
	matchService := matchessvc.NewService(matchRepo)
	profileService := profilessvc.NewService(userRepo)

	d := &dispatcher{
		bot:          bot,
		onboarding:   onboardingService,
		browse:       browseService,
		swipes:       swipeService,
		matches:      matchService,
		profiles:     profileService,
		queue:        queueRepo,
		requeueDelay: cfg.Browse.RequeueDelay,
		now:          time.Now,
		logger:       logger,
	}

	worker := browsejob.NewWorker(queueRepo, d.deliverFollowUp, cfg.Browse.PollInterval, logger)

	opsRouter := httptransport.NewOpsRouter(httptransport.Dependencies{
		Postgres: pool,
		Redis: httptransport.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
		Logger: logger,
	})
	opsServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      opsRouter,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		postgres:   pool,
		redis:      redisClient,
		bot:        bot,
		dispatcher: d,
		worker:     worker,
		opsServer:  opsServer,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot app started")

	errCh := make(chan error, 2)

	go func() {
		errCh <- a.bot.Listen(ctx, tginfra.Handlers{
			OnCommand:  a.dispatcher.handleCommand,
			OnText:     a.dispatcher.handleText,
			OnCallback: a.dispatcher.handleCallback,
		})
	}()

	go a.worker.Start(ctx)

	go func() {
		a.logger.Info("ops server listening", zap.String("addr", a.opsServer.Addr))
		if err := a.opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = a.opsServer.Shutdown(shutdownCtx)
			a.logger.Info("bot app stopped")
			return nil
		case err := <-errCh:
			if err == nil || errors.Is(err, context.Canceled) {
				continue
			}
			return err
		}
	}
}

func (a *App) Close() {
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
