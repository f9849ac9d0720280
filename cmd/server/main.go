package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tazhibayda/task-manager/docs"
	"github.com/tazhibayda/task-manager/internal/avatar"
	"github.com/tazhibayda/task-manager/internal/config"
	api "github.com/tazhibayda/task-manager/internal/http"
	applog "github.com/tazhibayda/task-manager/internal/log"
	"github.com/tazhibayda/task-manager/internal/mail"
	"github.com/tazhibayda/task-manager/internal/metrics"
	"github.com/tazhibayda/task-manager/internal/notify"
	"github.com/tazhibayda/task-manager/internal/queue"
	"github.com/tazhibayda/task-manager/internal/repo"
	"github.com/tazhibayda/task-manager/internal/repo/memory"
	"github.com/tazhibayda/task-manager/internal/security"
	"github.com/tazhibayda/task-manager/internal/service"
	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const serviceName = "task-manager"

type store interface {
	service.UserStore
	service.TaskStore
	api.Pinger
}

// @title Task Manager API
// @version 1.0.0
// @description Accounts, session tokens, avatars and per-user tasks.
// @schemes http https
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := applog.Init(cfg.LogProduction)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DDEnabled {
		tracer.Start(tracer.WithService(serviceName))
		defer tracer.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var st store
	switch cfg.Store {
	case "memory":
		logger.Warn("using in-memory store; data is lost on exit")
		st = memory.NewStore()
	default:
		ms, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Fatal("mongo connect", zap.Error(err))
		}
		defer ms.Close(context.Background())
		if err := ms.EnsureIndexes(ctx); err != nil {
			logger.Fatal("mongo indexes", zap.Error(err))
		}
		st = ms
	}

	var (
		signer security.Signer
		keys   *security.KeyManager
	)
	if cfg.UsesRSA() {
		keys, err = security.NewKeyManager(cfg.JWTKeyID, cfg.JWTPrivateKey, cfg.JWTNextKeyID, cfg.JWTNextPrivateKey)
		if err != nil {
			logger.Fatal("load signing keys", zap.Error(err))
		}
		signer = security.NewRSASigner(keys)
	} else {
		signer = security.NewHMACSigner(cfg.JWTSecret)
	}
	if cfg.TokenTTL <= 0 {
		logger.Info("session tokens do not expire; they stay valid until revoked")
	}

	var limiter api.Limiter = api.NewMemoryLimiter(cfg.RateLimitPerMin, time.Minute)
	if cfg.RedisAddr != "" {
		rds := repo.NewRedis(cfg.RedisAddr)
		defer rds.Close()
		if err := rds.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, rate limits are per process", zap.Error(err))
		} else {
			limiter = api.NewRedisLimiter(rds, cfg.RateLimitPerMin, time.Minute)
		}
	}

	var pub queue.Publisher
	if cfg.RabbitURL != "" {
		pub, err = queue.NewRabbit(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			logger.Fatal("rabbit publisher", zap.Error(err))
		}
	} else {
		pub = notify.InlinePublisher{Mailer: &notify.Mailer{
			Sender: mail.LogSender{Log: logger.Named("mail")},
			From:   cfg.MailFrom,
			Log:    logger,
		}}
	}
	defer pub.Close()

	dispatcher := notify.NewDispatcher(pub, cfg.RabbitExchange, logger.Named("notify"), 0)
	go func() {
		for err := range dispatcher.Errors() {
			logger.Warn("notification failed", zap.Error(err))
		}
	}()

	tokens := service.NewTokens(st, signer, cfg.TokenTTL, logger.Named("tokens"))
	tasks := service.NewTasks(st)
	accounts := service.NewAccounts(service.AccountsDeps{
		Users:    st,
		Tasks:    tasks,
		Tokens:   tokens,
		Hasher:   security.NewHasher(cfg.BcryptCost),
		Avatars:  avatar.New(cfg.AvatarMaxBytes, cfg.AvatarSize),
		Notifier: dispatcher,
		Log:      logger.Named("accounts"),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.MustRegister(reg)

	docs.SwaggerInfo.BasePath = "/"
	gin.SetMode(cfg.GinMode)

	h := &api.Handler{
		Accounts:       accounts,
		Tokens:         tokens,
		Tasks:          tasks,
		Store:          st,
		Keys:           keys,
		AvatarMaxBytes: cfg.AvatarMaxBytes,
	}
	r := api.NewRouter(h, api.RouterOptions{
		Log:      logger,
		Limiter:  limiter,
		Gatherer: reg,
		Service:  serviceName,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe() }()
	logger.Info("task-manager listening", zap.String("port", cfg.Port), zap.String("store", cfg.Store))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	dispatcher.Close()
}
