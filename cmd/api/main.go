package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	server "lion_estate/internal/adapters/http_server"
	"lion_estate/internal/adapters/observability"
	redisad "lion_estate/internal/adapters/redis"
	"lion_estate/internal/adapters/uploads"
	"lion_estate/internal/app"
	"lion_estate/internal/auth"
	"lion_estate/internal/domain"
	"lion_estate/internal/shared"
	mysqlrepo "lion_estate/internal/storage/mysql"
)

func main() {
	cfg, err := shared.Load()
	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("api stopped")
	}
	log.Info().Msg("api shut down cleanly")
}

func run(ctx context.Context, cfg shared.Config) error {
	key, err := cfg.SigningKey()
	if err != nil {
		return err
	}

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db.Ping: %w", err)
	}
	log.Info().Msg("database connection ok")
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		return err
	}

	// deps
	repo := mysqlrepo.New(db)

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; reads fall through to MySQL until it recovers")
		}
		cache = rc
	} else {
		log.Info().Msg("REDIS_ADDR empty; read cache disabled")
	}

	tokens, err := auth.NewTokenIssuer(key)
	if err != nil {
		return err
	}
	authSvc, err := app.NewAuthService(repo, tokens, cfg.BcryptCost)
	if err != nil {
		return err
	}
	props := app.NewPropertyService(repo, cache, cfg.CacheTTL, cfg.DefaultLocale)

	h := &server.Handlers{
		Properties:    props,
		Auth:          authSvc,
		Tokens:        tokens,
		LoginLimiter:  rate.NewLimiter(rate.Limit(cfg.LoginRatePerSec), cfg.LoginBurst),
		SecureCookies: cfg.IsProd(),
	}
	if cfg.S3Bucket != "" {
		h.Images, err = uploads.NewS3Store(ctx, uploads.S3Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
		})
		if err != nil {
			return err
		}
		log.Info().Str("bucket", cfg.S3Bucket).Msg("image uploads go to S3")
	} else {
		disk, err := uploads.NewDiskStore(cfg.UploadDir)
		if err != nil {
			return err
		}
		h.Images = disk
		h.UploadDir = disk.Dir()
		log.Info().Str("dir", disk.Dir()).Msg("image uploads go to local disk")
	}

	// http
	srv := server.New(cfg.CORSOrigins)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	servers := []*http.Server{httpSrv}
	if cfg.MetricsAddr != "" {
		servers = append(servers, observability.NewMetricsServer(cfg.MetricsAddr, reg))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		g.Go(func() error {
			log.Info().Str("addr", s.Addr).Msg("listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", s.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var errs []error
		for _, s := range servers {
			errs = append(errs, s.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}
