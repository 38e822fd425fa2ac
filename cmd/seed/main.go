// Command seed creates the initial admin account and can bulk-import a
// property catalogue from a JSON file or URL.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"lion_estate/internal/adapters/feed"
	"lion_estate/internal/adapters/observability"
	"lion_estate/internal/app"
	"lion_estate/internal/domain"
	"lion_estate/internal/shared"
	mysqlrepo "lion_estate/internal/storage/mysql"
)

const devPassword = "admin123"

func main() {
	email := flag.String("email", "admin@propertyicon.com", "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (default $ADMIN_PASSWORD)")
	name := flag.String("name", "Admin User", "admin display name")
	skipAdmin := flag.Bool("skip-admin", false, "do not create the admin account")
	catalogue := flag.String("properties", "", "JSON array of property documents to import (file path or http(s) URL)")
	feedToken := flag.String("feed-token", os.Getenv("FEED_TOKEN"), "bearer token for a URL catalogue")
	workers := flag.Int("workers", 4, "concurrent property imports")
	flag.Parse()

	cfg, err := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}
	repo := mysqlrepo.New(db)

	if !*skipAdmin {
		pw, err := adminPassword(*password, cfg.IsProd())
		if err != nil {
			log.Fatal().Err(err).Msg("admin password")
		}
		if err := seedAdmin(ctx, repo, cfg.BcryptCost, *email, pw, *name); err != nil {
			log.Fatal().Err(err).Msg("seed admin failed")
		}
	}

	if *catalogue != "" {
		items, err := loadCatalogue(ctx, *catalogue, *feedToken)
		if err != nil {
			log.Fatal().Err(err).Str("source", *catalogue).Msg("load catalogue failed")
		}
		// no cache here: the API's entries expire on their own TTL
		props := app.NewPropertyService(repo, nil, cfg.CacheTTL, cfg.DefaultLocale)
		res, err := props.Import(ctx, items, *workers)
		if err != nil {
			log.Fatal().Err(err).Msg("import aborted")
		}
		log.Info().Int("created", res.Created).Int("updated", res.Updated).Int("failed", res.Failed).Msg("catalogue imported")
		if res.Failed > 0 {
			os.Exit(1)
		}
	}
}

// adminPassword falls back to devPassword outside production. The password
// itself is never logged.
func adminPassword(pw string, prod bool) (string, error) {
	if pw != "" {
		return pw, nil
	}
	if prod {
		return "", errors.New("-password or ADMIN_PASSWORD is required in production")
	}
	log.Warn().Msg("no admin password given; using the development default, change it after first login")
	return devPassword, nil
}

func seedAdmin(ctx context.Context, repo *mysqlrepo.Repo, cost int, email, password, name string) error {
	svc, err := app.NewAuthService(repo, nil, cost)
	if err != nil {
		return err
	}
	a, err := svc.CreateAdmin(ctx, email, password, name)
	if errors.Is(err, domain.ErrConflict) {
		log.Info().Str("email", strings.ToLower(email)).Msg("admin already exists; nothing to do")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str("email", a.Email).Str("id", a.ID).Msg("admin user created")
	return nil
}

func loadCatalogue(ctx context.Context, src, token string) ([]app.PropertyInput, error) {
	var items []app.PropertyInput
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		if err := feed.New(token, 2).GetJSON(ctx, src, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	return items, nil
}
