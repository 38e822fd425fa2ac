package shared

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

// devSecret signs tokens outside production when JWT_SECRET is unset.
const devSecret = "lion-estate-insecure-dev-secret"

type Config struct {
	AppEnv        string        `env:"APP_ENV" envDefault:"prod"`
	HTTPAddr      string        `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr   string        `env:"METRICS_ADDR"`
	MySQLDSN      string        `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/lion?parseTime=true&charset=utf8mb4&loc=UTC"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisPass     string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"15m"`
	JWTSecret     string        `env:"JWT_SECRET"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"12"`
	DefaultLocale string        `env:"DEFAULT_LOCALE" envDefault:"en"`

	UploadDir       string `env:"UPLOAD_DIR" envDefault:"public/uploads/properties"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION" envDefault:"eu-west-1"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`

	CORSOrigins     []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	LoginRatePerSec float64  `env:"LOGIN_RATE_PER_SEC" envDefault:"1"`
	LoginBurst      int      `env:"LOGIN_BURST" envDefault:"10"`
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.S3Bucket != "" && c.S3PublicBaseURL == "" {
		c.S3PublicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.S3Bucket, c.S3Region)
	}
	return c, nil
}

func (c Config) IsProd() bool { return c.AppEnv == "prod" || c.AppEnv == "production" }

// SigningKey returns the token secret. Production refuses to start without
// one; other environments fall back to a fixed development key.
func (c Config) SigningKey() ([]byte, error) {
	if c.JWTSecret != "" {
		return []byte(c.JWTSecret), nil
	}
	if c.IsProd() {
		return nil, errors.New("JWT_SECRET must be set in production")
	}
	log.Warn().Msg("JWT_SECRET is empty; using insecure development key")
	return []byte(devSecret), nil
}
