package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DB struct {
	Host    string
	Port    int
	User    string
	Pass    string
	Name    string
	SSLMode string
}

// DSN is the key/value form used by the pgx stdlib driver.
func (d DB) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Pass, d.Name, d.SSLMode)
}

// MigrateURL is the URL form understood by the pgx5 migrate driver.
func (d DB) MigrateURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Pass, d.Host, d.Port, d.Name, d.SSLMode)
}

type MQ struct {
	Host  string
	Port  int
	User  string
	Pass  string
	VHost string
}

// Enabled reports whether a broker is configured.
func (m MQ) Enabled() bool { return m.Host != "" }

type HTTP struct {
	Port           int
	RequestTimeout time.Duration
	CORSOrigin     string
}

type Uploads struct {
	Dir      string
	MaxBytes int64
}

type App struct {
	Database DB
	Rabbit   MQ
	HTTP     HTTP
	Uploads  Uploads
	LogLevel string
}

// Load reads settings from the environment, falling back to the dotenv file
// at path (if any) and then to defaults.
func Load(path string) (App, error) {
	file := map[string]string{}
	if path != "" {
		m, err := godotenv.Read(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return App{}, fmt.Errorf("read %s: %w", path, err)
		}
		if m != nil {
			file = m
		}
	}
	get := func(key, def string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		if v, ok := file[key]; ok && v != "" {
			return v
		}
		return def
	}

	a := App{
		Database: DB{
			Host:    get("DB_HOST", "localhost"),
			Port:    atoiSafe(get("DB_PORT", "5432"), 5432),
			User:    get("DB_USER", ""),
			Pass:    get("DB_PASSWORD", ""),
			Name:    get("DB_NAME", ""),
			SSLMode: get("DB_SSLMODE", "disable"),
		},
		Rabbit: MQ{
			Host:  get("RABBITMQ_HOST", ""),
			Port:  atoiSafe(get("RABBITMQ_PORT", "5672"), 5672),
			User:  get("RABBITMQ_USER", "guest"),
			Pass:  get("RABBITMQ_PASSWORD", "guest"),
			VHost: get("RABBITMQ_VHOST", "/"),
		},
		HTTP: HTTP{
			Port:           atoiSafe(get("HTTP_PORT", "5000"), 5000),
			RequestTimeout: durationSafe(get("REQUEST_TIMEOUT", "30s"), 30*time.Second),
			CORSOrigin:     get("CORS_ORIGIN", "*"),
		},
		Uploads: Uploads{
			Dir:      get("UPLOAD_DIR", "uploads"),
			MaxBytes: int64(atoiSafe(get("UPLOAD_MAX_BYTES", "10485760"), 10<<20)),
		},
		LogLevel: strings.ToLower(get("LOG_LEVEL", "info")),
	}

	if a.Database.User == "" || a.Database.Name == "" {
		return App{}, errors.New("invalid config: DB_USER and DB_NAME are required")
	}
	return a, nil
}

func atoiSafe(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func durationSafe(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// FindConfig returns the first dotenv candidate that exists.
func FindConfig() (string, error) {
	candidates := []string{".env", "deploy/.env.example"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
