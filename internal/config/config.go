package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode           Mode
	AdminHTTPAddr  string
	PlayerHTTPAddr string
	PublicURL      string

	DBDriver string
	DBDSN    string

	BlobBasePath        string
	UploadURLPrefix     string
	UploadMaxBytes      int64
	UploadSweepSchedule string // cron spec, "off" disables the sweep
	UploadSweepGrace    time.Duration

	EnableLocalAuth bool
	AuthHMACSecret  string
	AdminUser       string
	AdminPassHash   string // bcrypt
	EditorUser      string
	EditorPassHash  string // bcrypt, empty disables the editor account

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	TranslateAPIURL      string
	TranslateAPIKey      string
	TranslateTimeout     time.Duration
	TranslateConcurrency int

	PlayerAPIURL string // used by quiz-cli
}

// CORSOrigins picks the origin list for the current mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

// FromEnv is Load with errors logged instead of returned.
func FromEnv() Config {
	cfg, err := Load()
	if err != nil {
		log.Printf("config: %v (continuing with environment only)", err)
	}
	return cfg
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE (if
// set), then the process environment. Environment variables win over the
// file; the file wins over built-in defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	src := source{}
	var loadErr error
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		file, err := readYAML(p)
		if err != nil {
			loadErr = err
		} else {
			src.file = file
		}
	}
	return src.build(), loadErr
}

func (src source) build() Config {
	mode := Mode(src.or("MODE", string(ModeOffline)))
	pub := strings.TrimSuffix(src.or("PUBLIC_URL", ""), "/")
	return Config{
		Mode:           mode,
		AdminHTTPAddr:  src.or("ADMIN_HTTP_ADDR", ":8080"),
		PlayerHTTPAddr: src.or("PLAYER_HTTP_ADDR", ":8081"),
		PublicURL:      pub,

		DBDriver: src.or("DB_DRIVER", "sqlite"),
		DBDSN:    src.or("DB_DSN", ""),

		BlobBasePath:        src.or("BLOB_BASE_PATH", "./data"),
		UploadURLPrefix:     src.or("UPLOAD_URL_PREFIX", pub+"/uploads"),
		UploadMaxBytes:      int64(src.num("UPLOAD_MAX_BYTES", 5<<20)),
		UploadSweepSchedule: src.or("UPLOAD_SWEEP_SCHEDULE", "@daily"),
		UploadSweepGrace:    src.dur("UPLOAD_SWEEP_GRACE", 24*time.Hour),

		EnableLocalAuth: src.flag("ENABLE_LOCAL_AUTH", true),
		AuthHMACSecret:  src.or("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:       src.or("ADMIN_USER", "admin"),
		AdminPassHash:   src.or("ADMIN_PASS_HASH", ""),
		EditorUser:      src.or("EDITOR_USER", "editor"),
		EditorPassHash:  src.or("EDITOR_PASS_HASH", ""),

		CORSOriginsOnline:  src.list("CORS_ORIGINS_ONLINE", "*"),
		CORSOriginsOffline: src.list("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:3001"),

		TranslateAPIURL:      src.or("TRANSLATE_API_URL", "https://libretranslate.com/translate"),
		TranslateAPIKey:      src.or("TRANSLATE_API_KEY", ""),
		TranslateTimeout:     src.dur("TRANSLATE_TIMEOUT", 15*time.Second),
		TranslateConcurrency: src.num("TRANSLATE_CONCURRENCY", 4),

		PlayerAPIURL: src.or("PLAYER_API_URL", "http://localhost:8081"),
	}
}

// source looks a key up in the environment first, then in the config file.
type source struct {
	file map[string]string
}

func (s source) lookup(k string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return s.file[k]
}

func (s source) or(k, def string) string {
	if v := s.lookup(k); v != "" {
		return v
	}
	return def
}

func (s source) flag(k string, def bool) bool {
	switch s.lookup(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func (s source) num(k string, def int) int {
	if n, err := strconv.Atoi(s.lookup(k)); err == nil {
		return n
	}
	return def
}

func (s source) dur(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s.lookup(k)); err == nil {
		return d
	}
	return def
}

func (s source) list(k, def string) []string {
	parts := strings.Split(s.or(k, def), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// readYAML flattens a YAML mapping into env-style keys: db_driver and
// DB_DRIVER are the same setting. Lists are joined with commas.
func readYAML(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make(map[string]string, len(doc))
	for k, v := range doc {
		key := strings.ToUpper(strings.ReplaceAll(k, "-", "_"))
		switch val := v.(type) {
		case nil:
		case []any:
			items := make([]string, 0, len(val))
			for _, it := range val {
				items = append(items, fmt.Sprint(it))
			}
			out[key] = strings.Join(items, ",")
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return out, nil
}
