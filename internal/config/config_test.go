package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MODE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PUBLIC_URL", "")
	t.Setenv("UPLOAD_URL_PREFIX", "")
	t.Setenv("TRANSLATE_API_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ModeOffline, cfg.Mode)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/uploads", cfg.UploadURLPrefix)
	assert.Equal(t, "https://libretranslate.com/translate", cfg.TranslateAPIURL)
	assert.True(t, cfg.EnableLocalAuth)
	assert.Equal(t, cfg.CORSOriginsOffline, cfg.CORSOrigins())
}

func TestYAMLFileUnderEnvironment(t *testing.T) {
	p := filepath.Join(t.TempDir(), "quiz.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
mode: online
db_driver: postgres
db_dsn: postgres://db/quiz
translate-timeout: 3s
translate_concurrency: 8
cors_origins_online:
  - https://quiz.example.org
  - https://embed.example.org
enable_local_auth: false
`), 0o644))

	t.Setenv("CONFIG_FILE", p)
	t.Setenv("MODE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "postgres://override/quiz")
	t.Setenv("TRANSLATE_TIMEOUT", "")
	t.Setenv("TRANSLATE_CONCURRENCY", "")
	t.Setenv("CORS_ORIGINS_ONLINE", "")
	t.Setenv("ENABLE_LOCAL_AUTH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ModeOnline, cfg.Mode)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://override/quiz", cfg.DBDSN)
	assert.Equal(t, 3*time.Second, cfg.TranslateTimeout)
	assert.Equal(t, 8, cfg.TranslateConcurrency)
	assert.Equal(t, []string{"https://quiz.example.org", "https://embed.example.org"}, cfg.CORSOrigins())
	assert.False(t, cfg.EnableLocalAuth)
}

func TestMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("DB_DRIVER", "")
	cfg, err := Load()
	assert.Error(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestListTrimsEmptyEntries(t *testing.T) {
	t.Setenv("CORS_ORIGINS_OFFLINE", " http://a , ,http://b,")
	assert.Equal(t, []string{"http://a", "http://b"}, source{}.list("CORS_ORIGINS_OFFLINE", ""))
}
