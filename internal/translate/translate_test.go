package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiz-tool/quiz-tool/internal/i18n"
)

func TestTranslateSendsLibreTranslateRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Is this a scam?", req.Q)
		assert.Equal(t, "en", req.Source)
		assert.Equal(t, "de", req.Target)
		assert.Equal(t, "text", req.Format)
		assert.Equal(t, "k1", req.APIKey)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"translatedText": "Ist das Betrug?"})
	}))
	defer srv.Close()

	tr := NewLibreTranslate(srv.URL, WithAPIKey("k1"))
	got, err := tr.Translate(context.Background(), "Is this a scam?", i18n.German)
	require.NoError(t, err)
	assert.Equal(t, "Ist das Betrug?", got)
}

func TestTranslateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "slow down"})
	}))
	defer srv.Close()

	_, err := NewLibreTranslate(srv.URL).Translate(context.Background(), "hello", i18n.French)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slow down")
}

func TestTranslateSkipsCanonicalAndBlank(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()
	tr := NewLibreTranslate(srv.URL)

	got, err := tr.Translate(context.Background(), "hello", i18n.English)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	got, err = tr.Translate(context.Background(), "  ", i18n.German)
	require.NoError(t, err)
	assert.Equal(t, "  ", got)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestTranslateUnsupportedLanguage(t *testing.T) {
	_, err := NewLibreTranslate("http://127.0.0.1:0").Translate(context.Background(), "hello", i18n.Language("es"))
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}
