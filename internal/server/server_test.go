package server

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/tagforge/internal/config"
	"github.com/conneroisu/tagforge/internal/logging"
)

func newTestServer(t *testing.T, contents string) *PreviewServer {
	t.Helper()

	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg := &config.Config{}
	cfg.Server.Port = 8120
	cfg.Server.Host = "localhost"
	logger := logging.NewLogger(&logging.Config{Level: logging.LevelError, Output: os.Stderr})

	s := New(cfg, logger, path)
	s.Reload(context.Background())

	return s
}

func TestIndexShowsFormattedDocument(t *testing.T) {
	s := newTestServer(t, "<div  class='a'>hello</div>")

	rec := httptest.NewRecorder()
	s.handleIndex(rec, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "well formed, 2 tags")
	// The formatted source appears escaped inside the <pre> block.
	assert.Contains(t, body, "&lt;div class=&#34;a&#34;&gt;hello&lt;/div&gt;")
}

func TestIndexShowsValidationFailure(t *testing.T) {
	s := newTestServer(t, "<div>never closed")

	rec := httptest.NewRecorder()
	s.handleIndex(rec, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "never closed")
	assert.Contains(t, rec.Body.String(), `class="err"`)
}

func TestIndexRejectsOtherPaths(t *testing.T) {
	s := newTestServer(t, "<br/>")

	rec := httptest.NewRecorder()
	s.handleIndex(rec, httptest.NewRequest("GET", "/other", nil))

	assert.Equal(t, 404, rec.Code)
}

func TestReloadPicksUpChanges(t *testing.T) {
	s := newTestServer(t, "<div>x</div>")

	require.NoError(t, os.WriteFile(s.path, []byte("<span>y</span><br/>"), 0644))
	s.Reload(context.Background())

	rec := httptest.NewRecorder()
	s.handleIndex(rec, httptest.NewRequest("GET", "/", nil))
	assert.Contains(t, rec.Body.String(), "well formed, 3 tags")
}

func TestHubStartsEmpty(t *testing.T) {
	s := newTestServer(t, "<br/>")

	assert.Equal(t, 0, s.hub.clientCount())
	// Broadcasting with no clients is a no-op.
	s.hub.broadcast(context.Background(), "reload")
}
