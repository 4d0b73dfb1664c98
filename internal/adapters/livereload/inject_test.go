package livereload_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/livereload"
)

func get(t *testing.T, h http.Handler, target string) *http.Response {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec.Result()
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestInject_HTML(t *testing.T) {
	h := livereload.Inject(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Length", "40")
		_, _ = io.WriteString(w, "<html><body><h1>Account</h1></BODY></html>")
	}))

	resp := get(t, h, "/account.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Content-Length"))
	assert.Equal(t,
		"<html><body><h1>Account</h1>"+livereload.ScriptTag+"</BODY></html>",
		body(t, resp))
}

func TestInject_NoBodyTag(t *testing.T) {
	h := livereload.Inject(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<p>fragment</p>")
	}))

	assert.Equal(t, "<p>fragment</p>"+livereload.ScriptTag, body(t, get(t, h, "/")))
}

func TestInject_SkipsAssets(t *testing.T) {
	const css = "body{color:red}"
	h := livereload.Inject(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		_, _ = io.WriteString(w, css)
	}))

	assert.Equal(t, css, body(t, get(t, h, "/css/styles.min.css")))
	assert.Equal(t, css, body(t, get(t, h, "/")), "non-HTML content type passes through")
}

func TestInject_StatusPreserved(t *testing.T) {
	h := livereload.Inject(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "<body>missing</body>")
	}))

	resp := get(t, h, "/missing.html")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body(t, resp), livereload.ScriptTag)
}

func TestInject_OversizedPassthrough(t *testing.T) {
	page := "<body>" + strings.Repeat("a", 600*1024) + "</body>"
	h := livereload.Inject(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		for chunk := range slices(page, 32*1024) {
			_, _ = io.WriteString(w, chunk)
		}
	}))

	assert.Equal(t, page, body(t, get(t, h, "/big.html")))
}

func slices(s string, n int) func(func(string) bool) {
	return func(yield func(string) bool) {
		for len(s) > 0 {
			k := min(n, len(s))
			if !yield(s[:k]) {
				return
			}
			s = s[k:]
		}
	}
}

func TestInject_FileServer(t *testing.T) {
	dist := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dist, "index.html"), []byte("<html><body>home</body></html>"), 0o600))

	h := livereload.Inject(http.FileServer(http.Dir(dist)))
	assert.Equal(t, "<html><body>home"+livereload.ScriptTag+"</body></html>", body(t, get(t, h, "/")))
}

func TestServeScript(t *testing.T) {
	resp := get(t, http.HandlerFunc(livereload.ServeScript), livereload.ScriptPath)
	assert.Equal(t, "application/javascript; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, body(t, resp), livereload.EventsPath)
}
