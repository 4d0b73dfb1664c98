package livereload

import (
	"bytes"
	"net/http"
	"path"
	"strings"
)

// Routes served next to the site.
const (
	EventsPath = "/__kiln/livereload"
	ScriptPath = "/__kiln/livereload.js"
)

// maxInjectSize bounds how much of a page is buffered; larger pages pass through untouched.
const maxInjectSize = 512 * 1024

// ScriptTag is inserted before the closing body tag of served pages.
const ScriptTag = `<script src="` + ScriptPath + `"></script>`

// Script is the browser client. It reloads the page when it sees a generation newer than
// the one it connected with, and reconnects after errors.
const Script = `(() => {
  if (window.__KILN_LR__) return;
  window.__KILN_LR__ = true;
  let current = null;
  function connect() {
    const es = new EventSource('` + EventsPath + `');
    es.onmessage = (e) => {
      try {
        const msg = JSON.parse(e.data);
        if (current === null) { current = msg.generation; return; }
        if (msg.generation > current) { location.reload(); }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 1000); };
  }
  connect();
})();
`

// ServeScript writes the browser client.
func ServeScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(Script))
}

// Inject wraps next so HTML pages carry the live reload client.
func Inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isPageRequest(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		iw := &injector{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(iw, r)
		iw.finish()
	})
}

func isPageRequest(p string) bool {
	return p == "" || strings.HasSuffix(p, "/") || path.Ext(p) == ".html"
}

// injector buffers an HTML response so the script tag can be spliced in.
// Non-HTML and oversized responses switch to passthrough.
type injector struct {
	http.ResponseWriter
	status      int
	buf         bytes.Buffer
	buffering   bool
	passthrough bool
}

func (i *injector) WriteHeader(code int) {
	i.status = code
	if i.passthrough {
		i.ResponseWriter.WriteHeader(code)
	}
}

func (i *injector) Write(data []byte) (int, error) {
	if !i.buffering && !i.passthrough {
		ct := i.Header().Get("Content-Type")
		if ct != "" && !strings.Contains(ct, "text/html") {
			i.startPassthrough()
		} else {
			i.buffering = true
		}
	}

	if i.passthrough {
		return i.ResponseWriter.Write(data)
	}

	if i.buf.Len()+len(data) > maxInjectSize {
		i.startPassthrough()
		if _, err := i.ResponseWriter.Write(i.buf.Bytes()); err != nil {
			return 0, err
		}
		i.buf.Reset()
		return i.ResponseWriter.Write(data)
	}

	return i.buf.Write(data)
}

func (i *injector) startPassthrough() {
	i.passthrough = true
	i.buffering = false
	i.ResponseWriter.WriteHeader(i.status)
}

// finish writes the buffered page with the script tag inserted before the last </body>,
// or appended when the page has none.
func (i *injector) finish() {
	if i.passthrough {
		return
	}
	if !i.buffering {
		i.ResponseWriter.WriteHeader(i.status)
		return
	}

	page := i.buf.Bytes()
	out := make([]byte, 0, len(page)+len(ScriptTag))
	if idx := bytes.LastIndex(bytes.ToLower(page), []byte("</body>")); idx >= 0 {
		out = append(out, page[:idx]...)
		out = append(out, ScriptTag...)
		out = append(out, page[idx:]...)
	} else {
		out = append(out, page...)
		out = append(out, ScriptTag...)
	}

	i.Header().Del("Content-Length")
	i.ResponseWriter.WriteHeader(i.status)
	_, _ = i.ResponseWriter.Write(out)
}

// Flush lets streaming handlers behind the injector flush passthrough responses.
func (i *injector) Flush() {
	if f, ok := i.ResponseWriter.(http.Flusher); ok && i.passthrough {
		f.Flush()
	}
}
