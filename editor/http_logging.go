// ABOUTME: Request log middleware tagging each line with the session, route, and region it touched.
// ABOUTME: Uses the editor's log.Printf key=value style so request lines join up with session logs.
package editor

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// statusRecorder captures what a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// requestLogger logs one line per request. Static asset hits that succeed
// are not logged.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		if status < 400 && strings.HasPrefix(r.URL.Path, "/static/") {
			return
		}
		log.Print(requestLogLine(r, status, rec.bytes, time.Since(start)))
	})
}

// requestLogLine formats the fields of one request. The route pattern and
// session id come from chi's routing context, which is filled in once the
// request has been routed.
func requestLogLine(r *http.Request, status, bytes int, elapsed time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "editor request method=%s path=%s", r.Method, r.URL.Path)
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			fmt.Fprintf(&b, " route=%s", pattern)
		}
		if id := rctx.URLParam("id"); id != "" {
			fmt.Fprintf(&b, " session=%s", id)
		}
		if cmd := rctx.URLParam("command"); cmd != "" {
			fmt.Fprintf(&b, " command=%s", cmd)
		}
	}
	if key := r.URL.Query().Get("key"); key != "" {
		fmt.Fprintf(&b, " region=%s", key)
	}
	fmt.Fprintf(&b, " status=%d bytes=%d duration=%s", status, bytes, elapsed.Round(time.Microsecond))
	if id := middleware.GetReqID(r.Context()); id != "" {
		fmt.Fprintf(&b, " request_id=%s", id)
	}
	return b.String()
}
