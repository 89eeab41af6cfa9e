package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPProber_Probe(t *testing.T) {
	var (
		mu        sync.Mutex
		userAgent string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		userAgent = r.Header.Get("User-Agent")
		mu.Unlock()
		switch r.URL.Path {
		case "/cover.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		case "/get-only.png":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.Header().Set("Content-Type", "image/png")
		case "/slow.jpg":
			time.Sleep(200 * time.Millisecond)
			w.Header().Set("Content-Type", "image/jpeg")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	prober := NewHTTPProber(100*time.Millisecond, "test-agent")
	ctx := context.Background()

	assert.NoError(t, prober.Probe(ctx, server.URL+"/cover.jpg"))
	mu.Lock()
	assert.Equal(t, "test-agent", userAgent)
	mu.Unlock()
	assert.NoError(t, prober.Probe(ctx, server.URL+"/get-only.png"))
	assert.Error(t, prober.Probe(ctx, server.URL+"/page"))
	assert.Error(t, prober.Probe(ctx, server.URL+"/missing.jpg"))
	assert.Error(t, prober.Probe(ctx, server.URL+"/slow.jpg"))
	assert.Error(t, prober.Probe(ctx, "http://127.0.0.1:1/unreachable.jpg"))
}
