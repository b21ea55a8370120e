package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mrexox/godsync/internal/delta"
)

func TestRecorderExposesMetricsOverHTTP(t *testing.T) {
	rec := NewRecorder()
	rec.ObserveSignatureBuild(5 * time.Millisecond)
	rec.ObservePlan(delta.Stats{ChunksTotal: 4, ChunksCopied: 3, ChunksInserted: 1, BytesCopied: 300, BytesInserted: 100})
	rec.ObserveApply(2*time.Millisecond, "local", nil)
	rec.ObserveRangeFetch("http", 10*time.Millisecond)

	srv := httptest.NewServer(NewServeMux(rec))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	var body strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		body.Write(buf[:n])
		if err != nil {
			break
		}
	}

	if !strings.Contains(body.String(), "godsync_signatures_built_total 1") {
		t.Fatalf("expected signatures_built_total in output:\n%s", body.String())
	}
	if !strings.Contains(body.String(), "godsync_dedup_ratio_percent") {
		t.Fatalf("expected dedup_ratio_percent in output:\n%s", body.String())
	}
}

func TestHealthzReportsOK(t *testing.T) {
	rec := NewRecorder()
	srv := httptest.NewServer(NewServeMux(rec))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
}
