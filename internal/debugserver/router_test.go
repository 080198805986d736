package debugserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kickstream/ringbuf"
	"github.com/kickstream/ringbuf/internal/debugserver"
	"github.com/kickstream/ringbuf/ringbufmetrics"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	rb := ringbuf.New[int](4)
	rawP, rawC := rb.Split()
	producer := ringbufmetrics.WrapProducer("router-test", rawP)
	consumer := ringbufmetrics.WrapConsumer("router-test", rawC)

	return debugserver.NewRouter(debugserver.RouterConfig{
		Producer:        producer,
		Consumer:        consumer,
		RateLimitConfig: &debugserver.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		DisableLogging:  true,
	})
}

func TestGetStatsReturnsProducerAndConsumerSnapshots(t *testing.T) {
	router := newTestRouter(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatalf("GET /api/stats: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Producer ringbufmetrics.ProducerStats `json:"producer"`
		Consumer ringbufmetrics.ConsumerStats `json:"consumer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Producer.Capacity != 4 || body.Consumer.Capacity != 4 {
		t.Fatalf("capacity = %d/%d, want 4/4", body.Producer.Capacity, body.Consumer.Capacity)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
