package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(RPCRequests.WithLabelValues("/wesplit.v1.GroupService/GetGroup", "ok"))
	RPCRequests.WithLabelValues("/wesplit.v1.GroupService/GetGroup", "ok").Inc()
	after := testutil.ToFloat64(RPCRequests.WithLabelValues("/wesplit.v1.GroupService/GetGroup", "ok"))
	if after-before != 1 {
		t.Errorf("counter moved by %v, want 1", after-before)
	}

	InvalidBalances.Inc()
	if got := testutil.ToFloat64(InvalidBalances); got < 1 {
		t.Errorf("InvalidBalances = %v, want at least 1", got)
	}
}

func TestHandler(t *testing.T) {
	FxRefreshes.WithLabelValues("ok").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"wesplit_fx_refreshes_total", "go_goroutines"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("exposition is missing %s", name)
		}
	}
}
