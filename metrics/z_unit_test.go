// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Spin("challenge")
	m.Spin("challenge")
	m.Spin("swap")
	m.BusyRejected()
	m.ScoreOp("update", nil)
	m.ScoreOp("update", errors.New("bad index"))
	m.Segments(11)
	m.Simulated(500)

	if got := testutil.ToFloat64(m.spins.WithLabelValues("challenge")); got != 2 {
		t.Fatalf("challenge spins = %v", got)
	}
	if got := testutil.ToFloat64(m.busyRejected); got != 1 {
		t.Fatalf("busy = %v", got)
	}
	if got := testutil.ToFloat64(m.scoreOps.WithLabelValues("update", "error")); got != 1 {
		t.Fatalf("score errors = %v", got)
	}
	if got := testutil.ToFloat64(m.segments); got != 11 {
		t.Fatalf("segments = %v", got)
	}
	if got := testutil.ToFloat64(m.simRounds); got != 500 {
		t.Fatalf("sim rounds = %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodPost, "/api/wheel/spin", 200, 3*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`gameshow_http_requests_total{method="POST",route="/api/wheel/spin",status="200"} 1`,
		"gameshow_http_request_duration_seconds_bucket",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Spin("x")
	m.BusyRejected()
	m.ScoreOp("set", nil)
	m.Segments(3)
	m.Simulated(1)
	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	if m.Registry() != nil {
		t.Fatalf("nil metrics registry should be nil")
	}
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
