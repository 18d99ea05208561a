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

// Package metrics 收集 gameshow 的 Prometheus 指標，使用獨立 registry 避免污染全域 DefaultRegisterer。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gameshow"

// Metrics 持有所有指標。nil *Metrics 的方法皆為 no-op，核心流程不必判斷是否啟用。
type Metrics struct {
	reg *prometheus.Registry

	spins        *prometheus.CounterVec
	busyRejected prometheus.Counter
	scoreOps     *prometheus.CounterVec
	segments     prometheus.Gauge
	simRounds    prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// New 建立 registry 並註冊所有指標（含 Go runtime 與 process collector）。
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		spins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wheel",
			Name:      "spins_total",
			Help:      "Completed wheel spins by landed action.",
		}, []string{"action"}),
		busyRejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wheel",
			Name:      "busy_rejections_total",
			Help:      "Spin requests rejected because the wheel was already spinning.",
		}),
		segments: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "wheel",
			Name:      "segments",
			Help:      "Current number of wheel segments.",
		}),
		simRounds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wheel",
			Name:      "simulated_spins_total",
			Help:      "Spins executed by simulations.",
		}),
		scoreOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "score",
			Name:      "operations_total",
			Help:      "Score mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry 回傳底層 registry（測試用 testutil 讀值）。
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler 回傳 /metrics 的 http.Handler。
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Spin(action string) {
	if m == nil {
		return
	}
	m.spins.WithLabelValues(action).Inc()
}

func (m *Metrics) BusyRejected() {
	if m == nil {
		return
	}
	m.busyRejected.Inc()
}

func (m *Metrics) Segments(n int) {
	if m == nil {
		return
	}
	m.segments.Set(float64(n))
}

func (m *Metrics) Simulated(rounds int) {
	if m == nil {
		return
	}
	m.simRounds.Add(float64(rounds))
}

// ScoreOp 記錄一次分數操作；err 非 nil 視為失敗。
func (m *Metrics) ScoreOp(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.scoreOps.WithLabelValues(op, outcome).Inc()
}

// ObserveHTTP 記錄一次 HTTP 請求。route 應為路由樣板（例如 /api/scores/{id}），避免 label 爆量。
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}
