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

package netsvr

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChiAdapterRoutesAndGroups(t *testing.T) {
	c := NewChiServer("")
	if c.Address() != DefaultAddr {
		t.Fatalf("addr=%q", c.Address())
	}
	if !c.Ready() {
		t.Fatal("adapter should be ready")
	}
	c.Group("/api", func(r NetRouter) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "pong")
		})
		r.Method(http.MethodPost, "/echo", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(w, r.Body)
		}))
	})

	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("ping: %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/echo", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /api/echo: %d", rec.Code)
	}
}

func TestChiAdapterReady(t *testing.T) {
	if (*ChiAdapter)(nil).Ready() {
		t.Fatal("nil adapter reported ready")
	}
	if NewChiServer("not-an-addr").Ready() {
		t.Fatal("bad addr reported ready")
	}
	if !NewChiServer("127.0.0.1:0").Ready() {
		t.Fatal("host:port should be ready")
	}
}
