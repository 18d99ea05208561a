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

package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/zintix-labs/gameshow/errs"
)

// maxBodyBytes 單一請求 body 上限；所有 API 的 payload 都是小型 JSON。
const maxBodyBytes = 64 << 10

// decodeJSON 解析請求 body。空 body 視為 {}，其他格式錯誤回 Warn（400）。
func decodeJSON(w http.ResponseWriter, q *http.Request, dst any) error {
	q.Body = http.MaxBytesReader(w, q.Body, maxBodyBytes)
	if err := json.NewDecoder(q.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.NewWarn("request body too large")
		}
		return errs.NewWithExtra(errs.Warn, "invalid json", err.Error())
	}
	return nil
}

// writeJSON 先編碼到記憶體再寫出，避免寫到一半才發生錯誤。
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

// intParam 讀取整數路徑參數。
func intParam(q *http.Request, name string) (int, error) {
	s := chi.URLParam(q, name)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.NewWithExtra(errs.Warn, name+" must be integer", s)
	}
	return v, nil
}
