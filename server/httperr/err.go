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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/gameshow/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
// 規則（邊界層最小映射、可預期）：
//   - ctx timeout/cancel → 504/408（請求生命週期問題）
//   - errs.Warn         → 400（請求/參數問題）
//   - errs.NotFound     → 404（指定的玩家/格子不存在）
//   - errs.Conflict     → 409（與目前狀態衝突，例如轉盤正在轉動）
//   - errs.Fatal        → 500（系統/不可恢復問題）
//
// 注意：本函數屬於 HTTP 邊界層，因此放在 server/*（而不是 core errs）。
// 這樣可以避免讓核心錯誤包依賴 net/http 等傳輸層細節。
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout // 504
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout // 408
	}

	switch errs.Level(err) {
	case errs.Warn:
		return http.StatusBadRequest // 400
	case errs.NotFound:
		return http.StatusNotFound // 404
	case errs.Conflict:
		return http.StatusConflict // 409
	default:
		return http.StatusInternalServerError
	}
}

// Body 是錯誤回應的 JSON 格式。
type Body struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Level   string `json:"level,omitempty"`
}

// Errs 寫回 {"success": false, "error": ...}。
// 5xx 不外洩內部細節，只回傳狀態文字。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	body := Body{Error: message(err), Level: errs.ErrLv(errs.Level(err))}
	if status >= 500 {
		body.Error = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Respond 先依狀態碼記錄 log，再寫回錯誤。
func Respond(w http.ResponseWriter, log *slog.Logger, msg string, err error) {
	Log(log, msg, err)
	Errs(w, err)
}

func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	if (status == 408) || (status == 409) || (status == 429) {
		log.Warn(msg, slog.Int("status", status), slog.Any("err", err))
	} else if (status >= 500) && (status < 600) {
		log.Error(msg, slog.Int("status", status), slog.Any("err", err))
	}
}

// message 取最外層 *errs.E 的主訊息與附加資訊，避免把整條 cause chain 回給用戶端。
func message(err error) string {
	e, ok := errs.AsErr(err)
	if !ok {
		return err.Error()
	}
	if e.Extra != "" {
		return e.Message + ": " + e.Extra
	}
	return e.Message
}
