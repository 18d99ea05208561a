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

package score

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/zintix-labs/gameshow/errs"
)

// Store 是分數表的持久化介面。
//
// Load 在檔案不存在時回傳 (nil, nil)，代表「沒有可載入的資料」而不是錯誤。
type Store interface {
	Load() (map[string]int, error)
	Save(scores map[string]int) error
}

// FileStore 以縮排 JSON（name -> score）保存分數表。
//
// 寫入先落到同目錄的暫存檔再 rename 覆蓋，避免寫到一半留下截斷的檔案。
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load() (map[string]int, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errs.Wrap(err, "read score file")
	}
	scores := make(map[string]int)
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, errs.Wrap(err, "parse score file")
	}
	return scores, nil
}

func (f *FileStore) Save(scores map[string]int) error {
	data, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return errs.Wrap(err, "encode scores")
	}
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return errs.Wrap(err, "create temp score file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errs.Wrap(err, "write temp score file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errs.Wrap(err, "close temp score file")
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return errs.Wrap(err, "replace score file")
	}
	return nil
}
