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

package spec

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/gameshow/configs"
	"github.com/zintix-labs/gameshow/errs"
	"gopkg.in/yaml.v3"
)

// GetShowSettingByYAML
// 會讀取 YAML 設定、補預設值並執行基本檢查後回傳。
func GetShowSettingByYAML(data []byte) (*ShowSetting, error) {
	ss := &ShowSetting{}
	if err := yaml.Unmarshal(data, ss); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}
	if err := ss.init(); err != nil {
		return nil, errs.Wrap(err, "show setting initialized err")
	}
	return ss, nil
}

// GetShowSettingByJSON
// 會讀取 Json 設定、補預設值並執行基本檢查後回傳
func GetShowSettingByJSON(data []byte) (*ShowSetting, error) {
	ss := &ShowSetting{}
	if err := json.Unmarshal(data, ss); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}
	if err := ss.init(); err != nil {
		return nil, errs.Wrap(err, "show setting initialized err")
	}
	return ss, nil
}

// LoadFile 依副檔名（.json / .yaml / .yml）讀取設定檔。
func LoadFile(path string) (*ShowSetting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, "read config file")
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return GetShowSettingByJSON(data)
	}
	return GetShowSettingByYAML(data)
}

// LoadFS 從 fs.FS 讀取指定名稱的 YAML 設定。
func LoadFS(fsys fs.FS, name string) (*ShowSetting, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.Wrap(err, "read embedded config")
	}
	return GetShowSettingByYAML(data)
}

// Default 回傳內建設定（configs/default.yaml）。
func Default() (*ShowSetting, error) {
	return LoadFS(configs.FS, configs.DefaultName)
}
