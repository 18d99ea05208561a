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

// Package perf 在一段工作前後寫出 pprof 檔，供 `gameshow sim --pprof` 分析模擬熱點。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/gameshow/errs"
)

// DefaultDir pprof 檔案預設寫入路徑
const DefaultDir = "build/profiling"

var ErrUnknownMode = errs.NewWarn("unknown pprof mode")

// Run 依 mode 執行 exe 並寫出對應 profile，回傳檔案路徑（mode 為空時回傳空字串）。
// exe 的錯誤優先回傳；exe 失敗時不寫 heap / allocs 快照。
func Run(dir, mode string, exe func() error) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	switch mode {
	case "":
		return "", exe()
	case "cpu":
		return cpu(dir, exe)
	case "heap":
		return snapshot(dir, "heap", exe)
	case "allocs":
		return snapshot(dir, "allocs", exe)
	}
	return "", ErrUnknownMode.WithExtra(mode)
}

// cpu 全程 CPU profiling；輸出也可直接當作 PGO 的 default.pgo。
func cpu(dir string, exe func() error) (string, error) {
	path, f, err := create(dir, "cpu")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return "", errs.Wrap(err, "start cpu profile")
	}
	err = exe()
	pprof.StopCPUProfile()
	if err != nil {
		return "", err
	}
	return path, nil
}

// snapshot 在 exe 結束後寫一次 heap（in-use）或 allocs（累積配置）快照。
func snapshot(dir, name string, exe func() error) (string, error) {
	if err := exe(); err != nil {
		return "", err
	}
	if name == "heap" {
		// 讓快照貼近 live objects
		runtime.GC()
	}
	path, f, err := create(dir, name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	prof := pprof.Lookup(name)
	if prof == nil {
		return "", errs.Fatalf("pprof profile %q not found", name)
	}
	if err := prof.WriteTo(f, 0); err != nil {
		return "", errs.Wrap(err, "write "+name+" profile")
	}
	return path, nil
}

func create(dir, name string) (string, *os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, errs.Wrap(err, "create pprof dir")
	}
	path := filepath.Join(dir, name+".pprof")
	f, err := os.Create(path)
	if err != nil {
		return "", nil, errs.Wrap(err, "create "+path)
	}
	return path, f, nil
}
