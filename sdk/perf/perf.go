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

// Package perf 以 runtime/pprof 包住一段工作，供 CLI 的 -p 旗標使用。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/huntlab/errs"
)

// DefaultDir profile 檔的預設輸出目錄。
const DefaultDir = "build/profiling"

// Mode
//   - ""     不做 profiling
//   - cpu    整段工作的 CPU profile（也可作為 PGO 輸入）
//   - heap   工作結束後的 in-use heap 快照（先 GC）
//   - allocs 工作結束後的累積配置
type Mode string

const (
	None   Mode = ""
	CPU    Mode = "cpu"
	Heap   Mode = "heap"
	Allocs Mode = "allocs"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case None, CPU, Heap, Allocs:
		return m, nil
	default:
		return None, errs.NewWarn("unknown pprof mode: " + s)
	}
}

// Run 在 mode 指定的 profiling 下執行 exe，回傳 profile 檔路徑（None 時為空字串）。
// exe 的錯誤優先回傳；profile 寫入失敗為 Fatal。
func Run(mode Mode, dir string, exe func() error) (string, error) {
	if mode == None {
		return "", exe()
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return "", err
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(err, "create profiling dir")
	}
	path := filepath.Join(dir, string(mode)+".pprof")
	f, err := os.Create(path)
	if err != nil {
		return "", errs.Wrap(err, "create "+path)
	}
	defer f.Close()

	if mode == CPU {
		if err := pprof.StartCPUProfile(f); err != nil {
			return "", errs.Wrap(err, "start cpu profile")
		}
		err := exe()
		pprof.StopCPUProfile()
		return path, err
	}

	if err := exe(); err != nil {
		return path, err
	}
	if mode == Heap {
		runtime.GC()
	}
	if err := pprof.Lookup(string(mode)).WriteTo(f, 0); err != nil {
		return path, errs.Wrap(err, "write "+string(mode)+" profile")
	}
	return path, nil
}
