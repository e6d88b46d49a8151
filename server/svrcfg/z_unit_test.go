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

package svrcfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/server/logger"
)

func TestParseFull(t *testing.T) {
	raw := []byte(`
addr: ":9000"
log_mode: prod
store_dir: ./data
compress: true
catalog_dir: ./catalog
currency: "$"
seed: 42
reveal:
  tick: 50ms
  duration: 1s
  settle: 200ms
`)
	f, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Addr != ":9000" || !f.Compress || f.StoreDir != "./data" || f.Currency != "$" || f.Seed != 42 {
		t.Fatalf("unexpected file: %+v", f)
	}
	if m, _ := f.Mode(); m != logger.ModeProd {
		t.Fatalf("expected prod mode, got %v", m)
	}
	rc, err := f.Reveal.Config()
	if err != nil {
		t.Fatal(err)
	}
	if rc.Tick != 50*time.Millisecond || rc.Duration != time.Second || rc.Settle != 200*time.Millisecond {
		t.Fatalf("unexpected reveal config: %+v", rc)
	}
}

func TestParseEmptyAndErrors(t *testing.T) {
	f, err := Parse(nil)
	if err != nil || f.Addr != "" {
		t.Fatalf("empty config should be valid: %+v %v", f, err)
	}
	bad := map[string]string{
		"unknown field": "port: 80\n",
		"bad duration":  "reveal:\n  tick: fast\n",
		"bad log mode":  "log_mode: loud\n",
	}
	for name, raw := range bad {
		if _, err := Parse([]byte(raw)); !errs.IsWarn(err) {
			t.Fatalf("%s: expected warn error, got %v", name, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	p := filepath.Join(t.TempDir(), "huntlab.yaml")
	if err := os.WriteFile(p, []byte("addr: \":7000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(p)
	if err != nil || f.Addr != ":7000" {
		t.Fatalf("unexpected %+v %v", f, err)
	}
}

func TestVaildRequiresEngine(t *testing.T) {
	sc := &SvrCfg{}
	if err := sc.Vaild(); err == nil {
		t.Fatalf("expected error without engine")
	}
	if sc.Log == nil {
		t.Fatalf("Vaild should install a default logger")
	}
}
