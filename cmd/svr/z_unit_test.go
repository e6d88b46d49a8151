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

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/zintix-labs/huntlab/server/svrcfg"
)

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "huntlab.yaml")
	raw := "addr: \":7000\"\nlog_mode: prod\nstore_dir: ./a\ncurrency: \"$\"\n"
	if err := os.WriteFile(p, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := loadConfig([]string{"-config", p, "-addr", ":9000", "-zstd"})
	if err != nil {
		t.Fatal(err)
	}
	if f.Addr != ":9000" || f.LogMode != "prod" || f.StoreDir != "./a" || !f.Compress || f.Currency != "$" {
		t.Fatalf("unexpected config %+v", f)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := loadConfig([]string{"-log-mode", "loud"}); err == nil {
		t.Fatalf("expected error for bad log mode")
	}
	if _, err := loadConfig([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing config")
	}
}

func TestOpenCatalogAndStore(t *testing.T) {
	cat, err := openCatalog("")
	if err != nil || cat.Len() == 0 {
		t.Fatalf("demo catalog: %v", err)
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "p.json"), []byte(`{"alpha-one.png":"Alpha"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err = openCatalog(dir)
	if err != nil || cat.Len() != 1 {
		t.Fatalf("dir catalog: %v", err)
	}

	f, _ := loadConfig([]string{"-store", t.TempDir(), "-zstd"})
	st, closeFn, err := openStore(f)
	if err != nil || st == nil || closeFn == nil {
		t.Fatalf("file store: %v", err)
	}
	if err := st.Put(context.Background(), "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := closeFn(context.Background()); err != nil {
		t.Fatal(err)
	}

	mem, closeFn, err := openStore(&svrcfg.File{})
	if err != nil || mem == nil || closeFn != nil {
		t.Fatalf("mem store: %v", err)
	}
}
