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

// Package demo 內建一份示範目錄，沒有指定 catalog_dir 時使用。
package demo

import (
	"embed"
	"io/fs"

	"github.com/zintix-labs/huntlab/catalog"
)

//go:embed catalog_data/*.json catalog_data/*.yaml
var files embed.FS

// FS 示範目錄的對照表（根目錄即對照檔）。
var FS fs.FS = mustSub(files, "catalog_data")

func mustSub(f embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Catalog 由內建對照表建立目錄。
func Catalog() (*catalog.Catalog, error) {
	return catalog.New(FS)
}
