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

// Command svr 啟動 huntlab HTTP 服務。
//
//	go run ./cmd/svr -store ./data -zstd
//	go run ./cmd/svr -config huntlab.yaml -addr :8080
//
// 旗標優先於設定檔；沒有 -store 時狀態只存在記憶體。
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/huntlab"
	"github.com/zintix-labs/huntlab/catalog"
	"github.com/zintix-labs/huntlab/demo"
	"github.com/zintix-labs/huntlab/kvstore"
	"github.com/zintix-labs/huntlab/server"
	"github.com/zintix-labs/huntlab/server/logger"
	"github.com/zintix-labs/huntlab/server/svrcfg"
)

func main() {
	file, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(file); err != nil {
		os.Exit(1)
	}
}

// loadConfig 讀取 -config 指定的 YAML，再以明確給定的旗標覆蓋。
func loadConfig(args []string) (*svrcfg.File, error) {
	fset := flag.NewFlagSet("svr", flag.ContinueOnError)
	path := fset.String("config", "", "YAML config file")
	addr := fset.String("addr", "", "listen address (default :5808)")
	mode := fset.String("log-mode", "", "log mode: dev|prod|silence")
	store := fset.String("store", "", "state directory (empty: in-memory)")
	compress := fset.Bool("zstd", false, "zstd-compress the state file")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	file := new(svrcfg.File)
	if *path != "" {
		f, err := svrcfg.Load(*path)
		if err != nil {
			return nil, err
		}
		file = f
	}
	fset.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "addr":
			file.Addr = *addr
		case "log-mode":
			file.LogMode = *mode
		case "store":
			file.StoreDir = *store
		case "zstd":
			file.Compress = *compress
		}
	})
	if _, err := file.Mode(); err != nil {
		return nil, err
	}
	return file, nil
}

func run(file *svrcfg.File) error {
	mode, _ := file.Mode()
	log, ah := logger.NewAsync(4096, mode)
	defer ah.Close()

	cat, err := openCatalog(file.CatalogDir)
	if err != nil {
		log.Error("catalog", slog.Any("err", err))
		return err
	}
	if cat.Skipped() > 0 {
		log.Warn("catalog entries skipped", slog.Int("skipped", cat.Skipped()))
	}

	store, closeStore, err := openStore(file)
	if err != nil {
		log.Error("store", slog.Any("err", err))
		return err
	}

	rcfg, _ := file.Reveal.Config()
	eng, err := huntlab.New(huntlab.Config{
		Catalog: cat,
		Store:   store,
		Reveal:  rcfg,
		Seed:    file.Seed,
		Log:     log,
	})
	if err != nil {
		log.Error("engine", slog.Any("err", err))
		return err
	}
	log.Info("engine ready",
		slog.Int("items", cat.Len()),
		slog.Int("providers", len(cat.Providers())),
		slog.Int64("seed", eng.Seed()),
	)

	return server.Run(&svrcfg.SvrCfg{
		Log:      log,
		Engine:   eng,
		Addr:     file.Addr,
		Currency: file.Currency,
	}, closeStore)
}

func openCatalog(dir string) (*catalog.Catalog, error) {
	var src fs.FS = demo.FS
	if dir != "" {
		src = os.DirFS(dir)
	}
	return catalog.New(src)
}

func openStore(file *svrcfg.File) (kvstore.Store, func(context.Context) error, error) {
	if file.StoreDir == "" {
		return kvstore.NewMemStore(), nil, nil
	}
	var opts []kvstore.FileOption
	if file.Compress {
		opts = append(opts, kvstore.WithZstd(zstd.SpeedDefault))
	}
	st, err := kvstore.NewFileStore(file.StoreDir, opts...)
	if err != nil {
		return nil, nil, err
	}
	return st, func(context.Context) error { return st.Close() }, nil
}
