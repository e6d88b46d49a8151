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

// Package svrcfg 是 server 的組裝參數與 YAML 設定檔格式。
package svrcfg

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/huntlab"
	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/hunt"
	"github.com/zintix-labs/huntlab/reveal"
	"github.com/zintix-labs/huntlab/server/logger"
)

// SvrCfg server.Run 需要的依賴。Engine 必填，其他有預設值。
type SvrCfg struct {
	Log      *slog.Logger
	Engine   *huntlab.Engine
	Addr     string // 空字串使用 netsvr.DefaultAddr
	Currency string // 匯出文字的貨幣符號，空字串使用 hunt.DefaultCurrency
	MaxSim   int    // /v1/sim 單次允許的最大抽樣次數，0 使用 huntlab.MaxSimDraws
}

func (sc *SvrCfg) Vaild() error {
	if sc == nil {
		return errs.NewFatal("nil server config")
	}
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("async log handler is not ready")
		}
	} else {
		sc.Log = logger.New(logger.ModeSilence)
	}
	if sc.Engine == nil {
		return errs.NewFatal("engine is required")
	}
	if sc.Currency == "" {
		sc.Currency = hunt.DefaultCurrency
	}
	if sc.MaxSim <= 0 || sc.MaxSim > huntlab.MaxSimDraws {
		sc.MaxSim = huntlab.MaxSimDraws
	}
	return nil
}

// File 是 YAML 設定檔。所有欄位皆可省略；時間使用 Go duration 字串（"100ms"）。
//
//	addr: ":5808"
//	log_mode: prod
//	store_dir: ./data
//	compress: true
//	catalog_dir: ./catalog
//	currency: "$"
//	reveal:
//	  tick: 100ms
//	  duration: 2500ms
//	  settle: 300ms
type File struct {
	Addr       string     `yaml:"addr"`
	LogMode    string     `yaml:"log_mode"`
	StoreDir   string     `yaml:"store_dir"`
	Compress   bool       `yaml:"compress"`
	CatalogDir string     `yaml:"catalog_dir"`
	Currency   string     `yaml:"currency"`
	Seed       int64      `yaml:"seed"`
	Reveal     RevealFile `yaml:"reveal"`
}

type RevealFile struct {
	Tick     string `yaml:"tick"`
	Duration string `yaml:"duration"`
	Settle   string `yaml:"settle"`
}

// Load 讀取 YAML 設定檔；未知欄位視為錯誤。
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, "read config "+path)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*File, error) {
	f := new(File)
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.Wrap(errs.NewWarn(err.Error()), "parse config")
	}
	if _, err := f.Mode(); err != nil {
		return nil, err
	}
	if _, err := f.Reveal.Config(); err != nil {
		return nil, err
	}
	return f, nil
}

// Mode 解析 log_mode。
func (f *File) Mode() (logger.LogMode, error) {
	return logger.ParseMode(f.LogMode)
}

// Config 轉成 reveal.Config；未設定的欄位為零值，由引擎補預設。
func (r RevealFile) Config() (reveal.Config, error) {
	var c reveal.Config
	var err error
	if c.Tick, err = duration("reveal.tick", r.Tick); err != nil {
		return c, err
	}
	if c.Duration, err = duration("reveal.duration", r.Duration); err != nil {
		return c, err
	}
	if c.Settle, err = duration("reveal.settle", r.Settle); err != nil {
		return c, err
	}
	return c, nil
}

func duration(key, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errs.NewWarn("invalid " + key + ": " + s)
	}
	return d, nil
}
