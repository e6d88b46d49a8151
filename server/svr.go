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

// Package server 組裝 huntlab 的 HTTP 服務。
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/server/api"
	"github.com/zintix-labs/huntlab/server/app"
	"github.com/zintix-labs/huntlab/server/netsvr"
	"github.com/zintix-labs/huntlab/server/svrcfg"
)

// Build 驗證設定並建立已掛好路由的 server，但不啟動。測試與自訂啟動流程使用。
func Build(sCfg *svrcfg.SvrCfg) (*netsvr.ChiAdapter, error) {
	if err := sCfg.Vaild(); err != nil {
		return nil, err
	}
	svr := netsvr.NewChiServer(sCfg.Addr)
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		return nil, err
	}
	return svr, nil
}

// Run 建立 server 並阻塞運行直到收到終止信號。
// 關閉時會先停止 HTTP，再取消進行中的揭曉並執行 hooks（通常是關閉 store 與 flush log）。
func Run(sCfg *svrcfg.SvrCfg, hooks ...func(context.Context) error) error {
	svr, err := Build(sCfg)
	if err != nil {
		// logger 可能不可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return RunWithSvr(sCfg, svr, hooks...)
}

// RunWithSvr 與 Run 相同，但使用呼叫端準備好的 NetSvr（需已註冊路由）。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr, hooks ...func(context.Context) error) error {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		return errs.NewFatal("server is not ready")
	}
	a := app.NewWith(sCfg.Log, svr)
	for _, h := range hooks {
		a.OnShutdown(h)
	}
	// hooks 倒序執行：揭曉最先取消
	a.OnShutdown(func(context.Context) error {
		sCfg.Engine.CancelSpin()
		return nil
	})
	sCfg.Log.Info("[huntlab] listening", slog.String("addr", svr.Address()))
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	return nil
}
