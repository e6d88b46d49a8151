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

// Package app 管理長期運行元件的啟動與關閉。
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Component 是可阻塞運行、可要求關閉的元件（HTTP server 等）。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// ShutdownTimeout 關閉所有元件與 hook 的總期限。
const ShutdownTimeout = 5 * time.Second

// App 啟動所有 Component，收到 SIGINT/SIGTERM 或任一元件結束時依序關閉。
type App struct {
	comps []Component
	hooks []func(context.Context) error
	log   *slog.Logger
	sig   []os.Signal
}

func New(log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{log: log, sig: []os.Signal{syscall.SIGINT, syscall.SIGTERM}}
}

func NewWith(log *slog.Logger, comps ...Component) *App {
	a := New(log)
	for _, c := range comps {
		a.Register(c)
	}
	return a
}

func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// OnShutdown 註冊在所有 Component 關閉後執行的收尾動作（取消揭曉、關閉 store、flush log）。
// 依註冊的相反順序執行。
func (a *App) OnShutdown(fn func(context.Context) error) {
	if fn != nil {
		a.hooks = append(a.hooks, fn)
	}
}

// Run 阻塞直到收到信號（回傳 nil）或任一 Component 回傳（回傳該錯誤，http.ErrServerClosed 視為正常）。
func (a *App) Run() error {
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) { errCh <- c.Run() }(c)
	}
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, a.sig...)
	defer signal.Stop(quit)

	var err error
	select {
	case s := <-quit:
		a.log.Info("app.signal", slog.String("signal", s.String()))
	case err = <-errCh:
	}
	a.Stop()
	if isClosed(err) {
		return nil
	}
	return err
}

// Stop 關閉所有 Component 並執行 hook。Run 結束時會自動呼叫。
func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	for _, c := range a.comps {
		if err := c.Shutdown(ctx); err != nil {
			a.log.Warn("app.shutdown", slog.Any("err", err))
		}
	}
	for i := len(a.hooks) - 1; i >= 0; i-- {
		if err := a.hooks[i](ctx); err != nil {
			a.log.Warn("app.hook", slog.Any("err", err))
		}
	}
	a.hooks = nil
}

func isClosed(err error) bool {
	return err == nil || errors.Is(err, http.ErrServerClosed)
}
