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

package netsvr

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// DefaultAddr 未指定監聽位址時使用。
const DefaultAddr = ":5808"

// Timeouts http.Server 的逾時設定。Write 需大於揭曉動畫總長（wait 端點會阻塞到結束）。
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

var DefaultTimeouts = Timeouts{
	Read:  10 * time.Second,
	Write: 30 * time.Second,
	Idle:  120 * time.Second,
}

// ChiAdapter 以 chi 實作 NetSvr。
type ChiAdapter struct {
	router chi.Router
	server *http.Server
	addr   string
}

// NewChiServer addr 空字串使用 DefaultAddr。
func NewChiServer(addr string) *ChiAdapter {
	return NewChiServerWith(addr, DefaultTimeouts)
}

func NewChiServerWith(addr string, to Timeouts) *ChiAdapter {
	if addr == "" {
		addr = DefaultAddr
	}
	r := chi.NewRouter()
	return &ChiAdapter{
		router: r,
		server: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  to.Read,
			WriteTimeout: to.Write,
			IdleTimeout:  to.Idle,
		},
		addr: addr,
	}
}

func (c *ChiAdapter) Ready() bool {
	if c == nil || c.router == nil || c.server == nil || c.server.Handler == nil {
		return false
	}
	_, _, err := net.SplitHostPort(c.addr)
	return err == nil
}

func (c *ChiAdapter) Run() error {
	return c.server.ListenAndServe()
}

func (c *ChiAdapter) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}

// Handler 回傳根路由，httptest 直接使用。
func (c *ChiAdapter) Handler() http.Handler {
	return c.router
}

func (c *ChiAdapter) Address() string {
	return c.addr
}

func (c *ChiAdapter) Use(mw func(http.Handler) http.Handler) { c.router.Use(mw) }

func (c *ChiAdapter) Get(path string, h http.HandlerFunc)    { c.router.Get(path, h) }
func (c *ChiAdapter) Post(path string, h http.HandlerFunc)   { c.router.Post(path, h) }
func (c *ChiAdapter) Put(path string, h http.HandlerFunc)    { c.router.Put(path, h) }
func (c *ChiAdapter) Delete(path string, h http.HandlerFunc) { c.router.Delete(path, h) }

// Group 子路由只拿到 NetRouter，碰不到 server 啟停。
func (c *ChiAdapter) Group(path string, fn func(NetRouter)) {
	c.router.Route(path, func(r chi.Router) {
		fn(&chiRouter{r: r})
	})
}

type chiRouter struct {
	r chi.Router
}

func (c *chiRouter) Use(mw func(http.Handler) http.Handler) { c.r.Use(mw) }
func (c *chiRouter) Get(path string, h http.HandlerFunc)    { c.r.Get(path, h) }
func (c *chiRouter) Post(path string, h http.HandlerFunc)   { c.r.Post(path, h) }
func (c *chiRouter) Put(path string, h http.HandlerFunc)    { c.r.Put(path, h) }
func (c *chiRouter) Delete(path string, h http.HandlerFunc) { c.r.Delete(path, h) }
func (c *chiRouter) Group(path string, fn func(NetRouter)) {
	c.r.Route(path, func(r chi.Router) { fn(&chiRouter{r: r}) })
}

// URLParam 取路徑參數（例如 /history/{id}）。
func URLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
