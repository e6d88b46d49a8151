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

// Package netsvr 把路由框架隔離在介面之後；api 套件只看得到 NetRouter。
package netsvr

import (
	"net/http"

	"github.com/zintix-labs/huntlab/server/app"
)

// NetSvr 可註冊路由、可被 app.App 管理啟停。
type NetSvr interface {
	NetRouter
	app.Component
	Handler() http.Handler
	Address() string
}

// NetRouter 只有路由能力，交給 handler 子模組使用。
type NetRouter interface {
	Use(mw func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Put(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))
}
