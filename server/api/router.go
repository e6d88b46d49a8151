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

package api

import (
	"log/slog"

	"github.com/zintix-labs/huntlab/server/api/index"
	v1 "github.com/zintix-labs/huntlab/server/api/v1"
	"github.com/zintix-labs/huntlab/server/netsvr"
	"github.com/zintix-labs/huntlab/server/netsvr/middleware"
	"github.com/zintix-labs/huntlab/server/svrcfg"
)

// RegisterRoutes 註冊 middleware、首頁與 v1 api。sCfg 需先通過 Vaild。
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	h, err := v1.NewHandler(sCfg)
	if err != nil {
		return err
	}
	registerMiddleware(svr, sCfg.Log)
	svr.Get("/", index.New(sCfg.Engine))
	svr.Group("/v1", h.Register)
	return nil
}

func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.Compression)
}
