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

package v1

import (
	"net/http"

	"github.com/zintix-labs/huntlab"
	"github.com/zintix-labs/huntlab/dto"
	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/server/httperr"
	"github.com/zintix-labs/huntlab/stats"
)

const maxWorkers = 16

// Sim GET|POST /v1/sim 對抽樣器做均勻度檢定。
//
// n 預設為目前 active subset 的大小；draws 上限為 SvrCfg.MaxSim。
func (h *Handler) Sim(w http.ResponseWriter, r *http.Request) {
	type simResponse struct {
		Seed     int64                   `json:"seed"`
		Report   *stats.UniformityReport `json:"report"`
		Uniform  bool                    `json:"uniform"`
		UsedTime int64                   `json:"used_ms"`
	}
	req, err := dto.DecodeSimRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if req.N == 0 {
		req.N = len(h.eng.Subset())
	}
	if req.Workers < 1 || req.Workers > maxWorkers {
		httperr.Errs(w, errs.Warnf("workers must be between 1 and %d", maxWorkers))
		return
	}
	if req.Draws > h.maxSim/req.Workers {
		httperr.Errs(w, errs.Warnf("draws x workers must be <= %d", h.maxSim))
		return
	}
	var sim *huntlab.Simulator
	if req.Seed != nil {
		sim = huntlab.NewSimulatorWithSeed(*req.Seed)
	} else {
		sim = huntlab.NewSimulator()
	}
	rep, used, err := sim.SimMP(req.N, req.Batch, req.Draws, req.Workers, false)
	if err != nil {
		h.fail(w, "sim", err)
		return
	}
	httperr.OK(w, simResponse{
		Seed:     sim.Seed(),
		Report:   rep,
		Uniform:  rep.Uniform(1 - stats.Confidence),
		UsedTime: used.Milliseconds(),
	})
}
