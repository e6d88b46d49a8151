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
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/zintix-labs/huntlab/dto"
	"github.com/zintix-labs/huntlab/reveal"
	"github.com/zintix-labs/huntlab/server/httperr"
)

func (h *Handler) revealView() dto.Reveal {
	last, ok := h.eng.SpinResult()
	return dto.NewReveal(h.eng.SpinFrame(), h.eng.RevealConfig().Ticks(), last, ok)
}

// RevealStatus GET /v1/reveal
func (h *Handler) RevealStatus(w http.ResponseWriter, r *http.Request) {
	httperr.OK(w, h.revealView())
}

// RevealStart POST /v1/reveal 轉盤忙碌或 active subset 為空時回 409。
func (h *Handler) RevealStart(w http.ResponseWriter, r *http.Request) {
	if !h.eng.Spin() {
		httperr.JSON(w, http.StatusConflict, httperr.Body{Error: "reveal busy or nothing to draw", Status: http.StatusConflict})
		return
	}
	httperr.JSON(w, http.StatusAccepted, h.revealView())
}

// RevealCancel DELETE /v1/reveal
func (h *Handler) RevealCancel(w http.ResponseWriter, r *http.Request) {
	httperr.OK(w, map[string]bool{"cancelled": h.eng.CancelSpin()})
}

// RevealWait GET /v1/reveal/wait?timeout=5s 阻塞到這次揭曉結束。
func (h *Handler) RevealWait(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s := r.URL.Query().Get("timeout"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			httperr.Errs(w, errInvalid("timeout"))
			return
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	_, err := h.eng.WaitSpin(ctx)
	switch {
	case err == nil, errors.Is(err, reveal.ErrIdle):
		httperr.OK(w, h.revealView())
	case errors.Is(err, reveal.ErrCancelled):
		httperr.JSON(w, http.StatusConflict, httperr.Body{Error: err.Error(), Status: http.StatusConflict})
	default:
		h.fail(w, "reveal wait", err)
	}
}
