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

package app

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/zintix-labs/huntlab/server/logger"
)

type fakeComp struct {
	runErr   error
	shutdown int
}

func (f *fakeComp) Run() error { return f.runErr }

func (f *fakeComp) Shutdown(ctx context.Context) error { f.shutdown++; return nil }

func TestRunStopsOnComponentExit(t *testing.T) {
	boom := errors.New("boom")
	c := &fakeComp{runErr: boom}
	a := NewWith(logger.New(logger.ModeSilence), c)
	var order []int
	a.OnShutdown(func(context.Context) error { order = append(order, 1); return nil })
	a.OnShutdown(func(context.Context) error { order = append(order, 2); return errors.New("ignored") })

	if err := a.Run(); !errors.Is(err, boom) {
		t.Fatalf("expected component error, got %v", err)
	}
	if c.shutdown != 1 {
		t.Fatalf("component should be shut down once, got %d", c.shutdown)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("hooks must run in reverse order, got %v", order)
	}
}

func TestServerClosedIsNormal(t *testing.T) {
	a := NewWith(nil, &fakeComp{runErr: http.ErrServerClosed})
	if err := a.Run(); err != nil {
		t.Fatalf("ErrServerClosed should be treated as normal stop, got %v", err)
	}
}
