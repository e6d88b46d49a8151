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

package huntlab

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/sdk/core"
	"github.com/zintix-labs/huntlab/sdk/sampler"
	"github.com/zintix-labs/huntlab/stats"
)

// MaxSimDraws 單次模擬的抽樣次數上限（HTTP 入口使用）。
const MaxSimDraws = 5_000_000

// Simulator 對大小為 n 的 subset 重複抽樣，統計每個位置被抽中的次數，
// 用來驗證 PickOne / PickBatch 的均勻性。
type Simulator struct {
	initSeed  int64
	seedmaker *seedMaker
}

// NewSimulator 以隨機種子建立模擬器。
func NewSimulator() *Simulator {
	return NewSimulatorWithSeed(core.RandomSeed())
}

// NewSimulatorWithSeed 以指定種子建立模擬器，相同參數的結果可重現。
func NewSimulatorWithSeed(seed int64) *Simulator {
	return &Simulator{initSeed: seed, seedmaker: newSeedMaker(seed)}
}

func (s *Simulator) Seed() int64 {
	return s.initSeed
}

func validSim(n, batch, draws int) error {
	if n < 1 {
		return errs.NewWarn("subset size must > 0")
	}
	if batch < 1 || batch > n {
		return errs.NewWarn("batch must be between 1 and subset size")
	}
	if draws < 1 {
		return errs.NewWarn("draws must > 0")
	}
	return nil
}

// Sim 單線模擬：draws 次抽樣，batch 為 1 時走 PickOne，否則走 PickBatch。
func (s *Simulator) Sim(n, batch, draws int, showpb bool) (*stats.UniformityReport, time.Duration, error) {
	if err := validSim(n, batch, draws); err != nil {
		return nil, 0, err
	}
	c := core.NewWithSeed(s.initSeed)
	rep := stats.NewUniformityReport(n, batch)
	subset := indexSubset(n)

	bar := pb.StartNew(draws)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < draws; i++ {
		if err := draw(c, subset, batch, rep); err != nil {
			bar.Finish()
			return nil, 0, err
		}
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()
	rep.Done()
	return rep, used, nil
}

// SimMP 以 mp 個 worker 平行模擬，每個 worker 各跑 draws 次，合併後回傳。
func (s *Simulator) SimMP(n, batch, draws, mp int, showpb bool) (*stats.UniformityReport, time.Duration, error) {
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if err := validSim(n, batch, draws); err != nil {
		return nil, 0, err
	}
	subset := indexSubset(n)
	reps := make([]*stats.UniformityReport, mp)
	cores := make([]*core.Core, mp)
	for i := range mp {
		reps[i] = stats.NewUniformityReport(n, batch)
		cores[i] = core.NewWithSeed(s.seedmaker.next())
	}

	bar := pb.StartNew(draws * mp)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	wg.Add(mp)
	for i := range mp {
		go func(i int) {
			defer wg.Done()
			for range draws {
				if err := draw(cores[i], subset, batch, reps[i]); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if firstErr != nil {
		return nil, 0, firstErr
	}

	merged := stats.NewUniformityReport(n, batch)
	for _, r := range reps {
		merged.Merge(r)
	}
	merged.Done()
	return merged, used, nil
}

func indexSubset(n int) []int {
	subset := make([]int, n)
	for i := range subset {
		subset[i] = i
	}
	return subset
}

func draw(c *core.Core, subset []int, batch int, rep *stats.UniformityReport) error {
	if batch == 1 {
		v, err := sampler.PickOne(c, subset)
		if err != nil {
			return err
		}
		rep.Observe(v)
		return nil
	}
	vs, err := sampler.PickBatch(c, subset, batch)
	if err != nil {
		return err
	}
	rep.Observe(vs...)
	return nil
}

const mask63 = uint64(1<<63) - 1

// seedMaker 為平行 worker 產生互不重複的種子。
type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以 CAS 推進全週期 LCG（mod 2^63），再經 mix63 打散；可被多個 goroutine 同時呼叫。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63 可逆的 bit 打散（乘奇數 mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
