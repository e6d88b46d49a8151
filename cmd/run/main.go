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

// Command run 對抽樣器做大量抽樣，輸出均勻度檢定報告。
//
//	go run ./cmd/run -draws 1000000 -batch 10 -workers 4
//	go run ./cmd/run -provider "Nolimit City" -format yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/zintix-labs/huntlab"
	"github.com/zintix-labs/huntlab/catalog"
	"github.com/zintix-labs/huntlab/demo"
	"github.com/zintix-labs/huntlab/sdk/perf"
	"github.com/zintix-labs/huntlab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type config struct {
	n        int
	batch    int
	draws    int
	workers  int
	seed     int64
	provider string
	format   string
	pprof    string
}

func main() {
	cfg := bindFlags(os.Args[1:])
	if err := run(cfg, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bindFlags(args []string) *config {
	cfg := new(config)
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.IntVar(&cfg.n, "n", 0, "subset size (0: demo catalog subset)")
	fs.IntVar(&cfg.batch, "batch", 1, "items per draw (1: PickOne)")
	fs.IntVar(&cfg.draws, "draws", 1_000_000, "draws per worker")
	fs.IntVar(&cfg.workers, "workers", 1, "number of workers")
	fs.Int64Var(&cfg.seed, "seed", 0, "int64 seed (0: random)")
	fs.StringVar(&cfg.provider, "provider", "", "limit the demo subset to one provider")
	fs.StringVar(&cfg.format, "format", "text", "report format: text|json|yaml")
	fs.StringVar(&cfg.pprof, "p", "", "pprof: '', cpu, heap, allocs")
	_ = fs.Parse(args)
	return cfg
}

// subsetSize 未指定 -n 時以示範目錄（可限定供應商）的大小作為 subset 大小。
func (cfg *config) subsetSize() (int, error) {
	if cfg.n > 0 {
		return cfg.n, nil
	}
	cat, err := demo.Catalog()
	if err != nil {
		return 0, err
	}
	f := cat.AllProviders()
	if cfg.provider != "" {
		f = catalog.Filter{Providers: []string{cfg.provider}}
	}
	return len(cat.Subset(f)), nil
}

func run(cfg *config, w io.Writer) error {
	mode, err := perf.ParseMode(cfg.pprof)
	if err != nil {
		return err
	}
	n, err := cfg.subsetSize()
	if err != nil {
		return err
	}
	sim := huntlab.NewSimulator()
	if cfg.seed != 0 {
		sim = huntlab.NewSimulatorWithSeed(cfg.seed)
	}
	text := cfg.format == "text"

	p := message.NewPrinter(language.English)
	if text {
		p.Fprintf(w, "\033[1;32m[SEED:%d] [N:%d] [BATCH:%d] [WORKERS:%d] [DRAWS:%d]\033[0m\n",
			sim.Seed(), n, cfg.batch, cfg.workers, cfg.workers*cfg.draws)
	}

	var (
		rep  *stats.UniformityReport
		used time.Duration
	)
	path, err := perf.Run(mode, perf.DefaultDir, func() error {
		var err error
		rep, used, err = sim.SimMP(n, cfg.batch, cfg.draws, cfg.workers, text)
		return err
	})
	if err != nil {
		return err
	}
	switch cfg.format {
	case "json":
		err = rep.WriteWith(w, &stats.JsonUniformityRender{})
	case "yaml":
		err = rep.WriteWith(w, &stats.YAMLUniformityRender{})
	default:
		rep.StdOut(w, used)
	}
	if path != "" {
		fmt.Fprintln(os.Stderr, "profile written:", path)
	}
	return err
}
