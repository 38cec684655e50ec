// Copyright 2010-2024 Google LLC
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

// The oncall-scheduler command reads a monthly on-call Request as JSON and
// prints the solved Response as JSON. It is the entire external-facing
// surface this repository owns; the HTTP routing, persistence, and
// field-reshaping around it are treated as an external collaborator
// (spec.md §1) and are intentionally not part of this command.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/golang/glog"

	"github.com/oncall-sched/scheduler/internal/oncall"
)

var (
	requestPath = flag.String("request", "", "path to a JSON Request file; reads stdin if empty")
	timeLimit   = flag.Float64("time-limit", 10.0, "solver wall-clock bound, in seconds")
)

func run() error {
	flag.Parse()

	var r io.Reader = os.Stdin
	if *requestPath != "" {
		f, err := os.Open(*requestPath)
		if err != nil {
			return fmt.Errorf("opening request file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req oncall.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	if req.TimeLimitSeconds <= 0 {
		req.TimeLimitSeconds = *timeLimit
	}

	start := time.Now()
	resp, err := oncall.Solve(&req)
	if err != nil {
		return fmt.Errorf("solving: %w", err)
	}
	log.Infof("solve for %04d-%02d (%d doctors) finished in %s: success=%v status=%q",
		req.Year, req.Month, req.NumDoctors, time.Since(start), resp.Success, resp.Status)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Exitf("oncall-scheduler: %v", err)
	}
}
