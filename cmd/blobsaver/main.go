// Copyright 2021 Google LLC. All Rights Reserved.
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

// blobsaver saves SHSH tickets for every signed firmware of each saved device
// which doesn't already have one on disk.
//
// Usage:
//   go run ./cmd/blobsaver --logtostderr --profiles=/home/Blobs/blobsaver.xml --tss_bin=/usr/local/bin/tsschecker
//
// Per-device failures are logged and do not affect the exit status; only
// configuration problems (a missing fetcher, unreadable profiles) do.
package main

import (
	"context"
	"flag"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/firedevel/blobsaver/internal/baseband"
	"github.com/firedevel/blobsaver/internal/catalog"
	"github.com/firedevel/blobsaver/internal/planner"
	"github.com/firedevel/blobsaver/internal/profiles"
	"github.com/firedevel/blobsaver/internal/tss"
	"github.com/golang/glog"
)

var (
	tssBin      = flag.String("tss_bin", "tsschecker", "Path to tsschecker, or its name in $PATH")
	profilesLoc = flag.String("profiles", profiles.DefaultLocation, "Saved device profiles: a blobsaver XML export, a .yaml file, sqlite3://<path> or mysql://<dsn>")
	apiURL      = flag.String("api_url", catalog.DefaultURL, "Base URL of the firmware catalog's device endpoint")
	output      = flag.String("output", "", "Save every device's tickets to this directory instead of its own save path")
	workers     = flag.Int("workers", 1, "Number of devices to process concurrently")
	execTimeout = flag.Duration("exec_timeout", 0, "Maximum time a single tsschecker run may take, 0 for no limit")
	httpTimeout = flag.Duration("http_timeout", 30*time.Second, "Timeout for catalog requests")
	dryRun      = flag.Bool("dry_run", false, "Log the tsschecker invocations which would be made without running them")
)

func main() {
	flag.Parse()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	bin, err := tss.CheckBinary(*tssBin)
	if err != nil {
		glog.Exitf("tsschecker unusable, please check --tss_bin: %v", err)
	}
	base, err := url.Parse(*apiURL)
	if err != nil {
		glog.Exitf("api_url is invalid: %v", err)
	}
	if *output != "" {
		if err := os.MkdirAll(*output, 0755); err != nil {
			glog.Exitf("Failed to create output directory: %v", err)
		}
	}

	res, err := profiles.Load(ctx, *profilesLoc)
	if err != nil {
		glog.Exitf("Failed to read device profiles: %v", err)
	}
	for _, pe := range res.Dropped {
		glog.Errorf("%v", pe)
	}
	glog.Infof("Parsed %d devices from %s", len(res.Devices), *profilesLoc)

	p := &planner.Planner{
		Catalog: &catalog.Client{BaseURL: base, HTTP: &http.Client{Timeout: *httpTimeout}},
		Runner:  tss.ExecRunner{Binary: bin, Timeout: *execTimeout},
		Policy:  baseband.Policy{Cellular: baseband.Phones},
		Output:  *output,
		Workers: *workers,
		DryRun:  *dryRun,
		Done:    planner.LogDevice,
	}
	r := p.Run(ctx, res.Devices)

	glog.Infof("Done: %d saved, %d failed, %d already present, %d planned",
		r.Count(planner.Executed), r.Count(planner.ExecFailed), r.Count(planner.AlreadyPresent), r.Count(planner.Planned))
	glog.Flush()
}
