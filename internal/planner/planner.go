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

// Package planner decides, for every saved device and each of its signed
// firmwares, whether a ticket still needs saving, and runs the fetcher for
// those which do.
//
// Failures are confined to the device or firmware they concern: they are
// recorded in the Report and processing carries on.
package planner

//go:generate mockgen -self_package github.com/firedevel/blobsaver/internal/planner -package planner -destination mock_planner.go github.com/firedevel/blobsaver/internal/planner Catalog,Runner

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/firedevel/blobsaver/api"
	"github.com/firedevel/blobsaver/internal/artifact"
	"github.com/firedevel/blobsaver/internal/baseband"
	"github.com/firedevel/blobsaver/internal/tss"
	"golang.org/x/sync/errgroup"
)

// Catalog lists the firmwares available for a device identifier.
type Catalog interface {
	Firmwares(ctx context.Context, identifier string) ([]api.FirmwareCandidate, error)
}

// Runner runs the ticket fetcher with an argument vector and waits for it.
type Runner interface {
	Run(ctx context.Context, args []string) ([]byte, error)
}

// Planner is the provisioning orchestrator.
type Planner struct {
	Catalog Catalog
	Runner  Runner
	Policy  baseband.Policy

	// Output, if set, overrides every device's save path.
	Output string
	// Workers bounds how many devices are processed at once. Values below
	// one mean one, which processes devices strictly in order.
	Workers int
	// DryRun plans invocations without running the fetcher.
	DryRun bool
	// Exists reports whether a ticket is already saved. artifact.Exists is
	// used if nil.
	Exists func(dir, name string) bool
	// Done, if set, is called with each device's report as soon as the device
	// is finished. Calls are serialized.
	Done func(DeviceReport)

	doneMu sync.Mutex
}

// Run processes devices and returns a report with one entry per device, in
// the order given. Candidates of a single device are always handled one at a
// time in catalog order, each fetch completing before the next is considered.
func (p *Planner) Run(ctx context.Context, devices []api.DeviceProfile) *Report {
	r := &Report{Devices: make([]DeviceReport, len(devices))}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range devices {
		i := i
		g.Go(func() error {
			dr := p.device(ctx, devices[i])
			r.Devices[i] = dr
			if p.Done != nil {
				p.doneMu.Lock()
				p.Done(dr)
				p.doneMu.Unlock()
			}
			return nil
		})
	}
	// Per-device failures are recorded in the report, never returned.
	_ = g.Wait()
	return r
}

func (p *Planner) device(ctx context.Context, d api.DeviceProfile) DeviceReport {
	dr := DeviceReport{Device: d}
	if err := ctx.Err(); err != nil {
		dr.add(Event{Kind: Cancelled, Err: err})
		return dr
	}

	fws, err := p.Catalog.Firmwares(ctx, d.Identifier)
	if err != nil {
		dr.add(Event{Kind: CatalogFailed, Err: err})
		return dr
	}
	dr.add(Event{Kind: CatalogFetched, Message: fmt.Sprintf("parsed %d firmwares", len(fws))})

	for i := range fws {
		fw := fws[i]
		if err := ctx.Err(); err != nil {
			dr.add(Event{Kind: Cancelled, Firmware: &fw, Err: err})
			return dr
		}
		p.candidate(ctx, d, &fw, &dr)
	}
	return dr
}

func (p *Planner) candidate(ctx context.Context, d api.DeviceProfile, fw *api.FirmwareCandidate, dr *DeviceReport) {
	if !fw.Signed {
		dr.add(Event{Kind: Unsigned, Firmware: fw})
		return
	}

	name, err := artifact.Filename(d, *fw)
	if err != nil {
		dr.add(Event{Kind: MalformedIdentity, Firmware: fw, Err: err})
		return
	}
	dir := artifact.OutputDir(d, p.Output)
	exists := p.Exists
	if exists == nil {
		exists = artifact.Exists
	}
	if exists(dir, name) {
		dr.add(Event{Kind: AlreadyPresent, Firmware: fw, Message: name})
		return
	}

	bb, warn := p.Policy.Decide(d)
	if warn != baseband.NoWarning {
		dr.add(Event{Kind: BasebandMismatch, Firmware: fw, Message: warn.String()})
	}
	plan := &api.Plan{
		Path:     filepath.Join(dir, name),
		Args:     tss.Args(d, *fw, bb, dir),
		Baseband: bb.Mode,
	}
	dr.add(Event{Kind: Planned, Firmware: fw, Message: name, Plan: plan})
	if p.DryRun {
		return
	}

	out, err := p.Runner.Run(ctx, plan.Args)
	if err != nil {
		dr.add(Event{Kind: ExecFailed, Firmware: fw, Plan: plan, Output: out, Err: err})
		return
	}
	dr.add(Event{Kind: Executed, Firmware: fw, Plan: plan, Output: out})
}
