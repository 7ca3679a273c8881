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

package planner

import (
	"fmt"

	"github.com/firedevel/blobsaver/api"
	"github.com/golang/glog"
)

// Level is the severity of an Event.
type Level int

const (
	// Info events report progress.
	Info Level = iota
	// Warning events report something unusual which didn't stop the work.
	Warning
	// Error events report a device or firmware which could not be handled.
	Error
)

// Kind identifies what happened.
type Kind int

const (
	// CatalogFetched: the device's firmware listing was fetched.
	CatalogFetched Kind = iota
	// CatalogFailed: the listing could not be fetched; the device is skipped.
	CatalogFailed
	// Unsigned: the firmware is no longer signed and is ignored.
	Unsigned
	// MalformedIdentity: no ticket name could be derived for the pair.
	MalformedIdentity
	// AlreadyPresent: the ticket is already saved.
	AlreadyPresent
	// BasebandMismatch: the device class and its baseband serial disagree.
	BasebandMismatch
	// Planned: a fetcher invocation was planned.
	Planned
	// Executed: the fetcher ran and exited successfully.
	Executed
	// ExecFailed: the fetcher could not run or exited non-zero.
	ExecFailed
	// Cancelled: the run was cancelled before the device or pair was done.
	Cancelled
)

var kindNames = map[Kind]string{
	CatalogFetched:    "catalog fetched",
	CatalogFailed:     "catalog failed",
	Unsigned:          "unsigned",
	MalformedIdentity: "malformed identity",
	AlreadyPresent:    "already present",
	BasebandMismatch:  "baseband mismatch",
	Planned:           "planned",
	Executed:          "executed",
	ExecFailed:        "exec failed",
	Cancelled:         "cancelled",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Level returns the severity events of this kind are reported at.
func (k Kind) Level() Level {
	switch k {
	case BasebandMismatch:
		return Warning
	case CatalogFailed, MalformedIdentity, ExecFailed, Cancelled:
		return Error
	}
	return Info
}

// Event is a diagnostic produced while processing a device.
type Event struct {
	Kind Kind
	// Firmware is the candidate the event concerns, nil for device-level events.
	Firmware *api.FirmwareCandidate
	Message  string
	// Plan is set on Planned, Executed and ExecFailed events.
	Plan *api.Plan
	// Output holds the fetcher's combined output, if it ran.
	Output []byte
	Err    error
}

func (e Event) String() string {
	s := e.Kind.String()
	if e.Firmware != nil {
		s = fmt.Sprintf("%s-%s: %s", e.Firmware.Version, e.Firmware.BuildID, s)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// DeviceReport holds everything that happened to one device, in order.
type DeviceReport struct {
	Device api.DeviceProfile
	Events []Event
}

func (r *DeviceReport) add(e Event) {
	r.Events = append(r.Events, e)
}

// Report holds one DeviceReport per device, in input order.
type Report struct {
	Devices []DeviceReport
}

// Count returns the number of events of kind k across all devices.
func (r *Report) Count(k Kind) int {
	n := 0
	for _, d := range r.Devices {
		for _, e := range d.Events {
			if e.Kind == k {
				n++
			}
		}
	}
	return n
}

// Plans returns every planned invocation, in device then catalog order.
func (r *Report) Plans() []api.Plan {
	var ps []api.Plan
	for _, d := range r.Devices {
		for _, e := range d.Events {
			if e.Kind == Planned {
				ps = append(ps, *e.Plan)
			}
		}
	}
	return ps
}

// LogDevice writes a device's events to the log, prefixed with the device.
func LogDevice(r DeviceReport) {
	prefix := fmt.Sprintf("%s (%s)", r.Device.Name, r.Device.Identifier)
	for _, e := range r.Events {
		switch e.Kind.Level() {
		case Error:
			glog.Errorf("%s: %s", prefix, e)
		case Warning:
			glog.Warningf("%s: %s", prefix, e)
		default:
			glog.Infof("%s: %s", prefix, e)
		}
		if e.Kind == Planned {
			glog.V(1).Infof("%s: fetcher args %q", prefix, e.Plan.Args)
		}
		if len(e.Output) > 0 {
			glog.V(1).Infof("%s: fetcher output:\n%s", prefix, e.Output)
		}
	}
}
