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

package baseband

import (
	"testing"

	"github.com/firedevel/blobsaver/api"
)

func TestDecide(t *testing.T) {
	for _, test := range []struct {
		desc       string
		identifier string
		serial     string
		want       Decision
		wantWarn   Warning
	}{
		{
			desc:       "phone without serial",
			identifier: "iPhone14,5",
			want:       Decision{Mode: api.BasebandOmit},
			wantWarn:   MissingSerial,
		}, {
			desc:       "phone with serial",
			identifier: "iPhone14,5",
			serial:     "1234567890",
			want:       Decision{Mode: api.BasebandInclude, Serial: "1234567890"},
		}, {
			desc:       "tablet without serial",
			identifier: "iPad13,1",
			want:       Decision{Mode: api.BasebandOmit},
		}, {
			desc:       "tablet with serial",
			identifier: "iPad13,2",
			serial:     "42",
			want:       Decision{Mode: api.BasebandInclude, Serial: "42"},
			wantWarn:   UnexpectedSerial,
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			d := api.DeviceProfile{Identifier: test.identifier, ECID: "1", BasebandSerial: test.serial}
			got, warn := Policy{}.Decide(d)
			if got != test.want {
				t.Errorf("Decide() = %+v, want %+v", got, test.want)
			}
			if warn != test.wantWarn {
				t.Errorf("Decide() warning = %v, want %v", warn, test.wantWarn)
			}
		})
	}
}

func TestDecideWithCustomClassifier(t *testing.T) {
	p := Policy{Cellular: AnyOf(Phones, Contains("Watch"))}
	d := api.DeviceProfile{Identifier: "Watch6,3", ECID: "1"}

	got, warn := p.Decide(d)
	if got.Mode != api.BasebandOmit {
		t.Errorf("Decide() mode = %v, want omit", got.Mode)
	}
	if warn != MissingSerial {
		t.Errorf("Decide() warning = %v, want %v", warn, MissingSerial)
	}

	// The classifier only ever affects the warning.
	d.BasebandSerial = "99"
	for _, p := range []Policy{p, {Cellular: func(string) bool { return false }}} {
		if got, _ := p.Decide(d); got.Mode != api.BasebandInclude || got.Serial != "99" {
			t.Errorf("Decide() = %+v, want include 99", got)
		}
	}
}
