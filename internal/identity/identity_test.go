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

package identity

import (
	"errors"
	"strconv"
	"testing"
)

func TestNormalizeECID(t *testing.T) {
	for _, test := range []struct {
		desc    string
		hex     string
		want    string
		wantErr bool
	}{
		{desc: "upper", hex: "1A2B3C", want: "1715004"},
		{desc: "lower", hex: "1a2b3c", want: "1715004"},
		{desc: "zero", hex: "0", want: "0"},
		{desc: "max", hex: "FFFFFFFFFFFFFFFF", want: "18446744073709551615"},
		{desc: "empty", hex: "", wantErr: true},
		{desc: "non-hex", hex: "1A2G", wantErr: true},
		{desc: "prefixed", hex: "0x1A", wantErr: true},
		{desc: "underscore", hex: "1_A", wantErr: true},
		{desc: "overflow", hex: "1FFFFFFFFFFFFFFFF", wantErr: true},
	} {
		t.Run(test.desc, func(t *testing.T) {
			got, err := NormalizeECID(test.hex)
			if gotErr := err != nil; gotErr != test.wantErr {
				t.Fatalf("NormalizeECID(%q) = %v, want err %t", test.hex, err, test.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrMalformedIdentity) {
					t.Errorf("NormalizeECID(%q) error %v is not ErrMalformedIdentity", test.hex, err)
				}
				return
			}
			if got != test.want {
				t.Errorf("NormalizeECID(%q) = %q, want %q", test.hex, got, test.want)
			}
		})
	}
}

func TestNormalizeECIDRoundTrip(t *testing.T) {
	for _, d := range []uint64{0, 1, 15, 16, 1715004, 1 << 40, 1<<64 - 1} {
		hex := strconv.FormatUint(d, 16)
		got, err := NormalizeECID(hex)
		if err != nil {
			t.Fatalf("NormalizeECID(%q): %v", hex, err)
		}
		if want := strconv.FormatUint(d, 10); got != want {
			t.Errorf("NormalizeECID(%q) = %q, want %q", hex, got, want)
		}
	}
}

func TestNormalizeBoardConfig(t *testing.T) {
	for _, test := range []struct {
		raw, want string
	}{
		{raw: "D27AP", want: "d27ap"},
		{raw: "d27ap", want: "d27ap"},
		{raw: "J71bAP", want: "j71bap"},
		{raw: "", want: ""},
		{raw: "ÄB1", want: "Äb1"},
	} {
		if got := NormalizeBoardConfig(test.raw); got != test.want {
			t.Errorf("NormalizeBoardConfig(%q) = %q, want %q", test.raw, got, test.want)
		}
	}
}
