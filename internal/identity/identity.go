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

// Package identity normalizes device identity fields into the canonical
// forms used when naming saved tickets.
package identity

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedIdentity is returned when an identity field cannot be normalized.
var ErrMalformedIdentity = errors.New("malformed identity")

// NormalizeECID parses hex as an unsigned hexadecimal integer and returns its
// decimal rendering.
func NormalizeECID(hex string) (string, error) {
	if hex == "" {
		return "", fmt.Errorf("%w: empty ECID", ErrMalformedIdentity)
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return "", fmt.Errorf("%w: ECID %q is not a 64-bit hexadecimal value", ErrMalformedIdentity, hex)
	}
	return strconv.FormatUint(v, 10), nil
}

// NormalizeBoardConfig lowercases ASCII letters in raw. Other bytes,
// including non-ASCII ones, are left untouched.
func NormalizeBoardConfig(raw string) string {
	b := []byte(raw)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
