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

// Package baseband decides whether a baseband ticket is requested for a device.
package baseband

import (
	"strings"

	"github.com/firedevel/blobsaver/api"
)

// Classifier reports whether a device identifier belongs to a class of
// devices which carry a cellular baseband.
type Classifier func(identifier string) bool

// Contains returns a Classifier matching identifiers containing substr.
func Contains(substr string) Classifier {
	return func(identifier string) bool {
		return strings.Contains(identifier, substr)
	}
}

// AnyOf returns a Classifier matching identifiers matched by any of cs.
func AnyOf(cs ...Classifier) Classifier {
	return func(identifier string) bool {
		for _, c := range cs {
			if c(identifier) {
				return true
			}
		}
		return false
	}
}

// Phones matches the cellular phone product line.
var Phones = Contains("iPhone")

// Warning describes a mismatch between a device's class and whether it has
// a baseband serial recorded. Warnings never change the decision.
type Warning int

const (
	// NoWarning means the device's class and serial agree.
	NoWarning Warning = iota
	// MissingSerial means a baseband-bearing device has no serial recorded.
	MissingSerial
	// UnexpectedSerial means a device outside the baseband-bearing classes
	// has a serial recorded.
	UnexpectedSerial
)

func (w Warning) String() string {
	switch w {
	case MissingSerial:
		return "not saving baseband ticket for a baseband-bearing device"
	case UnexpectedSerial:
		return "saving baseband ticket for a device outside the baseband-bearing classes"
	}
	return ""
}

// Decision is the outcome of the policy for one device.
type Decision struct {
	Mode   api.BasebandMode
	Serial string
}

// Policy decides on baseband tickets.
type Policy struct {
	// Cellular classifies baseband-bearing identifiers. Phones is used if nil.
	Cellular Classifier
}

// Decide returns Include with the device's serial if it has one, and Omit
// otherwise. The returned Warning depends only on the device class and
// whether the serial is present.
func (p Policy) Decide(d api.DeviceProfile) (Decision, Warning) {
	cellular := p.Cellular
	if cellular == nil {
		cellular = Phones
	}
	isCellular := cellular(d.Identifier)
	if d.BasebandSerial == "" {
		w := NoWarning
		if isCellular {
			w = MissingSerial
		}
		return Decision{Mode: api.BasebandOmit}, w
	}
	w := NoWarning
	if !isCellular {
		w = UnexpectedSerial
	}
	return Decision{Mode: api.BasebandInclude, Serial: d.BasebandSerial}, w
}
