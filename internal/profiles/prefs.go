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

package profiles

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/firedevel/blobsaver/api"
)

// Preference map keys used by blobsaver for each saved device.
const (
	keySavePath   = "Save Path"
	keyIdentifier = "Device Identifier"
	keyECID       = "ECID"
	keyGenerator  = "Generator"
	keyAPNonce    = "Apnonce"
	keyBaseband   = "BasebandSerialNumber"
)

type prefsEntry struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

type prefsNode struct {
	Name    string       `xml:"name,attr"`
	Entries []prefsEntry `xml:"map>entry"`
	Nodes   []prefsNode  `xml:"node"`
}

type prefsDoc struct {
	XMLName xml.Name  `xml:"preferences"`
	Root    prefsNode `xml:"root"`
}

// child returns the first direct child called name.
func (n *prefsNode) child(name string) *prefsNode {
	for i := range n.Nodes {
		if n.Nodes[i].Name == name {
			return &n.Nodes[i]
		}
	}
	return nil
}

// savedDevices finds blobsaver/app/Saved Devices anywhere beneath n.
func (n *prefsNode) savedDevices() *prefsNode {
	if n.Name == "blobsaver" {
		if app := n.child("app"); app != nil {
			if sd := app.child("Saved Devices"); sd != nil {
				return sd
			}
		}
	}
	for i := range n.Nodes {
		if sd := n.Nodes[i].savedDevices(); sd != nil {
			return sd
		}
	}
	return nil
}

// ReadPrefsXML reads devices from a blobsaver Java preferences export.
// A document without any saved devices yields an empty Result.
func ReadPrefsXML(r io.Reader) (*Result, error) {
	var doc prefsDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse preferences XML: %w", err)
	}
	res := &Result{}
	sd := doc.Root.savedDevices()
	if sd == nil {
		return res, nil
	}
	for _, n := range sd.Nodes {
		d := api.DeviceProfile{Name: n.Name}
		for _, e := range n.Entries {
			switch e.Key {
			case keySavePath:
				d.SavePath = e.Value
			case keyIdentifier:
				d.Identifier = e.Value
			case keyECID:
				d.ECID = e.Value
			case keyGenerator:
				d.Generator = e.Value
			case keyAPNonce:
				d.APNonce = e.Value
			case keyBaseband:
				d.BasebandSerial = e.Value
			}
		}
		res.add(d, n.Name)
	}
	return res, nil
}
