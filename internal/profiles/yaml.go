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
	"fmt"
	"io"

	"github.com/firedevel/blobsaver/api"
	"gopkg.in/yaml.v3"
)

type yamlDoc struct {
	Devices []api.DeviceProfile `yaml:"devices"`
}

// ReadYAML reads devices from a YAML document of the form:
//
//	devices:
//	  - name: My iPhone
//	    identifier: iPhone14,5
//	    ecid: 1A2B3C
//	    generator: "0x1111111111111111"
//	    apnonce: ...
//	    baseband_serial: ...
//	    save_path: /home/Blobs/phone
func ReadYAML(r io.Reader) (*Result, error) {
	var doc yamlDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse profiles YAML: %w", err)
	}
	res := &Result{}
	for i, d := range doc.Devices {
		name := d.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		res.add(d, name)
	}
	return res, nil
}
