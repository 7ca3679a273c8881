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

// Package artifact names saved tickets and checks whether they are already
// on disk.
package artifact

import (
	"os"
	"path/filepath"

	"github.com/firedevel/blobsaver/api"
	"github.com/firedevel/blobsaver/internal/identity"
)

// Extension is the file extension of a saved ticket.
const Extension = ".shsh2"

// Filename returns the deterministic name of the ticket for the given pair:
//
//	{decimal ECID}_{identifier}_{lowercase boardconfig}_{version}-{buildid}_{apnonce}.shsh2
//
// Fields are substituted verbatim; records must come from a trusted source.
func Filename(d api.DeviceProfile, fw api.FirmwareCandidate) (string, error) {
	ecid, err := identity.NormalizeECID(d.ECID)
	if err != nil {
		return "", err
	}
	return ecid + "_" + d.Identifier + "_" + identity.NormalizeBoardConfig(fw.BoardConfig) +
		"_" + fw.Version + "-" + fw.BuildID + "_" + d.APNonce + Extension, nil
}

// OutputDir returns override if set, otherwise the device's own save path.
func OutputDir(d api.DeviceProfile, override string) string {
	if override != "" {
		return override
	}
	return d.SavePath
}

// Exists reports whether anything is present at dir/name.
// It does not look at the file's contents: an empty or corrupt ticket counts
// as saved.
func Exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
