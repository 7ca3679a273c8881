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

// Package tss builds and runs invocations of the external ticket fetcher
// (tsschecker).
package tss

import (
	"github.com/firedevel/blobsaver/api"
	"github.com/firedevel/blobsaver/internal/baseband"
)

// Args returns the ordered fetcher arguments for saving the ticket for d and
// fw into outputDir.
//
// The ECID is passed in its original hex form and the board config in the
// case the catalog supplied it; only ticket filenames use normalized forms.
// Args does no I/O.
func Args(d api.DeviceProfile, fw api.FirmwareCandidate, bb baseband.Decision, outputDir string) []string {
	args := []string{
		"--device", d.Identifier,
		"--ecid", d.ECID,
		"--apnonce", d.APNonce,
		"--generator", d.Generator,
		"--boardconfig", fw.BoardConfig,
		"--buildid", fw.BuildID,
	}
	if bb.Mode == api.BasebandInclude {
		args = append(args, "--bbsnum", bb.Serial)
	} else {
		args = append(args, "-b")
	}
	return append(args, "--save-path", outputDir, "-s")
}
