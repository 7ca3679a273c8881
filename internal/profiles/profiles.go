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

// Package profiles reads saved device profiles from the supported sources.
package profiles

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/firedevel/blobsaver/api"

	// Registers the "mysql" database/sql driver.
	_ "github.com/go-sql-driver/mysql"
	// Registers the "sqlite3" database/sql driver.
	_ "github.com/mattn/go-sqlite3"
)

// DefaultLocation is where blobsaver keeps its preferences export.
const DefaultLocation = "/home/Blobs/blobsaver.xml"

// ParseError describes a record which was dropped because it is unusable.
type ParseError struct {
	// Record names the offending record, as best it can be identified.
	Record string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("device record %q dropped: %s", e.Record, e.Reason)
}

// Result holds the devices read from a source, in source order, along with
// the records which had to be dropped.
type Result struct {
	Devices []api.DeviceProfile
	Dropped []*ParseError
}

func (r *Result) add(d api.DeviceProfile, record string) {
	var missing []string
	if d.Identifier == "" {
		missing = append(missing, "identifier")
	}
	if d.ECID == "" {
		missing = append(missing, "ECID")
	}
	if len(missing) > 0 {
		r.Dropped = append(r.Dropped, &ParseError{Record: record, Reason: "missing " + strings.Join(missing, " and ")})
		return
	}
	r.Devices = append(r.Devices, d)
}

// Load reads device profiles from location, which is one of:
//   - sqlite3://<path> or mysql://<dsn>, read with ReadSQL
//   - a .yaml or .yml file, read with ReadYAML
//   - anything else is treated as a blobsaver preferences XML file.
//
// An error is returned only if the source as a whole cannot be read.
func Load(ctx context.Context, location string) (*Result, error) {
	for _, driver := range []string{"sqlite3", "mysql"} {
		if dsn := strings.TrimPrefix(location, driver+"://"); dsn != location {
			return loadSQL(ctx, driver, dsn)
		}
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open profiles: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(location)) {
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return ReadPrefsXML(f)
	}
}

func loadSQL(ctx context.Context, driver, dsn string) (*Result, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s profiles: %w", driver, err)
	}
	defer db.Close()
	return ReadSQL(ctx, db)
}
