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
	"context"
	"database/sql"
	"fmt"

	"github.com/firedevel/blobsaver/api"
)

const selectDevicesSQL = `SELECT name, identifier, ecid, generator, apnonce, baseband_serial, save_path FROM devices ORDER BY id`

// ReadSQL reads devices from the devices table of db:
//
//	CREATE TABLE devices (
//	  id INTEGER PRIMARY KEY,
//	  name TEXT, identifier TEXT, ecid TEXT, generator TEXT,
//	  apnonce TEXT, baseband_serial TEXT, save_path TEXT
//	);
//
// NULL columns read as empty strings.
func ReadSQL(ctx context.Context, db *sql.DB) (*Result, error) {
	rows, err := db.QueryContext(ctx, selectDevicesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	res := &Result{}
	for row := 0; rows.Next(); row++ {
		var name, identifier, ecid, generator, apnonce, bb, savePath sql.NullString
		if err := rows.Scan(&name, &identifier, &ecid, &generator, &apnonce, &bb, &savePath); err != nil {
			res.Dropped = append(res.Dropped, &ParseError{Record: fmt.Sprintf("row %d", row), Reason: err.Error()})
			continue
		}
		record := name.String
		if record == "" {
			record = fmt.Sprintf("row %d", row)
		}
		res.add(api.DeviceProfile{
			Name:           name.String,
			Identifier:     identifier.String,
			ECID:           ecid.String,
			Generator:      generator.String,
			APNonce:        apnonce.String,
			BasebandSerial: bb.String,
			SavePath:       savePath.String,
		}, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read devices: %w", err)
	}
	return res, nil
}
