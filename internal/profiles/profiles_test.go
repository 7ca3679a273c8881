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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firedevel/blobsaver/api"
	"github.com/google/go-cmp/cmp"
)

const prefsXML = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<!DOCTYPE map SYSTEM "http://java.sun.com/dtd/preferences.dtd">
<preferences EXTERNAL_XML_VERSION="1.0">
  <root type="user">
    <map/>
    <node name="airsquared">
      <map/>
      <node name="blobsaver">
        <map/>
        <node name="app">
          <map>
            <entry key="Show Big Sur Warning" value="false"/>
          </map>
          <node name="Saved Devices">
            <node name="My iPhone">
              <map>
                <entry key="Save Path" value="/home/Blobs/phone"/>
                <entry key="Device Identifier" value="iPhone14,5"/>
                <entry key="ECID" value="1A2B3C"/>
                <entry key="Generator" value="0x1111111111111111"/>
                <entry key="Apnonce" value="abcdef"/>
                <entry key="BasebandSerialNumber" value="1234567890"/>
              </map>
            </node>
            <node name="Broken">
              <map>
                <entry key="Save Path" value="/home/Blobs/broken"/>
              </map>
            </node>
            <node name="My iPad">
              <map>
                <entry key="Save Path" value="/home/Blobs/pad"/>
                <entry key="Device Identifier" value="iPad13,1"/>
                <entry key="ECID" value="ABCDEF0123"/>
                <entry key="Generator" value="0x2222222222222222"/>
                <entry key="Apnonce" value="012345"/>
              </map>
            </node>
          </node>
        </node>
      </node>
    </node>
  </root>
</preferences>
`

var (
	wantPhone = api.DeviceProfile{
		Name:           "My iPhone",
		Identifier:     "iPhone14,5",
		ECID:           "1A2B3C",
		Generator:      "0x1111111111111111",
		APNonce:        "abcdef",
		BasebandSerial: "1234567890",
		SavePath:       "/home/Blobs/phone",
	}
	wantPad = api.DeviceProfile{
		Name:       "My iPad",
		Identifier: "iPad13,1",
		ECID:       "ABCDEF0123",
		Generator:  "0x2222222222222222",
		APNonce:    "012345",
		SavePath:   "/home/Blobs/pad",
	}
)

func checkResult(t *testing.T, got *Result, wantDropped []string) {
	t.Helper()
	if diff := cmp.Diff([]api.DeviceProfile{wantPhone, wantPad}, got.Devices); diff != "" {
		t.Errorf("Devices diff (-want +got):\n%s", diff)
	}
	var dropped []string
	for _, pe := range got.Dropped {
		dropped = append(dropped, pe.Record)
	}
	if diff := cmp.Diff(wantDropped, dropped); diff != "" {
		t.Errorf("Dropped diff (-want +got):\n%s", diff)
	}
}

func TestReadPrefsXML(t *testing.T) {
	got, err := ReadPrefsXML(strings.NewReader(prefsXML))
	if err != nil {
		t.Fatalf("ReadPrefsXML: %v", err)
	}
	checkResult(t, got, []string{"Broken"})
}

func TestReadPrefsXMLNoDevices(t *testing.T) {
	got, err := ReadPrefsXML(strings.NewReader(`<preferences><root type="user"><map/></root></preferences>`))
	if err != nil {
		t.Fatalf("ReadPrefsXML: %v", err)
	}
	if len(got.Devices) != 0 || len(got.Dropped) != 0 {
		t.Errorf("ReadPrefsXML = %+v, want empty", got)
	}
}

func TestReadPrefsXMLInvalid(t *testing.T) {
	if _, err := ReadPrefsXML(strings.NewReader("<preferences><root>")); err == nil {
		t.Error("ReadPrefsXML of truncated document succeeded")
	}
}

func TestReadYAML(t *testing.T) {
	doc := `
devices:
  - name: My iPhone
    identifier: iPhone14,5
    ecid: 1A2B3C
    generator: "0x1111111111111111"
    apnonce: abcdef
    baseband_serial: "1234567890"
    save_path: /home/Blobs/phone
  - save_path: /nowhere
  - name: My iPad
    identifier: iPad13,1
    ecid: ABCDEF0123
    generator: "0x2222222222222222"
    apnonce: "012345"
    save_path: /home/Blobs/pad
`
	got, err := ReadYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadYAML: %v", err)
	}
	checkResult(t, got, []string{"#1"})
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, stmt := range []string{
		`CREATE TABLE devices (id INTEGER PRIMARY KEY, name TEXT, identifier TEXT, ecid TEXT, generator TEXT, apnonce TEXT, baseband_serial TEXT, save_path TEXT)`,
		`INSERT INTO devices VALUES (1, 'My iPhone', 'iPhone14,5', '1A2B3C', '0x1111111111111111', 'abcdef', '1234567890', '/home/Blobs/phone')`,
		`INSERT INTO devices VALUES (2, NULL, 'iPhone14,5', NULL, NULL, NULL, NULL, NULL)`,
		`INSERT INTO devices VALUES (3, 'My iPad', 'iPad13,1', 'ABCDEF0123', '0x2222222222222222', '012345', NULL, '/home/Blobs/pad')`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	db.Close()

	got, err := Load(context.Background(), "sqlite3://"+path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	checkResult(t, got, []string{"row 1"})
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "blobsaver.xml")
	if err := os.WriteFile(xmlPath, []byte(prefsXML), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(context.Background(), xmlPath)
	if err != nil {
		t.Fatalf("Load(%q): %v", xmlPath, err)
	}
	checkResult(t, got, []string{"Broken"})

	if _, err := Load(context.Background(), filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}
