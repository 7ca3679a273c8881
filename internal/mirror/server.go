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

// Package mirror serves firmware listings from local snapshots, so that a
// run can be made against a pinned copy of the catalog.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/firedevel/blobsaver/internal/catalog"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
)

// Upstream fetches raw listings for identifiers missing from the snapshots.
type Upstream interface {
	Raw(ctx context.Context, identifier string) ([]byte, error)
}

// Server is the core state & handler implementation of the catalog mirror.
type Server struct {
	// SnapshotDir holds one <identifier>.json listing per device.
	SnapshotDir string
	// Upstream, if set, is consulted for listings without a snapshot.
	// Fetched listings are written to SnapshotDir.
	Upstream Upstream
}

func (s *Server) snapshotPath(identifier string) (string, error) {
	if identifier == "" || strings.ContainsAny(identifier, `/\`) || strings.HasPrefix(identifier, ".") {
		return "", fmt.Errorf("invalid identifier %q", identifier)
	}
	return filepath.Join(s.SnapshotDir, identifier+".json"), nil
}

// getDevice returns the listing for the identifier in the path.
// The query string is accepted and ignored.
func (s *Server) getDevice(w http.ResponseWriter, r *http.Request) {
	identifier := mux.Vars(r)["identifier"]
	path, err := s.snapshotPath(identifier)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && s.Upstream != nil:
		raw, err = s.fill(r.Context(), identifier, path)
		if err != nil {
			glog.Warningf("Upstream fetch for %q failed: %v", identifier, err)
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	case errors.Is(err, os.ErrNotExist):
		http.NotFound(w, r)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

// fill fetches a listing upstream and stores it as a snapshot.
// Listings which don't parse are not stored.
func (s *Server) fill(ctx context.Context, identifier, path string) ([]byte, error) {
	raw, err := s.Upstream.Raw(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if _, err := catalog.ParseListing(raw); err != nil {
		return nil, fmt.Errorf("upstream listing for %q: %w", identifier, err)
	}
	glog.V(1).Infof("Saving upstream listing for %q to %q", identifier, path)
	if err := writeSnapshot(path, raw); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return raw, nil
}

// writeSnapshot replaces path atomically, so readers see either no snapshot
// or a complete one.
func writeSnapshot(path string, raw []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(raw); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// RegisterHandlers registers HTTP handlers for the mirror endpoints.
func (s *Server) RegisterHandlers(r *mux.Router) {
	r.HandleFunc("/{identifier}", s.getDevice).Methods(http.MethodGet)
}
