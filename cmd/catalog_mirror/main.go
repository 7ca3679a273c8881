// This package is the entrypoint for the offline firmware catalog mirror.
//
// Point blobsaver at it with --api_url=http://localhost:8000/device.
package main

import (
	"flag"
	"net/http"
	"net/url"

	"github.com/firedevel/blobsaver/internal/catalog"
	"github.com/firedevel/blobsaver/internal/mirror"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
)

var (
	listenAddr  = flag.String("listen", ":8000", "Address:port to listen for requests on")
	snapshotDir = flag.String("snapshot_dir", "", "Directory holding <identifier>.json listings")
	upstreamURL = flag.String("upstream_url", "", "Catalog device endpoint to fill missing snapshots from, e.g. "+catalog.DefaultURL)
)

func main() {
	flag.Parse()
	if *snapshotDir == "" {
		glog.Exit("--snapshot_dir must not be empty")
	}

	srv := &mirror.Server{SnapshotDir: *snapshotDir}
	if *upstreamURL != "" {
		u, err := url.Parse(*upstreamURL)
		if err != nil {
			glog.Exitf("upstream_url is invalid: %v", err)
		}
		srv.Upstream = &catalog.Client{BaseURL: u}
	}

	r := mux.NewRouter()
	srv.RegisterHandlers(r.PathPrefix("/device").Subrouter())

	glog.Infof("Starting catalog mirror on %s...", *listenAddr)
	glog.Fatal(http.ListenAndServe(*listenAddr, r))
}
