/*
Package tally is a line-coverage service with an HTTP admin surface.

Coverage hits are merged into a pluggable store (memory, Redis or SQLite), an
HTML report is rendered from the store and written to object storage (local
files or S3), and a small dispatcher mounted under any path lets operators
drive the lifecycle from a browser.

# Admin Surface

Every POST action answers with a 301 redirect back to the mount point carrying
a notice in the query string:

	POST <mount>/clear             discard all recorded coverage
	POST <mount>/update_report     render the report into object storage
	POST <mount>/collect_coverage  flush buffered hits and changed profiles
	POST <mount>/reload_files      re-read the settings files and reconfigure

GET <mount>/ renders the index, GET <mount>/show serves the stored report with
its asset references rewritten under the mount point, and stylesheet, script
and image requests are served from embedded assets.

# Usage

The tally binary wires everything from TALLY_* environment variables:

	TALLY_STORE=redis TALLY_REDIS_ADDR=localhost:6379 tally serve --mount /coverage

Library consumers compose the packages directly:

	store := memory.NewStore()
	gen := report.New(file.New(".tally/reports"), "tally")
	admin := http.New(http.Config{Store: store, Generator: gen, Collector: collector.New(store)})
*/
package tally
