/*
Package ports defines the driven ports (interfaces) consumed by the tally admin surface.

These interfaces decouple request dispatch from the concrete store, collector,
report generator and object storage, so each can be swapped per deployment.

# Key Interfaces

  - CoverageStore: persists per-file, per-line hit counts (memory, Redis or SQLite).
  - Collector: flushes in-process coverage into the store.
  - ReportGenerator: renders the static HTML report into object storage.
  - ObjectStorage: reads and writes rendered report documents (S3 or local files).
  - Reloader: optional capability to re-read settings files and reconfigure.
*/
package ports
