/*
Package domain contains the core coverage models shared by the tally admin surface,
its stores and its report generator.

The package is kept free of I/O. Stores, collectors and object storage live in
adapters and talk to each other through the interfaces declared in package ports.

# Key Entities

  - LineHits: hit counts per 1-based source line of a single file.
  - Report: hit counts for every tracked file, keyed by path.
  - Action: the mutating operations exposed by the admin surface.
  - Notice: the status string carried back to the index page after an action.
*/
package domain
