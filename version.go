package tally

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release version stamped into the admin page and reports.
var Version = strings.TrimSpace(rawVersion)
