package report

import (
	"path"
	"strings"
)

// Settings tune what the generated report shows.
// They are replaced as a whole when safe-reload files are reloaded.
type Settings struct {
	// Title heads the report page.
	Title string `mapstructure:"title" yaml:"title"`

	// Ignore lists path.Match patterns; matching files are left out of the report.
	// A pattern also matches any file below a matching directory.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Root is trimmed from the front of displayed file paths.
	Root string `mapstructure:"root" yaml:"root"`
}

// DefaultSettings returns the settings used before any reload.
func DefaultSettings() Settings {
	return Settings{Title: "Coverage Report"}
}

// Ignored reports whether file matches an ignore pattern.
func (s Settings) Ignored(file string) bool {
	for _, pattern := range s.Ignore {
		if ok, _ := path.Match(pattern, file); ok {
			return true
		}
		// Let "vendor" or "internal/gen/*" cover everything below them.
		for dir := path.Dir(file); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if ok, _ := path.Match(pattern, dir); ok {
				return true
			}
		}
	}
	return false
}

// DisplayName strips Root from file.
func (s Settings) DisplayName(file string) string {
	if s.Root == "" {
		return file
	}
	root := strings.TrimSuffix(s.Root, "/") + "/"
	return strings.TrimPrefix(file, root)
}
