package http

import "strings"

// BasePath derives the mount prefix from a request path: everything from the
// first slash to the last slash, inclusive. Paths with fewer than two slashes
// resolve to "/". A query string is ignored.
//
//	/coverage/show      -> /coverage/
//	/a/b/c/show         -> /a/b/c/
//	/coverage           -> /
func BasePath(requestPath string) string {
	if i := strings.IndexByte(requestPath, '?'); i >= 0 {
		requestPath = requestPath[:i]
	}
	first := strings.IndexByte(requestPath, '/')
	last := strings.LastIndexByte(requestPath, '/')
	if first < 0 || last <= first {
		return "/"
	}
	return requestPath[first : last+1]
}
