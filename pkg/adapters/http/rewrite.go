package http

import "strings"

const (
	loadingGIF = "loading.gif"
	imagesDir  = "/images/"
)

var attrOpeners = []string{"src='", "href='"}

// Values starting with these are never re-rooted.
var absoluteRefs = []string{"http://", "https://", "//", "#", "data:", "mailto:", "javascript:"}

// RewriteReport re-roots the asset references of a stored report under base:
//
//	src='    -> src='<base>
//	href='   -> href='<base>
//	loading.gif -> <base>loading.gif
//	/images/    -> <base>images/
//
// The substitutions are applied in a single left-to-right pass so an attribute
// whose value is itself loading.gif or under /images/ is prefixed once, not twice.
// References already under base, absolute URLs and fragment links are left alone,
// which makes the rewrite idempotent.
func RewriteReport(doc, base string) string {
	var b strings.Builder
	b.Grow(len(doc) + len(doc)/8)

	for i := 0; i < len(doc); {
		rest := doc[i:]

		if attr, ok := attrAt(rest); ok {
			b.WriteString(attr)
			i += len(attr)
			value := doc[i:]
			switch {
			case strings.HasPrefix(value, imagesDir):
				b.WriteString(base)
				b.WriteString(imagesDir[1:])
				i += len(imagesDir)
			case strings.HasPrefix(value, loadingGIF):
				b.WriteString(base)
				b.WriteString(loadingGIF)
				i += len(loadingGIF)
			case keepRef(value, base):
			default:
				b.WriteString(base)
			}
			continue
		}

		if strings.HasPrefix(rest, loadingGIF) {
			if !endsWithRef(doc[:i], base) {
				b.WriteString(base)
			}
			b.WriteString(loadingGIF)
			i += len(loadingGIF)
			continue
		}

		if strings.HasPrefix(rest, imagesDir) {
			if endsWithRef(doc[:i], strings.TrimSuffix(base, "/")) {
				b.WriteString(imagesDir)
			} else {
				b.WriteString(base)
				b.WriteString(imagesDir[1:])
			}
			i += len(imagesDir)
			continue
		}

		b.WriteByte(doc[i])
		i++
	}
	return b.String()
}

// endsWithRef reports whether before ends with prefix as a whole path prefix:
// nothing, a quote, a paren, '=', '/' or space comes before it.
// With the root base "url(/loading.gif" counts as prefixed, "img/loading.gif" does not.
func endsWithRef(before, prefix string) bool {
	if !strings.HasSuffix(before, prefix) {
		return false
	}
	rest := before[:len(before)-len(prefix)]
	if rest == "" {
		return true
	}
	return strings.ContainsRune("'\"(=/ \t\n", rune(rest[len(rest)-1]))
}

func attrAt(s string) (string, bool) {
	for _, attr := range attrOpeners {
		if strings.HasPrefix(s, attr) {
			return attr, true
		}
	}
	return "", false
}

func keepRef(value, base string) bool {
	if strings.HasPrefix(value, base) {
		return true
	}
	for _, ref := range absoluteRefs {
		if strings.HasPrefix(value, ref) {
			return true
		}
	}
	return false
}
