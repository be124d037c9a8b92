package catalog

import "strings"

// Image sizes served by the image CDN.
const (
	SizeThumb    = "w185"
	SizePoster   = "w500"
	SizeBackdrop = "w1280"
)

// ImageURL joins the CDN base, a size and an image path. An empty path yields
// an empty string so callers can show a placeholder.
func ImageURL(base, size, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + "/" + size + path
}
