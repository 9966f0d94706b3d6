// Package imagecdn rewrites CMS image URLs to request resized renditions.
package imagecdn

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DesktopHeight is the gallery image height on wide viewports
	DesktopHeight = 500
	// MobileHeight is the gallery image height on narrow viewports
	MobileHeight = 300

	hygraphHostSuffix = "graphassets.com"
)

// Resize asks the Hygraph CDN for a rendition constrained to height pixels,
// keeping the aspect ratio and letting the CDN pick the format. URLs from
// any other host are returned unchanged.
func Resize(raw string, height int) string {
	if raw == "" || height <= 0 {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil || !isHygraphHost(u.Hostname()) {
		return raw
	}

	q := u.Query()
	q.Set("h", strconv.Itoa(height))
	q.Set("fit", "max")
	q.Set("auto", "format")
	u.RawQuery = q.Encode()
	return u.String()
}

// Desktop resizes for wide viewports
func Desktop(raw string) string {
	return Resize(raw, DesktopHeight)
}

// Mobile resizes for narrow viewports
func Mobile(raw string) string {
	return Resize(raw, MobileHeight)
}

func isHygraphHost(host string) bool {
	host = strings.ToLower(host)
	return host == hygraphHostSuffix || strings.HasSuffix(host, "."+hygraphHostSuffix)
}
