// internal/analytics/ua.go
//
// User-agent attributes for page-view events.
//
// The parser enums stay inside this file; events carry plain strings so
// the analytics pipeline never depends on a Go library's naming.  Labels
// are the bare product names ("Chrome", "MacOSX"), not the parser's
// prefixed enum identifiers.
package analytics

import (
	"strconv"
	"strings"

	surfer "github.com/avct/uasurfer"
)

// UA is the device fingerprint attached to an Event.
type UA struct {
	Browser string `json:"browser"`
	Version string `json:"version,omitempty"`
	OS      string `json:"os"`
	Device  string `json:"device"`
	IsBot   bool   `json:"is_bot"`
}

var deviceLabels = map[surfer.DeviceType]string{
	surfer.DeviceComputer: "desktop",
	surfer.DevicePhone:    "mobile",
	surfer.DeviceWearable: "mobile",
	surfer.DeviceTablet:   "tablet",
	surfer.DeviceTV:       "tv",
}

// ParseUA extracts event labels from a raw User-Agent header.
func ParseUA(raw string) UA {
	parsed := surfer.Parse(raw)

	device, ok := deviceLabels[parsed.DeviceType]
	if !ok {
		device = "other"
	}

	return UA{
		Browser: enumLabel(parsed.Browser.Name.String(), "Browser"),
		Version: dotted(parsed.Browser.Version),
		OS:      enumLabel(parsed.OS.Name.String(), "OS"),
		Device:  device,
		IsBot:   parsed.IsBot(),
	}
}

// enumLabel turns the parser's enum identifier ("BrowserChrome") into the
// bare name ("Chrome").  Unrecognized agents come back as "unknown".
func enumLabel(s, prefix string) string {
	s = strings.TrimPrefix(s, prefix)
	if s == "" || s == "Unknown" {
		return "unknown"
	}
	return s
}

// dotted renders a version with trailing zero segments dropped, so
// 17.0.0 → "17" and 17.3.0 → "17.3".  All-zero means the parser found no
// version at all.
func dotted(v surfer.Version) string {
	segs := []int{v.Major, v.Minor, v.Patch}
	last := -1
	for i, s := range segs {
		if s != 0 {
			last = i
		}
	}
	if last == -1 {
		return ""
	}
	parts := make([]string, 0, last+1)
	for _, s := range segs[:last+1] {
		parts = append(parts, strconv.Itoa(s))
	}
	return strings.Join(parts, ".")
}
