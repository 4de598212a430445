package utils

import "strings"

// UAInfo is the device context sniffed from a User-Agent header. It is
// descriptive only and never used for trust decisions.
type UAInfo struct {
	DeviceType string
	OS         string
	Browser    string
}

// Device type values produced by ParseUserAgent.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceUnknown = "unknown"
)

// ParseUserAgent extracts coarse device information from a User-Agent string.
// An empty user agent yields DeviceUnknown.
func ParseUserAgent(userAgent string) UAInfo {
	if userAgent == "" {
		return UAInfo{DeviceType: DeviceUnknown}
	}

	ua := strings.ToLower(userAgent)

	deviceType := DeviceDesktop
	if strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad") {
		deviceType = DeviceTablet
	} else if strings.Contains(ua, "mobile") {
		deviceType = DeviceMobile
	}

	var os string
	switch {
	case strings.Contains(ua, "windows"):
		os = "Windows"
	case strings.Contains(ua, "android"):
		os = "Android"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ios"):
		os = "iOS"
	case strings.Contains(ua, "mac"):
		os = "macOS"
	case strings.Contains(ua, "linux"):
		os = "Linux"
	}

	var browser string
	switch {
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	}

	return UAInfo{
		DeviceType: deviceType,
		OS:         os,
		Browser:    browser,
	}
}
