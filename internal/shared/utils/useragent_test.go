package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		expected  UAInfo
	}{
		{
			name:      "chrome on macOS",
			userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			expected:  UAInfo{DeviceType: DeviceDesktop, OS: "macOS", Browser: "Chrome"},
		},
		{
			name:      "safari on iPhone",
			userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			expected:  UAInfo{DeviceType: DeviceMobile, OS: "iOS", Browser: "Safari"},
		},
		{
			// iPad carries no "mobile" token but must still classify as tablet
			name:      "safari on iPad",
			userAgent: "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/604.1",
			expected:  UAInfo{DeviceType: DeviceTablet, OS: "iOS", Browser: "Safari"},
		},
		{
			// Edge embeds "Chrome" in its UA, so edg must win
			name:      "edge on Windows",
			userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
			expected:  UAInfo{DeviceType: DeviceDesktop, OS: "Windows", Browser: "Edge"},
		},
		{
			name:      "firefox on Android tablet",
			userAgent: "Mozilla/5.0 (Android 14; Tablet; rv:121.0) Gecko/121.0 Firefox/121.0",
			expected:  UAInfo{DeviceType: DeviceTablet, OS: "Android", Browser: "Firefox"},
		},
		{
			name:      "empty user agent",
			userAgent: "",
			expected:  UAInfo{DeviceType: DeviceUnknown},
		},
		{
			name:      "unrecognized agent defaults to desktop",
			userAgent: "curl/8.4.0",
			expected:  UAInfo{DeviceType: DeviceDesktop},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseUserAgent(tt.userAgent))
		})
	}
}
