package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		ua         string
		wantDevice string
		wantBrowser string
		wantOS     string
	}{
		{
			name:        "iphone safari",
			ua:          "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			wantDevice:  DeviceMobile,
			wantBrowser: "Safari",
			wantOS:      "iOS",
		},
		{
			name:        "android chrome mobile",
			ua:          "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			wantDevice:  DeviceMobile,
			wantBrowser: "Chrome",
			wantOS:      "Android",
		},
		{
			name:        "windows edge",
			ua:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
			wantDevice:  DeviceDesktop,
			wantBrowser: "Edge",
			wantOS:      "Windows",
		},
		{
			name:        "ipad is tablet not mobile",
			ua:          "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
			wantDevice:  DeviceTablet,
			wantBrowser: "Safari",
			wantOS:      "iOS",
		},
		{
			name:        "mac firefox",
			ua:          "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:121.0) Gecko/20100101 Firefox/121.0",
			wantDevice:  DeviceDesktop,
			wantBrowser: "Firefox",
			wantOS:      "macOS",
		},
		{
			name:        "linux opera",
			ua:          "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 OPR/106.0.0.0",
			wantDevice:  DeviceDesktop,
			wantBrowser: "Opera",
			wantOS:      "Linux",
		},
		{
			name:        "empty user agent",
			ua:          "",
			wantDevice:  DeviceDesktop,
			wantBrowser: Unknown,
			wantOS:      Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device, browser, os := Classify(tt.ua)
			assert.Equal(t, tt.wantDevice, device)
			assert.Equal(t, tt.wantBrowser, browser)
			assert.Equal(t, tt.wantOS, os)
		})
	}
}
