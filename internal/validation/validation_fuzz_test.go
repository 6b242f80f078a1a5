package validation

import (
	"net/url"
	"strings"
	"testing"
)

func FuzzValidateURL(f *testing.F) {
	f.Add("http://localhost:6006")
	f.Add("https://example.com/render/default")
	f.Add("javascript:alert('xss')")
	f.Add("file:///etc/passwd")
	f.Add("http://localhost:6006; rm -rf /")
	f.Add("http://localhost:6006`whoami`")
	f.Add("http://localhost:6006\r\nHost: evil.com")
	f.Add("http://")
	f.Add("")

	f.Fuzz(func(t *testing.T, testURL string) {
		if ValidateURL(testURL) != nil {
			return
		}

		parsed, err := url.Parse(testURL)
		if err != nil {
			t.Fatalf("ValidateURL passed but url.Parse failed for %q", testURL)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			t.Errorf("ValidateURL passed for scheme %q", parsed.Scheme)
		}
		if parsed.Host == "" {
			t.Errorf("ValidateURL passed without a host: %q", testURL)
		}
		if strings.ContainsAny(testURL, ";&|`$()<>\"'\\\n\r ") {
			t.Errorf("ValidateURL passed for dangerous URL: %q", testURL)
		}
	})
}

func FuzzValidateStoryName(f *testing.F) {
	f.Add("default")
	f.Add("with-20-languages")
	f.Add("../etc/passwd")
	f.Add("Default")
	f.Add("")

	f.Fuzz(func(t *testing.T, name string) {
		if ValidateStoryName(name) != nil {
			return
		}

		if name == "" || strings.Contains(name, "..") {
			t.Errorf("ValidateStoryName passed for %q", name)
		}
		for _, r := range name {
			if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
				t.Errorf("ValidateStoryName passed for %q with %q", name, r)
			}
		}
	})
}
