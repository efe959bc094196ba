package app

import "testing"

func TestMatchOriginPattern(t *testing.T) {
	cases := []struct {
		pattern string
		host    string
		want    bool
	}{
		{"shop.example.com", "shop.example.com", true},
		{"shop.example.com", "evil.example.com", false},
		{"*.example.com", "admin.example.com", true},
		{"*.example.com", "example.org", false},
		{"localhost:*", "localhost:5173", true},
		{"localhost:*", "remotehost:5173", false},
	}
	for _, tc := range cases {
		if got := matchOriginPattern(tc.pattern, tc.host); got != tc.want {
			t.Errorf("matchOriginPattern(%q, %q) = %v, want %v", tc.pattern, tc.host, got, tc.want)
		}
	}
}

func TestExtractOriginHost(t *testing.T) {
	if got := extractOriginHost("https://shop.example.com:8443"); got != "shop.example.com:8443" {
		t.Errorf("extractOriginHost = %q", got)
	}
	if got := extractOriginHost("not a url"); got != "not a url" {
		t.Errorf("extractOriginHost on garbage = %q", got)
	}
}
