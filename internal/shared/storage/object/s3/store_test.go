package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "owner/report.pdf", want: "owner/report.pdf"},
		{name: "simple prefix", prefix: "documents", key: "owner/report.pdf", want: "documents/owner/report.pdf"},
		{name: "prefix trailing slash", prefix: "documents/", key: "owner/report.pdf", want: "documents/owner/report.pdf"},
		{name: "prefix and key slashes", prefix: "/documents/", key: "/owner/report.pdf", want: "documents/owner/report.pdf"},
		{name: "nested prefix", prefix: "tenant/documents", key: "owner/report.pdf", want: "tenant/documents/owner/report.pdf"},
		{name: "empty key", prefix: "documents", key: "", want: "documents"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tc.prefix, tc.key); got != tc.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tc.prefix, tc.key, got, tc.want)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	if got := normalizePrefix("  /documents/ "); got != "documents" {
		t.Fatalf("unexpected prefix %q", got)
	}
}
