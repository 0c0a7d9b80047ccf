package object

import (
	"errors"
	"strings"
	"testing"
)

func TestCleanFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "report.pdf", want: "report.pdf"},
		{in: " q3/summary.docx ", want: "q3_summary.docx"},
		{in: `dir\file.txt`, want: "dir_file.txt"},
		{in: "tab\there.txt", want: "tabhere.txt"},
		{in: "../secret", want: ".._secret"},
		{in: "v1..2.pdf", want: "v1..2.pdf"},
		{in: "..", wantErr: true},
		{in: " . ", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "\x00\x01", wantErr: true},
	}
	for _, tc := range cases {
		got, err := CleanFileName(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidFileName) {
				t.Fatalf("CleanFileName(%q): expected ErrInvalidFileName, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("CleanFileName(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestCleanFileNameKeepsExtensionWhenTruncating(t *testing.T) {
	long := strings.Repeat("a", 300) + ".pdf"
	got, err := CleanFileName(long)
	if err != nil {
		t.Fatalf("CleanFileName: %v", err)
	}
	if len([]rune(got)) != maxFileNameRunes || !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("unexpected truncation: len=%d suffix=%q", len(got), got[len(got)-4:])
	}
}

func TestNamespaceDirIsStableHex(t *testing.T) {
	got := namespaceDir("user-7f3c")
	if got != namespaceDir("user-7f3c") {
		t.Fatalf("expected stable namespace dir")
	}
	if len(got) != 64 || strings.Trim(got, "0123456789abcdef") != "" {
		t.Fatalf("expected 64 hex chars, got %q", got)
	}
	if got == namespaceDir("user-7f3d") {
		t.Fatalf("expected distinct namespaces to differ")
	}
}
