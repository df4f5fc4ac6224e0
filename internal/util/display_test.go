package util

import (
	"strings"
	"testing"
)

func TestSnippetCleansAndTruncates(t *testing.T) {
	in := "Measurement of the\x00  Higgs   boson\nproduction cross section at 13 TeV"
	out := Snippet(in, 30)
	if strings.Contains(out, "\x00") || strings.Contains(out, "\n") {
		t.Fatalf("snippet still contains control characters: %q", out)
	}
	if !strings.HasSuffix(out, "...") {
		t.Fatalf("expected truncation marker, got: %q", out)
	}
	if len([]rune(out)) > 34 {
		t.Fatalf("snippet too long: %q", out)
	}
}

func TestSnippetShortInputUnchanged(t *testing.T) {
	if got := Snippet("short title", 80); got != "short title" {
		t.Fatalf("unexpected snippet: %q", got)
	}
}
