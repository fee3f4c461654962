package app

import (
	"bytes"
	"strings"
	"testing"

	smail "dmcacli/internal/mail"
)

func testEnvelope() smail.Envelope {
	return smail.Envelope{
		FromName: "Rights Holder",
		FromAddr: "holder@example.com",
		To:       "copyright@github.com",
	}
}

func TestConfirmerTokens(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"no\n", false},
		{"yep\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		confirm := newConfirmer(strings.NewReader(tt.input), &bytes.Buffer{}, testEnvelope())
		if got := confirm("s", "b"); got != tt.want {
			t.Fatalf("input %q: expected %v got %v", tt.input, tt.want, got)
		}
	}
}

func TestConfirmerShowsPreviewBeforePrompt(t *testing.T) {
	out := &bytes.Buffer{}
	confirm := newConfirmer(strings.NewReader("n\n"), out, testEnvelope())
	confirm("DMCA Takedown Notice from holder@example.com", "notice body")

	text := out.String()
	promptAt := strings.Index(text, "Send this email? (y/n):")
	bodyAt := strings.Index(text, "notice body")
	if bodyAt == -1 || promptAt == -1 || bodyAt > promptAt {
		t.Fatalf("preview must precede prompt:\n%s", text)
	}
}

func TestPreviewTextLayout(t *testing.T) {
	env := testEnvelope()
	env.CC = "legal@example.com"
	got := previewText(env, "Subject line", "body text")

	for _, want := range []string{
		previewRule,
		"EMAIL PREVIEW",
		`FROM:    "Rights Holder" <holder@example.com>`,
		"TO:      copyright@github.com",
		"CC:      legal@example.com",
		"SUBJECT: Subject line",
		"body text",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in preview:\n%s", want, got)
		}
	}
	if strings.Count(got, previewRule) != 3 {
		t.Fatalf("expected three rules, got %d", strings.Count(got, previewRule))
	}

	noCC := previewText(testEnvelope(), "s", "b")
	if strings.Contains(noCC, "CC:") {
		t.Fatalf("CC line must be omitted when empty:\n%s", noCC)
	}
}

func TestPreviewTextDeterministic(t *testing.T) {
	a := previewText(testEnvelope(), "s", "b")
	b := previewText(testEnvelope(), "s", "b")
	if a != b {
		t.Fatal("preview must be deterministic")
	}
}
