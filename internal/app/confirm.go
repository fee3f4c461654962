package app

import (
	"bufio"
	"fmt"
	"io"
	"net/mail"
	"strings"

	smail "dmcacli/internal/mail"
)

const previewRule = "======================================================================"

// previewText renders the full preview shown before a send, headers first,
// framed by rules so the body boundaries are unambiguous.
func previewText(env smail.Envelope, subject, body string) string {
	from := (&mail.Address{Name: env.FromName, Address: env.FromAddr}).String()
	var b strings.Builder
	b.WriteString(previewRule + "\n")
	b.WriteString("EMAIL PREVIEW\n")
	b.WriteString(previewRule + "\n")
	fmt.Fprintf(&b, "FROM:    %s\n", from)
	fmt.Fprintf(&b, "TO:      %s\n", env.To)
	if env.CC != "" {
		fmt.Fprintf(&b, "CC:      %s\n", env.CC)
	}
	fmt.Fprintf(&b, "SUBJECT: %s\n", subject)
	b.WriteString(previewRule + "\n\n")
	b.WriteString(body)
	b.WriteString("\n\n" + previewRule)
	return b.String()
}

// newConfirmer returns a confirmation prompt that shows the preview and reads
// one line from in. Only "y" or "yes", case-insensitive, dispatches; any other
// input, including EOF, declines.
func newConfirmer(in io.Reader, out io.Writer, env smail.Envelope) func(subject, body string) bool {
	r := bufio.NewReader(in)
	return func(subject, body string) bool {
		fmt.Fprintln(out, previewText(env, subject, body))
		fmt.Fprint(out, "\nSend this email? (y/n): ")
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}

// forcedConfirmer approves every send without prompting.
func forcedConfirmer(subject, body string) bool { return true }
