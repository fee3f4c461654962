package mail

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeMessageHeaders(t *testing.T) {
	msg := Envelope{
		FromName: "Mr. Admin",
		FromAddr: "admin@example.com",
		To:       "copyright@github.com",
		ReplyTo:  "admin@example.com",
		CC:       "legal@example.com",
	}.Message("DMCA Takedown Notice from Jane Doe", "notice body")

	raw := string(encode(msg))
	head, body, ok := strings.Cut(raw, "\r\n\r\n")
	if !ok {
		t.Fatalf("missing header/body separator:\n%s", raw)
	}
	if body != "notice body" {
		t.Fatalf("body = %q", body)
	}
	for _, want := range []string{
		`From: "Mr. Admin" <admin@example.com>`,
		"To: copyright@github.com",
		"Reply-To: admin@example.com",
		"Cc: legal@example.com",
		"Subject: DMCA Takedown Notice from Jane Doe",
		"Content-Type: text/plain; charset=UTF-8",
	} {
		if !strings.Contains(head, want) {
			t.Fatalf("headers missing %q:\n%s", want, head)
		}
	}
}

func TestEncodeMessageOmitsEmptyOptionalHeaders(t *testing.T) {
	msg := Envelope{
		FromName: "Admin",
		FromAddr: "admin@example.com",
		To:       "copyright@github.com",
	}.Message("subject", "body")

	raw := string(encode(msg))
	if strings.Contains(raw, "Reply-To:") || strings.Contains(raw, "Cc:") {
		t.Fatalf("optional headers present when unset:\n%s", raw)
	}
}

func TestEncodeFoldsLineBreaksInHeaderValues(t *testing.T) {
	msg := Envelope{
		FromName: "Admin",
		FromAddr: "admin@example.com",
		To:       "copyright@github.com",
	}.Message("DMCA Takedown Notice from Jane\r\nBcc: evil@example.com", "body")

	raw := string(encode(msg))
	head, _, _ := strings.Cut(raw, "\r\n\r\n")
	for _, line := range strings.Split(head, "\r\n") {
		if strings.HasPrefix(line, "Bcc:") {
			t.Fatalf("subject line break became a header:\n%s", head)
		}
	}
	if !strings.Contains(head, "Subject: DMCA Takedown Notice from Jane Bcc: evil@example.com") {
		t.Fatalf("expected folded subject:\n%s", head)
	}

	for _, sep := range []string{"\r", "\n"} {
		msg := Envelope{
			FromAddr: "admin@example.com",
			To:       "copyright@github.com" + sep + "Bcc: evil@example.com",
		}.Message("s", "b")
		head, _, _ := strings.Cut(string(encode(msg)), "\r\n\r\n")
		for _, line := range strings.Split(head, "\r\n") {
			if strings.HasPrefix(line, "Bcc:") {
				t.Fatalf("recipient line break became a header:\n%s", head)
			}
		}
	}
}

func TestRecipientsIncludeCC(t *testing.T) {
	e := Envelope{To: "copyright@github.com", CC: "legal@example.com"}
	got := recipients(e)
	if len(got) != 2 || got[0] != "copyright@github.com" || got[1] != "legal@example.com" {
		t.Fatalf("recipients = %v", got)
	}
	if got := recipients(Envelope{To: "copyright@github.com"}); len(got) != 1 {
		t.Fatalf("recipients without cc = %v", got)
	}
}

func TestCheckTCPUnreachable(t *testing.T) {
	hs := CheckTCP("127.0.0.1", 1, 100*time.Millisecond, "smtp")
	if hs.OK {
		t.Fatal("expected probe failure on closed port")
	}
	if hs.Addr != "127.0.0.1:1" {
		t.Fatalf("addr = %q", hs.Addr)
	}
}
