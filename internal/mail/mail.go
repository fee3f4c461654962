// Package mail is the delivery boundary. The batch pipeline only sees the
// Dispatcher interface; tests substitute stubs and never open a connection.
package mail

import "context"

// Envelope is the fixed addressing for a run, taken from configuration.
type Envelope struct {
	FromName string
	FromAddr string
	To       string
	ReplyTo  string
	CC       string
}

// Message is one fully-composed notice ready for delivery.
type Message struct {
	Envelope
	Subject string
	Body    string
}

func (e Envelope) Message(subject, body string) Message {
	return Message{Envelope: e, Subject: subject, Body: body}
}

// Dispatcher delivers a composed message. Implementations report failure
// through the returned error; the caller records the reason verbatim.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}
