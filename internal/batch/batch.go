// Package batch drives the per-file takedown pipeline: load, validate,
// render, confirm, dispatch. Files are processed strictly in input order and
// a failure in any stage is recorded and contained; it never stops the rest
// of the batch.
package batch

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"dmcacli/internal/mail"
	"dmcacli/internal/render"
	"dmcacli/internal/request"
)

type Kind string

const (
	KindSent            Kind = "sent"
	KindIOError         Kind = "io_error"
	KindParseError      Kind = "parse_error"
	KindValidationError Kind = "validation_error"
	KindUserDeclined    Kind = "user_declined"
	KindSendError       Kind = "send_error"
)

// Outcome is the terminal state of one file's pipeline run.
type Outcome struct {
	Path    string `json:"path"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message,omitempty"`
	Subject string `json:"subject,omitempty"`
}

func (o Outcome) Sent() bool { return o.Kind == KindSent }

// Summary accumulates outcomes for one run. Declined files are counted
// apart from failures so the report can show them separately, but they
// still mean "not sent".
type Summary struct {
	Outcomes []Outcome `json:"outcomes"`
	Sent     int       `json:"sent"`
	Declined int       `json:"declined"`
	Failed   int       `json:"failed"`
}

func (s Summary) Total() int { return len(s.Outcomes) }

// ConfirmFunc shows the rendered notice and blocks for a yes/no decision.
// Returning false must leave the dispatcher untouched.
type ConfirmFunc func(subject, body string) bool

type Runner struct {
	Confirm    ConfirmFunc
	Dispatcher mail.Dispatcher
	Envelope   mail.Envelope
	Logger     *zap.Logger
}

func (r *Runner) Run(ctx context.Context, paths []string) Summary {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var s Summary
	for _, path := range paths {
		o := r.processOne(ctx, log, path)
		s.Outcomes = append(s.Outcomes, o)
		switch o.Kind {
		case KindSent:
			s.Sent++
		case KindUserDeclined:
			s.Declined++
		default:
			s.Failed++
		}
	}
	return s
}

func (r *Runner) processOne(ctx context.Context, log *zap.Logger, path string) Outcome {
	log.Debug("loading request", zap.String("path", path))
	req, err := request.Load(path)
	if err != nil {
		log.Debug("request rejected", zap.String("path", path), zap.Error(err))
		return Outcome{Path: path, Kind: KindOf(err), Message: err.Error()}
	}

	email := render.Render(req)
	log.Debug("notice rendered", zap.String("path", path), zap.String("subject", email.Subject))

	if !r.Confirm(email.Subject, email.Body) {
		log.Debug("send declined", zap.String("path", path))
		return Outcome{Path: path, Kind: KindUserDeclined, Message: "sending declined by user", Subject: email.Subject}
	}

	msg := r.Envelope.Message(email.Subject, email.Body)
	if err := r.Dispatcher.Send(ctx, msg); err != nil {
		log.Debug("dispatch failed", zap.String("path", path), zap.Error(err))
		return Outcome{Path: path, Kind: KindSendError, Message: err.Error(), Subject: email.Subject}
	}
	log.Debug("notice sent", zap.String("path", path))
	return Outcome{Path: path, Kind: KindSent, Subject: email.Subject}
}

// KindOf classifies a load failure by its error type.
func KindOf(err error) Kind {
	var perr *request.ParseError
	if errors.As(err, &perr) {
		return KindParseError
	}
	var verr *request.ValidationError
	if errors.As(err, &verr) {
		return KindValidationError
	}
	return KindIOError
}
