package app

import (
	"context"
	"errors"
	"flag"
	"io"

	"go.uber.org/zap"

	"dmcacli/internal/batch"
	"dmcacli/internal/config"
	"dmcacli/internal/mail"
	"dmcacli/internal/render"
	"dmcacli/internal/request"
)

var newDispatcherFn = func(cfg mail.SMTPConfig) mail.Dispatcher {
	return mail.NewSMTP(cfg)
}

func (a App) cmdRequest(action string, args []string, g globalOptions, cfg config.Config, logger *zap.Logger) (any, error) {
	switch action {
	case "validate":
		return a.cmdRequestValidate(args, g)
	case "preview":
		return a.cmdRequestPreview(args, g, cfg)
	case "send":
		return a.cmdRequestSend(args, g, cfg, logger)
	default:
		return nil, cliError{exit: 2, code: "usage_error", msg: "unknown request action: " + action}
	}
}

func (a App) cmdRequestValidate(args []string, g globalOptions) (any, error) {
	fs := flag.NewFlagSet("request validate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if data, handled, err := parseFlagSetWithHelp(fs, args, g, "request validate", a.Stdout); handled || err != nil {
		return data, err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return nil, cliError{exit: 2, code: "usage_error", msg: "at least one request file is required", hint: "Example: dmcacli request validate notice.json"}
	}
	resp := validateResponse{}
	for _, path := range paths {
		item := requestCheckItem{Path: path, OK: true}
		if _, err := request.Load(path); err != nil {
			item.OK = false
			item.Kind = string(batch.KindOf(err))
			item.Message = err.Error()
			var verr *request.ValidationError
			if errors.As(err, &verr) {
				item.Fields = verr.Fields
			}
			resp.Invalid++
		} else {
			resp.Valid++
		}
		resp.Requests = append(resp.Requests, item)
	}
	return resp, nil
}

func (a App) cmdRequestPreview(args []string, g globalOptions, cfg config.Config) (any, error) {
	fs := flag.NewFlagSet("request preview", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if data, handled, err := parseFlagSetWithHelp(fs, args, g, "request preview", a.Stdout); handled || err != nil {
		return data, err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return nil, cliError{exit: 2, code: "usage_error", msg: "at least one request file is required", hint: "Example: dmcacli request preview notice.json"}
	}
	env := envelopeFromConfig(cfg)
	resp := previewResponse{}
	for _, path := range paths {
		t, err := request.Load(path)
		if err != nil {
			resp.Items = append(resp.Items, previewItem{Path: path, OK: false, Kind: string(batch.KindOf(err)), Message: err.Error()})
			resp.Invalid++
			continue
		}
		email := render.Render(t)
		resp.Items = append(resp.Items, previewItem{Path: path, OK: true, Subject: email.Subject})
		resp.previews = append(resp.previews, previewText(env, email.Subject, email.Body))
		resp.Valid++
	}
	return resp, nil
}

func (a App) cmdRequestSend(args []string, g globalOptions, cfg config.Config, logger *zap.Logger) (any, error) {
	fs := flag.NewFlagSet("request send", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	forceFlag := fs.Bool("force", false, "send without the interactive confirmation prompt")
	if data, handled, err := parseFlagSetWithHelp(fs, args, g, "request send", a.Stdout); handled || err != nil {
		return data, err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return nil, cliError{exit: 2, code: "usage_error", msg: "at least one request file is required", hint: "Example: dmcacli request send notice.json"}
	}
	if g.dryRun {
		return a.cmdRequestPreview(paths, g, cfg)
	}
	force := g.force || *forceFlag
	if err := validateSendSafety(cfg, isNonInteractiveSend(g, runtimeStdinIsTTY()), force); err != nil {
		return nil, err
	}
	if cfg.SMTP.Security == mail.SecurityNone && !force {
		return nil, cliError{
			exit: 7,
			code: "insecure_transport",
			msg:  "refusing to send over an unencrypted SMTP connection",
			hint: "Switch smtp security to ssl or starttls, or pass --force",
		}
	}
	password, err := config.Password(cfg.SMTP)
	if err != nil {
		return nil, cliError{exit: 3, code: "config_error", msg: "cannot read SMTP password: " + err.Error(), hint: "Check the smtp password_file path or set " + config.PasswordEnv}
	}

	env := envelopeFromConfig(cfg)
	confirm := batch.ConfirmFunc(newConfirmer(a.Stdin, a.Stderr, env))
	if force {
		confirm = forcedConfirmer
	}
	runner := &batch.Runner{
		Confirm: confirm,
		Dispatcher: newDispatcherFn(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: password,
			Security: cfg.SMTP.Security,
		}),
		Envelope: env,
		Logger:   logger,
	}
	sum := runner.Run(context.Background(), paths)
	return newSendResponse(sum), nil
}

func envelopeFromConfig(cfg config.Config) mail.Envelope {
	return mail.Envelope{
		FromName: cfg.Addressing.FromName,
		FromAddr: cfg.Addressing.FromEmail,
		To:       cfg.Addressing.ToEmail,
		ReplyTo:  cfg.Addressing.ReplyTo,
		CC:       cfg.Addressing.CCEmail,
	}
}
