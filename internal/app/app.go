package app

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dmcacli/internal/config"
	"dmcacli/internal/logging"
	"dmcacli/internal/mail"
	"dmcacli/internal/output"
)

type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

type globalOptions struct {
	mode     output.Mode
	noInput  bool
	profile  string
	dryRun   bool
	force    bool
	verbose  bool
	showHelp bool
	showVer  bool
	config   string
}

type cliError struct {
	exit int
	code string
	msg  string
	hint string
}

func (e cliError) Error() string { return e.msg }

var (
	runtimeStdinReader io.Reader = os.Stdin
	runtimeStdout      io.Writer = os.Stdout
	runtimeStderr      io.Writer = os.Stderr
	runtimeStdinIsTTY            = func() bool { return isTTY(os.Stdin) }
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func Run(args []string, in io.Reader, out io.Writer, errw io.Writer) int {
	a := App{Stdout: out, Stderr: errw, Stdin: in}
	return a.run(args)
}

func bindRuntimeIO(a App) func() {
	prevIn := runtimeStdinReader
	prevOut := runtimeStdout
	prevErr := runtimeStderr
	prevTTY := runtimeStdinIsTTY

	runtimeStdinReader = a.Stdin
	runtimeStdout = a.Stdout
	runtimeStderr = a.Stderr
	runtimeStdinIsTTY = func() bool {
		if f, ok := a.Stdin.(*os.File); ok {
			return isTTY(f)
		}
		return false
	}

	return func() {
		runtimeStdinReader = prevIn
		runtimeStdout = prevOut
		runtimeStderr = prevErr
		runtimeStdinIsTTY = prevTTY
	}
}

func (a App) run(args []string) int {
	restoreIO := bindRuntimeIO(a)
	defer restoreIO()

	start := time.Now()
	requestID := "req_" + uuid.NewString()
	g, rest, err := parseGlobal(args)
	if err != nil {
		mode := g.mode
		if mode == "" {
			mode = output.ModeHuman
		}
		_ = output.PrintError(a.Stdout, mode, "usage_error", err.Error(), "Use --help for usage", "usage", false, g.profile, requestID, start)
		return 2
	}
	if g.showVer {
		fmt.Fprintf(a.Stdout, "dmcacli %s (%s) %s\n", Version, Commit, Date)
		return 0
	}
	if g.showHelp || len(rest) == 0 {
		printHelp(a.Stdout)
		return 0
	}
	if err := validateNoLateGlobalFlags(rest); err != nil {
		return a.exitWithError(err, fallbackMode(g.mode), g.profile, requestID, start)
	}

	cfgPath := g.config
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}

	if rest[0] == "completion" {
		if err := cmdCompletion(a.Stdout, rest[1:]); err != nil {
			return a.exitWithError(err, fallbackMode(g.mode), g.profile, requestID, start)
		}
		return 0
	}

	if rest[0] == "setup" {
		if err := a.cmdSetup(rest[1:], g, cfgPath); err != nil {
			return a.exitWithError(err, fallbackMode(g.mode), g.profile, requestID, start)
		}
		_ = output.PrintSuccess(a.Stdout, fallbackMode(g.mode), setupResponse{Configured: true, ConfigPath: cfgPath}, g.profile, requestID, start)
		return 0
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		ce := cliError{exit: 3, code: "config_error", msg: "cannot load configuration: " + err.Error(), hint: "Check " + cfgPath}
		if errors.Is(err, os.ErrNotExist) {
			ce = cliError{exit: 3, code: "config_missing", msg: "configuration not found", hint: "Run dmcacli setup first"}
		}
		return a.exitWithError(ce, fallbackMode(g.mode), g.profile, requestID, start)
	}
	if g.profile == "" {
		g.profile = cfg.Profile
	}
	if g.mode == "" {
		g.mode = output.Mode(cfg.Output)
	}
	if g.mode == "" {
		g.mode = output.ModeHuman
	}

	logger := logging.New(g.verbose)
	defer func() { _ = logger.Sync() }()

	data, err := a.dispatch(rest, g, cfg, logger)
	if err != nil {
		return a.exitWithError(err, g.mode, g.profile, requestID, start)
	}
	exitCode := normalizeExitCode(data)
	_ = output.PrintSuccess(a.Stdout, g.mode, data, g.profile, requestID, start)
	return exitCode
}

func fallbackMode(m output.Mode) output.Mode {
	if m == "" {
		return output.ModeHuman
	}
	return m
}

func normalizeExitCode(data any) int {
	type exitCoder interface {
		ExitCode() int
	}
	if withExit, ok := data.(exitCoder); ok {
		if code := withExit.ExitCode(); code > 0 {
			return code
		}
	}
	return 0
}

func (a App) exitWithError(err error, mode output.Mode, profile, requestID string, start time.Time) int {
	var ce cliError
	if errors.As(err, &ce) {
		if ce.hint != "" {
			fmt.Fprintln(a.Stderr, ce.hint)
		}
		classified := classifyCLIError(ce.code, ce.exit)
		_ = output.PrintError(a.Stdout, mode, ce.code, ce.msg, ce.hint, classified.Category, classified.Retryable, profile, requestID, start)
		return ce.exit
	}
	_ = output.PrintError(a.Stdout, mode, "runtime_error", err.Error(), "", "runtime", false, profile, requestID, start)
	return 1
}

func parseGlobal(args []string) (globalOptions, []string, error) {
	g := globalOptions{}
	i := 0
	for i < len(args) {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			break
		}
		switch a {
		case "--json":
			g.mode = output.ModeJSON
		case "--plain":
			g.mode = output.ModePlain
		case "--no-input":
			g.noInput = true
		case "--dry-run", "-n":
			g.dryRun = true
		case "--force":
			g.force = true
		case "--verbose":
			g.verbose = true
		case "--help", "-h":
			g.showHelp = true
		case "--version":
			g.showVer = true
		case "--profile":
			i++
			if i >= len(args) {
				return g, nil, fmt.Errorf("missing value for --profile")
			}
			g.profile = args[i]
		case "--config":
			i++
			if i >= len(args) {
				return g, nil, fmt.Errorf("missing value for --config")
			}
			g.config = args[i]
		default:
			return g, nil, fmt.Errorf("unknown global flag: %s", a)
		}
		i++
	}
	return g, args[i:], nil
}

func validateNoLateGlobalFlags(rest []string) error {
	lateGlobals := map[string]bool{
		"--json":     true,
		"--plain":    true,
		"--no-input": true,
		"--dry-run":  true,
		"--verbose":  true,
		"-n":         true,
	}
	for _, a := range rest[1:] {
		if lateGlobals[a] {
			return cliError{
				exit: 2,
				code: "usage_error",
				msg:  fmt.Sprintf("global flag %s must appear before the resource", a),
				hint: "Example: dmcacli --json request validate notice.json",
			}
		}
	}
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `dmcacli - DMCA takedown notice sender

Usage:
  dmcacli [global flags] <resource> <action> [args]
  dmcacli setup [flags]
  dmcacli doctor
  dmcacli completion <bash|zsh|fish>

Resources:
  setup
  request    validate|preview|send
  doctor

Exit status is 0 only when every requested notice was sent. A declined
confirmation, a validation failure, or a delivery failure yields 1.

Global flags:
  --json --plain --no-input --dry-run --force --verbose
  --profile <name> --config <path>
  -h, --help  --version`)
}

func (a App) cmdSetup(args []string, g globalOptions, cfgPath string) error {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	interactive := fs.Bool("interactive", false, "interactive prompts")
	nonInteractive := fs.Bool("non-interactive", false, "disable prompts")
	smtpHost := fs.String("smtp-host", "", "SMTP server host")
	smtpPort := fs.Int("smtp-port", 465, "SMTP server port")
	smtpUser := fs.String("smtp-username", "", "SMTP username")
	passwordFile := fs.String("smtp-password-file", "", "path to SMTP password file")
	security := fs.String("smtp-security", mail.SecuritySSL, "connection security: ssl, starttls or none")
	fromEmail := fs.String("from-email", "", "sender address")
	fromName := fs.String("from-name", "", "sender display name")
	replyTo := fs.String("reply-to", "", "Reply-To address")
	ccEmail := fs.String("cc-email", "", "CC address")
	toEmail := fs.String("to-email", "copyright@github.com", "recipient address")
	profile := fs.String("profile", "default", "profile name")
	if err := fs.Parse(args); err != nil {
		return cliError{exit: 2, code: "usage_error", msg: err.Error()}
	}
	useInteractive := *interactive || (!*nonInteractive && !g.noInput && runtimeStdinIsTTY())
	cfg := config.Default()
	cfg.Profile = *profile
	if useInteractive {
		r := bufio.NewReader(a.Stdin)
		prompt := func(label string, set func(string)) {
			fmt.Fprint(a.Stderr, label)
			if v, _ := r.ReadString('\n'); strings.TrimSpace(v) != "" {
				set(strings.TrimSpace(v))
			}
		}
		prompt("Profile [default]: ", func(v string) { cfg.Profile = v })
		prompt("SMTP host: ", func(v string) { cfg.SMTP.Host = v })
		var portErr error
		prompt("SMTP port [465]: ", func(v string) {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				portErr = cliError{exit: 2, code: "validation_error", msg: fmt.Sprintf("invalid SMTP port %q", v), hint: "Enter a positive port number"}
				return
			}
			cfg.SMTP.Port = n
		})
		if portErr != nil {
			return portErr
		}
		prompt("SMTP username: ", func(v string) { cfg.SMTP.Username = v })
		prompt("SMTP password file path (optional): ", func(v string) { cfg.SMTP.PasswordFile = v })
		prompt("Connection security [ssl]: ", func(v string) { cfg.SMTP.Security = v })
		prompt("Sender address: ", func(v string) { cfg.Addressing.FromEmail = v })
		prompt("Sender display name: ", func(v string) { cfg.Addressing.FromName = v })
		prompt("Reply-To (optional): ", func(v string) { cfg.Addressing.ReplyTo = v })
		prompt("CC address (optional): ", func(v string) { cfg.Addressing.CCEmail = v })
		prompt("Recipient [copyright@github.com]: ", func(v string) { cfg.Addressing.ToEmail = v })
	} else {
		cfg.SMTP.Host = *smtpHost
		cfg.SMTP.Port = *smtpPort
		cfg.SMTP.Username = *smtpUser
		cfg.SMTP.PasswordFile = *passwordFile
		cfg.SMTP.Security = *security
		cfg.Addressing.FromEmail = *fromEmail
		cfg.Addressing.FromName = *fromName
		cfg.Addressing.ReplyTo = *replyTo
		cfg.Addressing.CCEmail = *ccEmail
		cfg.Addressing.ToEmail = *toEmail
		if cfg.SMTP.Host == "" {
			return cliError{exit: 2, code: "validation_error", msg: "--smtp-host is required in non-interactive setup", hint: "Pass --smtp-host or use --interactive"}
		}
		if cfg.Addressing.FromEmail == "" {
			return cliError{exit: 2, code: "validation_error", msg: "--from-email is required in non-interactive setup", hint: "Pass --from-email or use --interactive"}
		}
	}
	switch cfg.SMTP.Security {
	case mail.SecuritySSL, mail.SecurityStartTLS, mail.SecurityNone:
	default:
		return cliError{exit: 2, code: "validation_error", msg: fmt.Sprintf("invalid smtp security %q", cfg.SMTP.Security), hint: "Use ssl, starttls or none"}
	}
	return config.Save(cfgPath, cfg)
}

func (a App) dispatch(rest []string, g globalOptions, cfg config.Config, logger *zap.Logger) (any, error) {
	resource := rest[0]
	action := ""
	args := []string{}
	if len(rest) > 1 {
		action = rest[1]
		args = rest[2:]
	}

	switch resource {
	case "doctor":
		if action != "" {
			return nil, cliError{exit: 2, code: "usage_error", msg: "doctor does not take an action"}
		}
		return cmdDoctor(cfg)
	case "request":
		if action == "" {
			return nil, cliError{exit: 2, code: "usage_error", msg: "request action required"}
		}
		return a.cmdRequest(action, args, g, cfg, logger)
	default:
		return nil, cliError{exit: 2, code: "usage_error", msg: "unknown resource: " + resource}
	}
}

func cmdDoctor(cfg config.Config) (any, error) {
	timeout := 3 * time.Second
	smtp := mail.CheckTCP(cfg.SMTP.Host, cfg.SMTP.Port, timeout, "smtp")
	configDetails, missing := doctorConfigPrereqs(cfg)
	configOK := len(missing) == 0
	credDetails, credOK := doctorCredentialPrereqs(cfg)
	ok := smtp.OK && configOK && credOK
	data := map[string]any{
		"ok":     ok,
		"checks": []mail.HealthStatus{smtp},
		"summary": map[string]any{
			"smtp":        smtp.OK,
			"config":      configOK,
			"credentials": credOK,
		},
		"doctor": map[string]any{
			"smtp":        map[string]any{"ok": smtp.OK, "checks": []mail.HealthStatus{smtp}},
			"config":      configDetails,
			"credentials": credDetails,
		},
	}
	if !configOK || !credOK {
		var problems []string
		if len(missing) > 0 {
			problems = append(problems, "missing configuration: "+strings.Join(missing, ", "))
		}
		if !credOK {
			problems = append(problems, "SMTP credentials are not readable (set "+config.PasswordEnv+" or a readable password_file)")
		}
		return data, cliError{
			exit: 3,
			code: "doctor_prereq_failed",
			msg:  strings.Join(problems, "; "),
			hint: "Run dmcacli setup, then retry doctor",
		}
	}
	if !smtp.OK {
		msg := fmt.Sprintf("the SMTP endpoint %s is unreachable", smtp.Addr)
		if smtp.Detail != "" {
			msg += ": " + smtp.Detail
		}
		return data, cliError{exit: 4, code: "smtp_unreachable", msg: msg, hint: "Check smtp host and port in the configuration"}
	}
	return data, nil
}

func doctorConfigPrereqs(cfg config.Config) (map[string]any, []string) {
	missing := []string{}
	if strings.TrimSpace(cfg.SMTP.Host) == "" {
		missing = append(missing, "smtp.host")
	}
	if cfg.SMTP.Port <= 0 {
		missing = append(missing, "smtp.port")
	}
	switch cfg.SMTP.Security {
	case mail.SecuritySSL, mail.SecurityStartTLS, mail.SecurityNone:
	default:
		missing = append(missing, "smtp.security")
	}
	if strings.TrimSpace(cfg.Addressing.FromEmail) == "" {
		missing = append(missing, "addressing.from_email")
	}
	if strings.TrimSpace(cfg.Addressing.ToEmail) == "" {
		missing = append(missing, "addressing.to_email")
	}
	return map[string]any{
		"ok":      len(missing) == 0,
		"missing": missing,
	}, missing
}

func doctorCredentialPrereqs(cfg config.Config) (map[string]any, bool) {
	username := strings.TrimSpace(cfg.SMTP.Username)
	passwordFromEnv := strings.TrimSpace(os.Getenv(config.PasswordEnv)) != ""
	passwordFile := strings.TrimSpace(cfg.SMTP.PasswordFile)
	passwordFileReadable := false
	if passwordFile != "" {
		_, err := os.Stat(filepath.Clean(config.Expand(passwordFile)))
		passwordFileReadable = err == nil
	}
	// No username means unauthenticated SMTP, which is a valid setup. A
	// username with no reachable credential cannot authenticate.
	ok := username == "" || passwordFromEnv || passwordFileReadable
	return map[string]any{
		"ok":                     ok,
		"usernameConfigured":     username != "",
		"passwordFromEnv":        passwordFromEnv,
		"passwordFileConfigured": passwordFile != "",
		"passwordFileReadable":   passwordFileReadable,
	}, ok
}

func cmdCompletion(w io.Writer, args []string) error {
	if len(args) < 1 {
		return cliError{exit: 2, code: "usage_error", msg: "completion shell required (bash|zsh|fish)"}
	}
	shell := args[0]
	switch shell {
	case "bash":
		_, err := fmt.Fprintln(w, bashCompletion())
		return err
	case "zsh":
		_, err := fmt.Fprintln(w, zshCompletion())
		return err
	case "fish":
		_, err := fmt.Fprintln(w, fishCompletion())
		return err
	default:
		return cliError{exit: 2, code: "usage_error", msg: "unsupported shell: " + shell}
	}
}

func isTTY(r *os.File) bool {
	info, err := r.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func bashCompletion() string {
	return `# dmcacli bash completion
_dmcacli_completions()
{
  COMPREPLY=( $(compgen -W "setup doctor completion request" -- "${COMP_WORDS[1]}") )
}
complete -F _dmcacli_completions dmcacli`
}

func zshCompletion() string {
	return `#compdef dmcacli
_arguments "1: :((setup doctor completion request))"`
}

func fishCompletion() string {
	return `complete -c dmcacli -f -a "setup doctor completion request"`
}
