package app

import "dmcacli/internal/config"

func validateSendSafety(cfg config.Config, nonTTY bool, force bool) error {
	if force && !cfg.Safety.AllowForceSend {
		return cliError{exit: 7, code: "safety_blocked", msg: "--force is disabled by policy"}
	}
	if cfg.Safety.RequireConfirmSendNonTTY && nonTTY && !force {
		return cliError{exit: 7, code: "confirmation_required", msg: "sending requires an interactive confirmation prompt", hint: "Run from a terminal, or pass --force to send without confirmation"}
	}
	return nil
}

func isNonInteractiveSend(g globalOptions, stdinTTY bool) bool {
	return g.noInput || !stdinTTY
}
