package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"dmcacli/internal/output"
)

func parseFlagSetWithHelp(fs *flag.FlagSet, args []string, g globalOptions, helpName string, stdout io.Writer) (any, bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage := usageForFlagSet(fs)
			if g.mode == output.ModeJSON || g.mode == output.ModePlain {
				return map[string]any{"help": helpName, "usage": usage}, true, nil
			}
			fmt.Fprintln(stdout, usage)
			return map[string]any{"help": helpName}, true, nil
		}
		return nil, false, cliError{exit: 2, code: "usage_error", msg: err.Error()}
	}
	return nil, false, nil
}

func usageForFlagSet(fs *flag.FlagSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: dmcacli %s [flags] <file.json> [...]\n\nFlags:", fs.Name())
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Fprintf(&b, "\n  --%s\n        %s", f.Name, f.Usage)
	})
	return b.String()
}
