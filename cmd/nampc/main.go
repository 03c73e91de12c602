// SPDX-License-Identifier: MIT

// Command nampc exports covariate-adjusted NAM-PCs from a single-cell
// container.
//
//	nampc export --sc_object_path cells.db --res_folder out/ [--covs age,sex] [--corr_batch[=true]]
//	nampc simulate --out cells.db
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/nampc/errkind"
)

func main() {
	root := newRootCmd(os.Stderr)
	root.SetArgs(joinLegacyBools(os.Args[1:], "corr_batch"))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// joinLegacyBools rewrites "--name VALUE" to "--name=VALUE" for the named
// boolean flags when VALUE parses as a bool, so "--corr_batch True" keeps
// working. Any other following token is left as a separate argument.
func joinLegacyBools(args []string, names ...string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if i+1 < len(args) && strings.HasPrefix(a, "--") && slices.Contains(names, a[2:]) {
			if _, err := strconv.ParseBool(args[i+1]); err == nil {
				out = append(out, a+"="+args[i+1])
				i++
				continue
			}
		}
		out = append(out, a)
	}

	return out
}

// rootFlags are shared by every subcommand.
type rootFlags struct {
	logLevel string
	logger   *slog.Logger
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	rf := &rootFlags{logger: slog.New(slog.NewTextHandler(logOut, nil))}
	root := &cobra.Command{
		Use:           "nampc",
		Short:         "Neighborhood abundance PCs for per-sample association testing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(rf.logLevel)); err != nil {
				return rf.fail(fmt.Errorf("--log_level %q: %w", rf.logLevel, err))
			}
			rf.logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.SetErr(logOut)
	root.PersistentFlags().StringVar(&rf.logLevel, "log_level", "info", "log level: debug, info, warn, error")
	root.AddCommand(newExportCmd(rf), newSimulateCmd(rf))

	return root
}

// fail logs err with its class and returns it unchanged.
func (rf *rootFlags) fail(err error) error {
	if err == nil {
		return nil
	}
	rf.logger.Error("run failed", "class", errClass(err), "err", err)

	return err
}

func errClass(err error) string {
	switch errkind.Kind(err) {
	case errkind.ErrConfiguration:
		return "configuration"
	case errkind.ErrDataShape:
		return "data_shape"
	case errkind.ErrNumerical:
		return "numerical"
	default:
		return "internal"
	}
}
