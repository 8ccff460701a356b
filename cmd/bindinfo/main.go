// Package main provides the bindinfo CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bindinfo/pkg/version"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitDrift   = 2
)

func main() {
	version.InitBinaryVersion()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	err = errors.Join(err, a.shutdown(ctx))

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errDrift):
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return exitDrift
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return exitFailure
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bindinfo",
		Short: "Extract a binding-friendly API model from a C header",
		Long: `bindinfo preprocesses a C header, parses it, and builds a model of its
functions, typedefs and enumeration constants, reconciled with a YAML
metadata file. Binding generators consume the model as JSON or YAML.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./.bindinfo.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "only log errors and suppress status lines")

	rootCmd.AddCommand(extractCmd(a))
	rootCmd.AddCommand(enumsCmd(a))
	rootCmd.AddCommand(functionsCmd(a))
	rootCmd.AddCommand(diffCmd(a))
	rootCmd.AddCommand(validateMetadataCmd(a))
	rootCmd.AddCommand(mcpCmd(a))
	rootCmd.AddCommand(versionCmd(a))

	return rootCmd
}

func versionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Show version information",
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(a.stdout, version.String())
		},
	}
}
