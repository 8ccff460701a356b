package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bindinfo/pkg/render"
	"github.com/Sumatoshi-tech/bindinfo/pkg/snapshot"
)

func diffCmd(a *app) *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "diff <snapshot.json[.lz4]>",
		Short: "Compare a fresh extraction with a saved JSON snapshot",
		Long: `Diff re-extracts the model and compares it line by line with a snapshot
written earlier by "bindinfo extract --format json". Snapshots ending in
.lz4 are decompressed first. It exits with status 2 when they differ.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := snapshot.Read(args[0])
			if err != nil {
				return err
			}

			old, err := render.NormalizeJSON(saved)
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", args[0], err)
			}

			model, err := a.extractModel(cmd.Context(), in)
			if err != nil {
				return err
			}

			var current bytes.Buffer
			if err = render.JSON(&current, model); err != nil {
				return err
			}

			out, changed := render.Diff(old, current.String())
			if !changed {
				a.status(color.FgGreen, "No drift against %s", args[0])

				return nil
			}

			printDiff(a.stdout, out)

			return fmt.Errorf("%w: %s", errDrift, args[0])
		},
	}

	in.bind(cmd)

	return cmd
}

func printDiff(w io.Writer, diff string) {
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	for line := range bytes.Lines([]byte(diff)) {
		switch line[0] {
		case '-':
			removed.Fprint(w, string(line))
		case '+':
			added.Fprint(w, string(line))
		}
	}
}
