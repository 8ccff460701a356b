package main

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bindinfo/pkg/render"
	"github.com/Sumatoshi-tech/bindinfo/pkg/snapshot"
)

func extractCmd(a *app) *cobra.Command {
	var (
		in         inputFlags
		formatName string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the API model from a header",
		Long: `Extract preprocesses and parses the header, builds the API model and
writes it in the chosen format.

Examples:
  bindinfo extract --header include/binding.h --metadata metadata/metadata.y
  bindinfo extract --format yaml -o model.yaml
  bindinfo extract --format text
  bindinfo extract -o snapshot.json.lz4
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := render.ParseFormat(formatName)
			if err != nil {
				return err
			}

			model, err := a.extractModel(cmd.Context(), in)
			if err != nil {
				return err
			}

			return writeOutput(a.stdout, outputPath, func(w io.Writer) error {
				return render.Write(w, model, format, render.TextOptions{Color: outputPath == "" && !color.NoColor})
			})
		},
	}

	in.bind(cmd)
	cmd.Flags().StringVar(&formatName, "format", string(render.FormatJSON), "output format: json, yaml or text")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write to file instead of stdout (LZ4-compressed for *.lz4)")

	return cmd
}

// writeOutput sends fn's output to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(stdout)
	}

	return snapshot.Write(path, fn)
}
