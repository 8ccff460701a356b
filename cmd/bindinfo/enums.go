package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bindinfo/pkg/render"
)

func enumsCmd(a *app) *cobra.Command {
	var (
		in            inputFlags
		importantOnly bool
	)

	cmd := &cobra.Command{
		Use:   "enums",
		Short: "List enumeration constants grouped by enum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, err := a.extractModel(cmd.Context(), in)
			if err != nil {
				return err
			}

			return render.Enums(a.stdout, model, render.TextOptions{Color: !color.NoColor, ImportantOnly: importantOnly})
		},
	}

	in.bind(cmd)
	cmd.Flags().BoolVar(&importantOnly, "important", false, "only list enums referenced by the metadata")

	return cmd
}
