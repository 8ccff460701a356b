package main

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bindinfo/pkg/render"
)

func functionsCmd(a *app) *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "functions",
		Short: "List functions with their input and output parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, err := a.extractModel(cmd.Context(), in)
			if err != nil {
				return err
			}

			return render.Functions(a.stdout, model)
		},
	}

	in.bind(cmd)

	return cmd
}
