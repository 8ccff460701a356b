package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bindinfo/pkg/metadata"
)

func validateMetadataCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-metadata <file>",
		Short: "Check a metadata YAML file against the metadata schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read metadata: %w", err)
			}

			doc, err := metadata.Parse(data, true)
			if err != nil {
				color.New(color.FgRed).Fprintf(a.stdout, "Metadata validation failed (%s)\n", args[0])

				for _, line := range validationLines(err) {
					color.New(color.FgRed).Fprintf(a.stdout, "  - %s\n", line)
				}

				return err
			}

			a.status(color.FgGreen, "Metadata is valid (%s): %d nodes, %d additional important enums",
				args[0], len(doc.Nodes), len(doc.AdditionalImportantEnums))

			return nil
		},
	}
}

// validationLines lists schema problems, or the error itself when err is
// not a schema violation.
func validationLines(err error) []string {
	var verr *metadata.ValidationError
	if errors.As(err, &verr) {
		return verr.Problems
	}

	return []string{err.Error()}
}
