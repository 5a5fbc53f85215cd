package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vitae-cv/vitae/internal/infrastructure/schema"
)

var schemaOutput string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the CV format",
	Long: `Print a JSON Schema describing CV documents. Point an editor's YAML
language server at it for completion and inline validation.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := schema.Generate()
		if err != nil {
			return fmt.Errorf("failed to generate schema: %w", err)
		}

		w, closeOutput, err := openOutput(schemaOutput, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer closeOutput()

		_, err = fmt.Fprintln(w, string(data))
		return err
	},
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(schemaCmd)
}
