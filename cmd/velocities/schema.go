package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeusync/motionmatching/internal/injector"
)

func newSchemaCommand(loadApp func() (*injector.App, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "List the registered pose data kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range app.Registry.ListTypes() {
				version, schema, err := app.Registry.GetLatestVersion(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s v%d\n", name, version)
				for _, f := range schema.Fields {
					fmt.Fprintf(out, "  %s %s\n", f.Name, f.Type)
				}
			}
			return nil
		},
	}
}
