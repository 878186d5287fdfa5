package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zeusync/motionmatching/internal/config"
	"github.com/zeusync/motionmatching/internal/injector"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "velocities",
		Short:         "Compute motion matching joint velocities from skeleton and clip files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	loadApp := func() (*injector.App, error) { return newApp(configPath) }

	root.AddCommand(newComputeCommand(loadApp), newSchemaCommand(loadApp))
	return root
}

// newApp builds the application from the config file at path, or from the
// defaults when path is empty.
func newApp(path string) (*injector.App, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return injector.InitializeApp(cfg)
}
