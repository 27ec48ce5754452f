// Command semalint is a thin demonstration front-end wiring the
// parser, scope builder, type inference engine, flow analyzer and
// diagnostic engine into something runnable over a real project
// directory. It is not a replacement for an editor/LSP integration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var (
		configPath    string
		engineVersion string
		cacheDir      string
		noColor       bool
		noCache       bool
	)

	rootCmd := &cobra.Command{
		Use:           "semalint [project-root]",
		Short:         "Lint a GDScript-shaped project for scope, type and control-flow diagnostics",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			if noCache {
				cacheDir = ""
			}
			exitCode, err := runLint(lintRequest{
				projectRoot:   root,
				configPath:    configPath,
				engineVersion: engineVersion,
				cacheDir:      cacheDir,
				useColor:      shouldUseColor(noColor),
				stdout:        os.Stdout,
				stderr:        os.Stderr,
			})
			if err != nil {
				return err
			}
			if exitCode != 0 {
				os.Exit(exitCode)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML options file (defaults to config.Default())")
	rootCmd.PersistentFlags().StringVar(&engineVersion, "engine-version", "v4.2.1", "Engine API version the runtime provider catalog declares")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", ".semalint-cache", "Directory for the on-disk diagnostic cache")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Disable the on-disk diagnostic cache")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	if err := rootCmd.Execute(); err != nil {
		useColor := shouldUseColor(noColor)
		fmt.Fprintf(os.Stderr, "%s %v\n", colorize("Error:", colorRed, useColor), err)
		os.Exit(1)
	}
}
