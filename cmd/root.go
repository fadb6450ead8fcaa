// Package cmd implements the command-line interface for goclone. It provides
// the root command and subcommands for cloning sites and serving the API.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	clonecmd "github.com/jonesrussell/goclone/cmd/clone"
	"github.com/jonesrussell/goclone/cmd/common"
	"github.com/jonesrussell/goclone/cmd/httpd"
)

// version is overridden at build time via -ldflags.
var version = "1.0.0"

var (
	cfgFile string
	debug   bool

	rootCmd = &cobra.Command{
		Use:   "goclone",
		Short: "Clone websites into self-contained local archives",
		Long: `goclone mirrors a web page and its assets into a local folder,
rewrites all references to local paths, and packages the result into a
single zip archive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to config.
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("goclone version %s\n", version)
		},
	})

	rootCmd.AddCommand(clonecmd.Command(buildOpts))
	rootCmd.AddCommand(httpd.Command(buildOpts))
}

// buildOpts exposes the global flags to subcommands at run time, after
// cobra has parsed them.
func buildOpts() common.Options {
	return common.Options{ConfigFile: cfgFile, Debug: debug}
}
