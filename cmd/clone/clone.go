// Package clone implements the `goclone clone` command.
package clone

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/goclone/cmd/common"
	clonesvc "github.com/jonesrussell/goclone/internal/clone"
)

// Command returns the clone command.
func Command(opts func() common.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "clone <url>",
		Short: "Clone a website into a local zip archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.BuildDeps(opts())
			if err != nil {
				return err
			}

			result, err := deps.Service.CloneWebsite(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("clone failed: %w", err)
			}

			printResult(result)
			return nil
		},
	}
}

// printResult renders the clone result as a table on stdout.
func printResult(result *clonesvc.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendRows([]table.Row{
		{"Mode", string(result.Mode)},
		{"Archive", result.ArchivePath},
		{"Public copy", result.PublicArchivePath},
		{"File name", result.ArchiveFileName},
	})
	if len(result.FailedAssets) > 0 {
		t.AppendRow(table.Row{"Failed assets", strings.Join(result.FailedAssets, "\n")})
	}
	t.Render()
}
