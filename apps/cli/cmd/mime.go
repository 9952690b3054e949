package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/formpost/packages/mime"
)

var mimeListFlag bool

var mimeCmd = &cobra.Command{
	Use:   "mime [extension...]",
	Short: "Show the media type sent for attachment extensions",
	Long: `Show the Content-Type formpost sends for attachments with the given
extensions. Extensions are matched case-sensitively; unknown extensions
fall back to text/plain.

Examples:
  formpost mime jpg pdf
  formpost mime .tar.gz
  formpost mime --list`,
	RunE: mimeCommand,
}

func init() {
	mimeCmd.Flags().BoolVarP(&mimeListFlag, "list", "l", false, "List every known extension")
}

func mimeCommand(cmd *cobra.Command, args []string) error {
	if !mimeListFlag && len(args) == 0 {
		return usageErrorf("give at least one extension or --list")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.GetNoColor() {
		color.NoColor = true
	}
	registry := registryFor(cfg)

	out := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if mimeListFlag {
		for _, ext := range registry.Extensions() {
			typ, _ := registry.Lookup(ext)
			fmt.Fprintf(out, "%-10s %s\n", ext, cyan(typ))
		}
		return nil
	}

	for _, arg := range args {
		ext := arg
		if i := strings.LastIndexByte(ext, '.'); i >= 0 {
			ext = ext[i+1:]
		}
		if typ, ok := registry.Lookup(ext); ok {
			fmt.Fprintf(out, "%-10s %s\n", ext, cyan(typ))
		} else {
			fmt.Fprintf(out, "%-10s %s %s\n", ext, mime.DefaultType, yellow("(unknown)"))
		}
	}
	return nil
}
