package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tagforge/internal/document"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Validate open/close nesting of markup sources",
	Long: `Check parses each source and verifies that every close tag matches
the open tag on top of the nesting stack and that no open tag is left
unclosed. The exit status is non-zero when any source is malformed.

Examples:
  tagforge check page.html
  tagforge check templates/*.html`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheckCommand,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheckCommand(cmd *cobra.Command, args []string) error {
	failures := 0
	for _, arg := range args {
		if err := checkSource(arg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			failures++
			continue
		}
		fmt.Printf("%s: ok\n", arg)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d sources failed validation", failures, len(args))
	}

	return nil
}

func checkSource(arg string) error {
	name, contents, err := readSource(arg)
	if err != nil {
		return err
	}

	doc, err := document.Parse(name, contents)
	if err != nil {
		return err
	}

	return doc.Validate()
}
