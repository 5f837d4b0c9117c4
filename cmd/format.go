package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tagforge/internal/document"
)

var formatWrite bool

// formatCmd represents the format command
var formatCmd = &cobra.Command{
	Use:   "format [files...]",
	Short: "Re-serialize tags canonically",
	Long: `Format rewrites every tag in each source into its canonical form:
attributes in source order, double-quoted and entity-escaped, with a
single space between name and attributes. Text between tags is left
untouched.

By default the result is written to stdout; --write replaces the file
in place.

Examples:
  tagforge format page.html
  tagforge format --write templates/*.html`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFormatCommand,
}

func init() {
	rootCmd.AddCommand(formatCmd)

	formatCmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "Write the result back to the source file")
}

func runFormatCommand(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		name, contents, err := readSource(arg)
		if err != nil {
			return err
		}

		doc, err := document.Parse(name, contents)
		if err != nil {
			return err
		}

		formatted := doc.FormatString()

		if formatWrite && arg != "-" {
			info, err := os.Stat(arg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(arg, []byte(formatted), info.Mode().Perm()); err != nil {
				return err
			}
			continue
		}

		if _, err := os.Stdout.WriteString(formatted); err != nil {
			return err
		}
	}

	return nil
}
