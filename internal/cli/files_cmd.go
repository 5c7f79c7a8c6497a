package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func listCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "ls <path>",
		Short:   "List the entries of a directory",
		Aliases: []string{"list"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := GetApp(cmd)
			entries, err := app.Operator.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := NewPrinter(cmd.OutOrStdout())
			if asJSON {
				return p.JSON(entries)
			}
			return p.Entries(entries)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the listing as JSON")
	return cmd
}

func catCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print the text content of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := GetApp(cmd).Operator.Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), content)
			return err
		},
	}
}

func writeCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "write <path> [content]",
		Short: "Create or truncate a file with the given content",
		Long:  "Create or truncate a file. Content comes from the second argument, --from-file, or stdin.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content string
			switch {
			case len(args) == 2:
				content = args[1]
			case fromFile != "":
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("read %s: %w", fromFile, err)
				}
				content = string(data)
			default:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				content = string(data)
			}

			if err := GetApp(cmd).Operator.Write(cmd.Context(), args[0], content); err != nil {
				return err
			}
			NewPrinter(cmd.OutOrStdout()).Success("Wrote file", map[string]any{
				"path":  args[0],
				"bytes": len(content),
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&fromFile, "from-file", "", "Read the content from this file")
	return cmd
}

func removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <path>",
		Short:   "Delete a file, or a directory with everything in it",
		Aliases: []string{"delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := GetApp(cmd).Operator.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			NewPrinter(cmd.OutOrStdout()).Success("Deleted", map[string]any{"path": args[0]})
			return nil
		},
	}
}

func copyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cp <source-dir> <destination-root>",
		Short: "Copy a directory tree into <destination-root>/<basename of source>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := NewPrinter(cmd.OutOrStdout())
			stop := p.Spin("Copying " + args[0])
			report, err := GetApp(cmd).Operator.CopyTree(cmd.Context(), args[0], args[1])
			stop(err == nil)
			if err != nil {
				return err
			}
			return p.Report(report)
		},
	}
}
