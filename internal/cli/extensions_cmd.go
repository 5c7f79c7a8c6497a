package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExtensionsCommand groups the extension folder operations
func ExtensionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "extensions",
		Short:   "Manage folders under the application extensions root",
		Aliases: []string{"ext"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(extensionsList())
	cmd.AddCommand(extensionsInstall())
	cmd.AddCommand(extensionsRemove())
	cmd.AddCommand(extensionsEntry())
	return cmd
}

func extensionsList() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List installed extensions",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := GetApp(cmd).Extensions
			if err := manager.EnsureRoot(); err != nil {
				return err
			}
			exts, err := manager.List(cmd.Context())
			if err != nil {
				return err
			}
			p := NewPrinter(cmd.OutOrStdout())
			if asJSON {
				return p.JSON(exts)
			}
			return p.Extensions(manager.Root(), exts)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")
	return cmd
}

func extensionsInstall() *cobra.Command {
	var archive bool
	var fromURL bool

	cmd := &cobra.Command{
		Use:   "install <directory|archive|url>",
		Short: "Copy an extension folder, or unpack an archive, into the extensions root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := GetApp(cmd).Extensions
			if err := manager.EnsureRoot(); err != nil {
				return err
			}

			p := NewPrinter(cmd.OutOrStdout())
			stop := p.Spin("Installing " + args[0])
			install := manager.Install
			switch {
			case fromURL:
				install = manager.InstallURL
			case archive:
				install = manager.InstallArchive
			}
			result, err := install(cmd.Context(), args[0])
			stop(err == nil)
			if err != nil {
				return err
			}

			p.Success(fmt.Sprintf("Successfully copied extension to %q", result.Destination), nil)
			return p.Report(result.Report)
		},
	}
	cmd.Flags().BoolVar(&archive, "archive", false, "Treat the argument as a .zip, .tar, .tar.gz or .tar.zst archive")
	cmd.Flags().BoolVar(&fromURL, "url", false, "Download the archive from an http(s) URL first")
	return cmd
}

func extensionsRemove() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Short:   "Remove an extension folder by name",
		Aliases: []string{"rm", "uninstall"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := GetApp(cmd).Extensions.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			NewPrinter(cmd.OutOrStdout()).Success(fmt.Sprintf("Successfully removed extension folder '%s'", args[0]), nil)
			return nil
		},
	}
}

func extensionsEntry() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "entry <name>",
		Short: "Show the entry page of an extension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := GetApp(cmd).Extensions.Entry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := NewPrinter(cmd.OutOrStdout())
			if raw {
				p.Raw(page.HTML)
				return nil
			}
			p.Info(page.Folder, map[string]any{
				"title":     page.Title,
				"path":      page.Path,
				"sanitized": page.Sanitized,
				"bytes":     len(page.HTML),
			})
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "html", false, "Print the page html instead of a summary")
	return cmd
}
