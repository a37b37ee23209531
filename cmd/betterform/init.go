package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-betterform/internal/wizard"
	"github.com/goliatone/go-betterform/pkg/form"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a form config interactively",
		Long: `Init asks for a form name and its fields, then writes the config.
The format follows the extension: .yaml/.yml for YAML, anything else JSON.`,
		Example: `  betterform init
  betterform init forms/contact.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := a.load(cmd); err != nil {
				return err
			}
			path := "form.json"
			if len(args) == 1 {
				path = args[0]
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, os.ErrNotExist) {
					return err
				}
			}

			cfg, err := wizard.Run(cmd.Context(), a.prompts())
			if err != nil {
				if errors.Is(err, wizard.ErrAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
				return err
			}

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := form.Encode(f, cfg, form.FormatFromPath(path)); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s with %d field(s)\n", path, len(cfg.Fields))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
