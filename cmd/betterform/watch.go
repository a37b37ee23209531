package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-betterform/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	opts := compileOptions{format: formatFiles}
	cmd := &cobra.Command{
		Use:   "watch <config>",
		Short: "Recompile a form config whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := a.load(cmd)
			if err != nil {
				return err
			}
			w, err := watch.New(args[0], watch.WithLogger(logger))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			recompile := func(context.Context) error {
				if err := runCompile(out, w.Path(), opts); err != nil {
					return err
				}
				logger.WithField("path", w.Path()).Info("recompiled")
				return nil
			}

			if err := recompile(cmd.Context()); err != nil {
				logger.WithError(err).Warn("initial compile failed")
			}
			fmt.Fprintf(out, "watching %s (ctrl+c to stop)\n", w.Path())

			err = w.Run(cmd.Context(), recompile)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", ".", "project root to write files into")
	cmd.Flags().StringVar(&opts.manager, "manager", "npm", "package manager for install hints")
	return cmd
}
