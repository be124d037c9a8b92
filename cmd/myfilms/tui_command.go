package main

import (
	"context"

	"github.com/spf13/cobra"

	"myfilms/internal/tui"
)

func newTUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd, openOptions{needCatalog: true, quiet: true}, func(c context.Context, env *clientEnv) error {
				if _, _, err := env.app.Restore(c); err != nil {
					return err
				}
				return tui.Run(c, env.app)
			})
		},
	}
}
