package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"myfilms/internal/httpapi"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd, openOptions{needCatalog: true}, func(c context.Context, env *clientEnv) error {
				if b := strings.TrimSpace(bind); b != "" {
					env.cfg.Server.Bind = b
				}
				runCtx, stop := signal.NotifyContext(c, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", env.cfg.Server.Bind)
				return httpapi.New(env.app, env.cfg, env.logger).Run(runCtx)
			})
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override server.bind")
	return cmd
}
