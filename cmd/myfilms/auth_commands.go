package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"myfilms/internal/session"
)

func newAuthCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newLoginCommand(ctx),
		newLogoutCommand(ctx),
		newWhoamiCommand(ctx),
	}
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <user>",
		Short: "Sign in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("password") {
				prompted, err := promptPassword(cmd)
				if err != nil {
					return err
				}
				password = prompted
			}
			return ctx.withEnv(cmd, openOptions{}, func(c context.Context, env *clientEnv) error {
				user, err := env.app.Login(c, args[0], password)
				if err != nil {
					if errors.Is(err, session.ErrInvalidCredentials) {
						return errors.New("Invalid username or password")
					}
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]string{"user": user})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

// promptPassword reads a password without echo on a terminal, or one line
// from stdin otherwise.
func promptPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		secret, err := term.ReadPassword(int(file.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd, openOptions{}, func(c context.Context, env *clientEnv) error {
				if _, _, err := env.app.Restore(c); err != nil {
					return err
				}
				if err := env.app.Logout(c); err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"user": nil})
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd, openOptions{}, func(c context.Context, env *clientEnv) error {
				user, ok, err := env.app.Restore(c)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					if !ok {
						return writeJSON(cmd, map[string]any{"user": nil})
					}
					return writeJSON(cmd, map[string]string{"user": user})
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), user)
				return nil
			})
		},
	}
}
