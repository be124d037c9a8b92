package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"myfilms/internal/catalog"
	"myfilms/internal/lists"
	"myfilms/internal/services"
)

func newListsCommand(ctx *commandContext) *cobra.Command {
	listsCmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage your lists",
	}

	listsCmd.AddCommand(newListsLsCommand(ctx))
	listsCmd.AddCommand(newListsCreateCommand(ctx))
	listsCmd.AddCommand(newListsDeleteCommand(ctx))
	listsCmd.AddCommand(newListsShowCommand(ctx))
	listsCmd.AddCommand(newListsAddCommand(ctx))
	listsCmd.AddCommand(newListsRemoveCommand(ctx))

	return listsCmd
}

// withLists runs fn with the signed-in user's list manager.
func (c *commandContext) withLists(cmd *cobra.Command, opts openOptions, fn func(context.Context, *clientEnv, *lists.Manager) error) error {
	return c.withEnv(cmd, opts, func(ctx context.Context, env *clientEnv) error {
		user, err := signedIn(ctx, env)
		if err != nil {
			return err
		}
		manager, err := env.app.Lists()
		if err != nil {
			return err
		}
		return fn(services.WithUser(ctx, user), env, manager)
	})
}

func newListsLsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Show your lists",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLists(cmd, openOptions{}, func(_ context.Context, _ *clientEnv, manager *lists.Manager) error {
				all := manager.Lists()
				if ctx.jsonOutput() {
					return writeJSON(cmd, all)
				}
				out := cmd.OutOrStdout()
				if len(all) == 0 {
					fmt.Fprintln(out, "No lists yet. Create one with `myfilms lists create <name>`.")
					return nil
				}
				rows := make([][]string, 0, len(all))
				for _, list := range all {
					rows = append(rows, []string{
						strconv.FormatInt(list.ID, 10),
						list.Name,
						strconv.Itoa(len(list.Items)),
						list.CreatedAt.Local().Format("2006-01-02"),
					})
				}
				fmt.Fprintln(out, renderTable(out, []string{"ID", "Name", "Titles", "Created"}, rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft}))
				return nil
			})
		},
	}
}

func newListsCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return ctx.withLists(cmd, openOptions{}, func(c context.Context, _ *clientEnv, manager *lists.Manager) error {
				list, err := manager.CreateList(c, name)
				if err != nil {
					if errors.Is(err, lists.ErrEmptyName) {
						return errors.New("list name must not be empty")
					}
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, list)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created list %q (id %d)\n", list.Name, list.ID)
				return nil
			})
		},
	}
}

func newListsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "list id")
			if err != nil {
				return err
			}
			return ctx.withLists(cmd, openOptions{}, func(c context.Context, _ *clientEnv, manager *lists.Manager) error {
				list, err := manager.Get(id)
				if err != nil {
					return listError(err, id)
				}
				if err := manager.DeleteList(services.WithListID(c, id), id); err != nil {
					return listError(err, id)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"deleted": id})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted list %q\n", list.Name)
				return nil
			})
		},
	}
}

func newListsShowCommand(ctx *commandContext) *cobra.Command {
	var sortFlag string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the titles in a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "list id")
			if err != nil {
				return err
			}
			order, err := lists.ParseSortOrder(sortFlag)
			if err != nil {
				return err
			}
			return ctx.withLists(cmd, openOptions{}, func(_ context.Context, env *clientEnv, _ *lists.Manager) error {
				if err := env.app.ShowList(id); err != nil {
					return listError(err, id)
				}
				env.app.SetSort(order)
				selected, items, _ := env.app.SelectedItems()
				if ctx.jsonOutput() {
					selected.Items = items
					return writeJSON(cmd, selected)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%d titles, sorted by %s)\n", selected.Name, len(items), order)
				if len(items) == 0 {
					fmt.Fprintln(out, "This list is empty.")
					return nil
				}
				fmt.Fprintln(out, renderTable(out, []string{"ID", "Type", "Title", "Year", "Rating"}, itemRows(items),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight}))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sortFlag, "sort", "s", "default", "Sort order: default, rating-desc or rating-asc")
	return cmd
}

func newListsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <listID> <movie|tv> <itemID>",
		Short: "Add a catalog title to a list",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, err := parseID(args[0], "list id")
			if err != nil {
				return err
			}
			kind, err := parseKindArg(args[1])
			if err != nil {
				return err
			}
			itemID, err := parseID(args[2], "item id")
			if err != nil {
				return err
			}
			return ctx.withLists(cmd, openOptions{needCatalog: true}, func(c context.Context, env *clientEnv, manager *lists.Manager) error {
				if _, err := manager.Get(listID); err != nil {
					return listError(err, listID)
				}
				d, err := env.app.Detail.FetchDetail(c, catalog.Item{ID: itemID, MediaType: kind})
				if err != nil {
					return fmt.Errorf("look up %s %d: %w", kind, itemID, err)
				}
				added, err := manager.AddToList(services.WithListID(c, listID), listID, d.Item)
				if err != nil {
					return listError(err, listID)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"added": added, "item": d.Item})
				}
				if added {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", d.DisplayTitle())
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already in the list\n", d.DisplayTitle())
				}
				return nil
			})
		},
	}
}

func newListsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <listID> <itemID>",
		Short: "Remove a title from a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, err := parseID(args[0], "list id")
			if err != nil {
				return err
			}
			itemID, err := parseID(args[1], "item id")
			if err != nil {
				return err
			}
			return ctx.withLists(cmd, openOptions{}, func(c context.Context, _ *clientEnv, manager *lists.Manager) error {
				removed, err := manager.RemoveFromList(services.WithListID(c, listID), listID, itemID)
				if err != nil {
					return listError(err, listID)
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]bool{"removed": removed})
				}
				if removed {
					fmt.Fprintln(cmd.OutOrStdout(), "Removed")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Not in the list; nothing to remove")
				}
				return nil
			})
		},
	}
}

func listError(err error, id int64) error {
	if errors.Is(err, lists.ErrListNotFound) {
		return fmt.Errorf("list %d not found (see `myfilms lists ls`)", id)
	}
	return err
}
