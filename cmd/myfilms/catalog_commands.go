package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"myfilms/internal/catalog"
	"myfilms/internal/detail"
	"myfilms/internal/services"
)

func newCatalogCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newPopularCommand(ctx),
		newSearchCommand(ctx),
		newDetailCommand(ctx),
		newCreditsCommand(ctx),
	}
}

func newPopularCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "popular",
		Short: "List popular movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEnv(cmd, openOptions{needCatalog: true}, func(c context.Context, env *clientEnv) error {
				items, err := env.app.Browse.Search(c, "")
				warnDegraded(cmd, err)
				return printItems(cmd, ctx, items)
			})
		},
	}
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search movies and series",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withEnv(cmd, openOptions{needCatalog: true}, func(c context.Context, env *clientEnv) error {
				items, err := env.app.Browse.Search(c, query)
				warnDegraded(cmd, err)
				return printItems(cmd, ctx, items)
			})
		},
	}
}

func newDetailCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detail <movie|tv> <id>",
		Short: "Show details, cast and trailer for a title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKindArg(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1], "id")
			if err != nil {
				return err
			}
			return ctx.withEnv(cmd, openOptions{needCatalog: true}, func(c context.Context, env *clientEnv) error {
				d, err := env.app.Detail.FetchDetail(c, catalog.Item{ID: id, MediaType: kind})
				if err != nil {
					warnDegraded(cmd, err)
					if ctx.jsonOutput() {
						return writeJSON(cmd, map[string]any{"detail": nil})
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Details unavailable.")
					return nil
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, d)
				}
				printDetail(cmd.OutOrStdout(), env.cfg.Catalog.ImageBaseURL, d)
				return nil
			})
		},
	}
}

func newCreditsCommand(ctx *commandContext) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "credits <personID>",
		Short: "Show a person's filmography",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "person id")
			if err != nil {
				return err
			}
			return ctx.withEnv(cmd, openOptions{needCatalog: true}, func(c context.Context, env *clientEnv) error {
				items, err := env.app.Detail.Filmography(c, id)
				warnDegraded(cmd, err)
				return printItems(cmd, ctx, detail.FilterByTitle(items, filter))
			})
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only show titles containing this text")
	return cmd
}

// warnDegraded reports a catalog failure on stderr; the command still prints
// its (empty) result.
func warnDegraded(cmd *cobra.Command, err error) {
	switch {
	case err == nil:
	case services.Degradable(err):
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: catalog unavailable: %v\n", err)
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: catalog request failed: %v\n", err)
	}
}

func printItems(cmd *cobra.Command, ctx *commandContext, items []catalog.Item) error {
	if items == nil {
		items = []catalog.Item{}
	}
	if ctx.jsonOutput() {
		return writeJSON(cmd, items)
	}
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}
	fmt.Fprintln(out, renderTable(out, []string{"ID", "Type", "Title", "Year", "Rating"}, itemRows(items),
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight}))
	return nil
}

func itemRows(items []catalog.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			string(item.MediaType),
			item.DisplayTitle(),
			item.ReleaseYear(),
			formatRating(item),
		})
	}
	return rows
}

func formatRating(item catalog.Item) string {
	if item.VoteAverage == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", item.Rating())
}

func printDetail(out io.Writer, imageBase string, d *catalog.Detail) {
	title := d.DisplayTitle()
	if year := d.ReleaseYear(); year != "" {
		title = fmt.Sprintf("%s (%s)", title, year)
	}
	fmt.Fprintln(out, title)
	if d.Tagline != "" {
		fmt.Fprintf(out, "  %s\n", d.Tagline)
	}
	fmt.Fprintf(out, "Rating:  %s\n", formatRating(d.Item))
	fmt.Fprintf(out, "Runtime: %s\n", d.RuntimeLabel())
	if genres := d.GenreNames(); len(genres) > 0 {
		fmt.Fprintf(out, "Genres:  %s\n", strings.Join(genres, ", "))
	}
	if d.Status != "" {
		fmt.Fprintf(out, "Status:  %s\n", d.Status)
	}
	if poster := catalog.ImageURL(imageBase, catalog.SizePoster, d.PosterPath); poster != "" {
		fmt.Fprintf(out, "Poster:  %s\n", poster)
	}
	if trailer, ok := d.Trailer(); ok {
		fmt.Fprintf(out, "Trailer: https://www.youtube.com/watch?v=%s\n", trailer.Key)
	}
	if d.Overview != "" {
		fmt.Fprintf(out, "\n%s\n", d.Overview)
	}

	cast := d.TopCast(detail.CastShown)
	if len(cast) == 0 {
		return
	}
	rows := make([][]string, 0, len(cast))
	for _, member := range cast {
		rows = append(rows, []string{strconv.FormatInt(member.ID, 10), member.Name, member.Character})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(out, []string{"Person", "Name", "Character"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft}))
}

func parseKindArg(value string) (catalog.MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie":
		return catalog.KindMovie, nil
	case "tv":
		return catalog.KindTV, nil
	default:
		return "", fmt.Errorf("unknown kind %q (expected movie or tv)", value)
	}
}

func parseID(value, label string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", label, value)
	}
	return id, nil
}
