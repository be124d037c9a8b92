package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"myfilms/internal/catalog"
	"myfilms/internal/detail"
	"myfilms/internal/lists"
)

const maxRows = 15

// View renders the current screen.
func (m Model) View() string {
	var body string
	switch m.screen {
	case screenLogin:
		body = m.viewLogin()
	case screenHome:
		body = m.viewHome()
	case screenLists:
		body = m.viewLists()
	case screenListItems:
		body = m.viewListItems()
	case screenPicker:
		body = m.viewPicker()
	case screenCreate:
		body = m.viewCreate()
	case screenDetail:
		body = m.viewDetail()
	case screenFilmography:
		body = m.viewFilmography()
	}

	sections := []string{m.viewHeader(), body}
	switch {
	case m.err != nil:
		sections = append(sections, errorStyle.Render("Error: "+m.err.Error()))
	case m.status != "":
		sections = append(sections, statusStyle.Render(m.status))
	}
	sections = append(sections, m.help.View(m.helpFor()))
	return strings.Join(sections, "\n\n")
}

func (m Model) viewHeader() string {
	title := titleStyle.Render("MyFilms")
	if user, ok := m.app.User(); ok {
		return title + mutedStyle.Render("  signed in as "+user)
	}
	return title
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(m.username.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	if m.loginErr != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.loginErr))
	}
	return panelStyle.Render(b.String())
}

func (m Model) viewHome() string {
	var b strings.Builder
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	heading := "Popular"
	if strings.TrimSpace(m.browse.Query) != "" {
		heading = fmt.Sprintf("Results for %q", m.browse.Query)
	}
	b.WriteString(headingStyle.Render(heading))
	if m.browse.Loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")

	if len(m.browse.Items) == 0 && !m.browse.Loading {
		b.WriteString(mutedStyle.Render("Nothing to show."))
		return b.String()
	}
	b.WriteString(renderItems(m.browse.Items, m.cursor))
	return b.String()
}

func (m Model) viewLists() string {
	all := m.userLists()
	var b strings.Builder
	b.WriteString(headingStyle.Render("My lists"))
	b.WriteString("\n")
	if len(all) == 0 {
		b.WriteString(mutedStyle.Render("No lists yet. Press n to create one."))
		return b.String()
	}
	for i, list := range all {
		line := fmt.Sprintf("%s  %s", list.Name, mutedStyle.Render(itemCount(len(list.Items))))
		b.WriteString(row(line, i == m.cursor))
	}
	return b.String()
}

func (m Model) viewListItems() string {
	selected, items, ok := m.app.SelectedItems()
	if !ok {
		return mutedStyle.Render("No list selected.")
	}
	var b strings.Builder
	b.WriteString(headingStyle.Render(selected.Name))
	b.WriteString(mutedStyle.Render("  sort: " + sortLabel(m.app.Sort())))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("This list is empty."))
		return b.String()
	}
	b.WriteString(renderItems(items, m.cursor))
	return b.String()
}

func (m Model) viewPicker() string {
	all := m.userLists()
	var b strings.Builder
	b.WriteString(headingStyle.Render("Add " + m.picking.DisplayTitle() + " to..."))
	b.WriteString("\n")
	if len(all) == 0 {
		b.WriteString(mutedStyle.Render("No lists yet. Press n to create one."))
		return panelStyle.Render(b.String())
	}
	for i, list := range all {
		mark := "  "
		if list.Contains(m.picking.ID) {
			mark = "✓ "
		}
		b.WriteString(row(mark+list.Name, i == m.cursor))
	}
	return panelStyle.Render(b.String())
}

func (m Model) viewCreate() string {
	return panelStyle.Render(headingStyle.Render("New list") + "\n\n" + m.listName.View())
}

func (m Model) viewDetail() string {
	st := m.detail
	if st.Item == nil {
		return mutedStyle.Render("Nothing selected.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(st.Item.DisplayTitle()))
	if year := st.Item.ReleaseYear(); year != "" {
		b.WriteString(mutedStyle.Render(" (" + year + ")"))
	}
	b.WriteString("\n")

	if st.DetailLoading {
		b.WriteString(m.spinner.View() + " Loading details...")
		return panelStyle.Render(b.String())
	}
	d := st.Detail
	if d == nil {
		b.WriteString(mutedStyle.Render("Details unavailable."))
		return panelStyle.Render(b.String())
	}

	b.WriteString(ratingStyle.Render(fmt.Sprintf("★ %.1f", d.Rating())))
	b.WriteString(mutedStyle.Render("  " + d.RuntimeLabel()))
	if genres := d.GenreNames(); len(genres) > 0 {
		b.WriteString(mutedStyle.Render("  " + strings.Join(genres, ", ")))
	}
	b.WriteString("\n")
	if d.Tagline != "" {
		b.WriteString(lipgloss.NewStyle().Italic(true).Render(d.Tagline))
		b.WriteString("\n")
	}
	if d.Overview != "" {
		b.WriteString("\n")
		b.WriteString(wrap(d.Overview, m.width))
		b.WriteString("\n")
	}
	if trailer, ok := d.Trailer(); ok {
		b.WriteString(mutedStyle.Render("\nTrailer: https://www.youtube.com/watch?v=" + trailer.Key))
		b.WriteString("\n")
	}

	cast := d.TopCast(detail.CastShown)
	if len(cast) > 0 {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render("Cast"))
		b.WriteString("\n")
		for i, member := range cast {
			line := member.Name
			if member.Character != "" {
				line += mutedStyle.Render(" as " + member.Character)
			}
			b.WriteString(row(line, i == m.castPos))
		}
	}
	return panelStyle.Render(b.String())
}

func (m Model) viewFilmography() string {
	st := m.detail
	if st.Person == nil {
		return mutedStyle.Render("Nothing selected.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(st.Person.Name))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")
	if st.CreditsLoading {
		b.WriteString(m.spinner.View() + " Loading filmography...")
		return panelStyle.Render(b.String())
	}
	visible := st.VisibleCredits()
	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render("No titles found."))
		return panelStyle.Render(b.String())
	}
	b.WriteString(renderItems(visible, m.cursor))
	return panelStyle.Render(b.String())
}

func renderItems(items []catalog.Item, cursor int) string {
	start := 0
	if cursor >= maxRows {
		start = cursor - maxRows + 1
	}
	end := start + maxRows
	if end > len(items) {
		end = len(items)
	}
	var b strings.Builder
	for i := start; i < end; i++ {
		item := items[i]
		line := item.DisplayTitle()
		if year := item.ReleaseYear(); year != "" {
			line += mutedStyle.Render(" (" + year + ")")
		}
		if item.VoteAverage != nil {
			line += "  " + ratingStyle.Render(fmt.Sprintf("★ %.1f", item.Rating()))
		}
		b.WriteString(row(line, i == cursor))
	}
	if len(items) > end {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  … %d more", len(items)-end)))
	}
	return b.String()
}

func row(line string, selected bool) string {
	if selected {
		return selectedStyle.Render("› ") + line + "\n"
	}
	return "  " + line + "\n"
}

func itemCount(n int) string {
	if n == 1 {
		return "1 title"
	}
	return fmt.Sprintf("%d titles", n)
}

func sortLabel(order lists.SortOrder) string {
	switch order {
	case lists.SortRatingDesc:
		return "rating, high to low"
	case lists.SortRatingAsc:
		return "rating, low to high"
	}
	return "date added"
}

func wrap(text string, width int) string {
	if width <= 10 {
		width = 80
	}
	return lipgloss.NewStyle().Width(width - 6).Render(text)
}
