// Package tui is the interactive terminal front-end. It renders the shared
// application state and turns key presses into app and orchestrator calls.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"myfilms/internal/app"
	"myfilms/internal/browse"
	"myfilms/internal/catalog"
	"myfilms/internal/detail"
	"myfilms/internal/lists"
	"myfilms/internal/session"
)

type screen int

const (
	screenLogin screen = iota
	screenHome
	screenLists
	screenListItems
	screenPicker
	screenCreate
	screenDetail
	screenFilmography
)

type browseMsg struct{ state browse.State }

type detailMsg struct{ state detail.State }

// Model is the Bubble Tea model for the whole application.
type Model struct {
	ctx context.Context
	app *app.App

	screen screen
	back   []screen
	width  int
	height int

	username textinput.Model
	password textinput.Model
	search   textinput.Model
	listName textinput.Model
	filter   textinput.Model
	spinner  spinner.Model
	help     help.Model

	browse browse.State
	detail detail.State

	cursor   int
	castPos  int
	picking  catalog.Item
	status   string
	err      error
	loginErr string
}

// New builds the model. A restored session starts on the home screen.
func New(ctx context.Context, a *app.App) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "User: "
	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	search := textinput.New()
	search.Placeholder = "Search movies and series..."
	search.Prompt = "🔍 "

	listName := textinput.New()
	listName.Placeholder = "List name"
	listName.Prompt = "Name: "
	listName.CharLimit = 60

	filter := textinput.New()
	filter.Placeholder = "Filter by title"
	filter.Prompt = "Filter: "

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle

	m := Model{
		ctx:      ctx,
		app:      a,
		username: username,
		password: password,
		search:   search,
		listName: listName,
		filter:   filter,
		spinner:  s,
		help:     help.New(),
		browse:   a.Browse.Snapshot(),
		detail:   a.Detail.Snapshot(),
	}
	if _, ok := a.User(); ok {
		m.screen = screenHome
		m.search.Focus()
	} else {
		m.screen = screenLogin
		m.username.Focus()
	}
	return m
}

// Init starts the spinner and, when already signed in, the popular listing.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, textinput.Blink}
	if m.screen == screenHome {
		cmds = append(cmds, m.enterHome())
	}
	return tea.Batch(cmds...)
}

func (m Model) enterHome() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		a.Navigate(app.ViewHome)
		a.Browse.Enter()
		return browseMsg{a.Browse.Snapshot()}
	}
}

// Update handles every message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case browseMsg:
		m.browse = msg.state
		m.cursor = clamp(m.cursor, len(m.browse.Items))
		return m, nil

	case detailMsg:
		m.detail = msg.state
		if m.screen == screenFilmography {
			m.cursor = clamp(m.cursor, len(m.detail.VisibleCredits()))
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		m.err = nil
		switch m.screen {
		case screenLogin:
			return m.updateLogin(msg)
		case screenHome:
			return m.updateHome(msg)
		case screenLists:
			return m.updateLists(msg)
		case screenListItems:
			return m.updateListItems(msg)
		case screenPicker:
			return m.updatePicker(msg)
		case screenCreate:
			return m.updateCreate(msg)
		case screenDetail:
			return m.updateDetail(msg)
		case screenFilmography:
			return m.updateFilmography(msg)
		}
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Switch), key.Matches(msg, keys.Down), key.Matches(msg, keys.Up):
		if m.username.Focused() {
			m.username.Blur()
			cmd := m.password.Focus()
			return m, cmd
		}
		m.password.Blur()
		cmd := m.username.Focus()
		return m, cmd

	case key.Matches(msg, keys.Enter):
		_, err := m.app.Login(m.ctx, m.username.Value(), m.password.Value())
		if err != nil {
			if errors.Is(err, session.ErrInvalidCredentials) {
				m.loginErr = "Invalid username or password"
			} else {
				m.loginErr = err.Error()
			}
			return m, nil
		}
		m.loginErr = ""
		m.password.SetValue("")
		m.password.Blur()
		m.username.Blur()
		m.screen = screenHome
		m.back = nil
		m.cursor = 0
		cmd := m.search.Focus()
		return m, tea.Batch(cmd, m.enterHome())
	}

	var cmd tea.Cmd
	if m.username.Focused() {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		m.cursor = clamp(m.cursor-1, len(m.browse.Items))
		return m, nil
	case key.Matches(msg, keys.Down):
		m.cursor = clamp(m.cursor+1, len(m.browse.Items))
		return m, nil
	case key.Matches(msg, keys.Enter):
		if item, ok := m.selectedResult(); ok {
			return m.openDetail(item), nil
		}
		return m, nil
	case key.Matches(msg, keys.AddTo):
		if item, ok := m.selectedResult(); ok {
			return m.openPicker(item), nil
		}
		return m, nil
	case key.Matches(msg, keys.Lists):
		m.search.Blur()
		m.app.Navigate(app.ViewLists)
		m.screen = screenLists
		m.cursor = 0
		return m, nil
	case key.Matches(msg, keys.Refresh):
		m.app.Browse.Refresh()
		m.browse = m.app.Browse.Snapshot()
		return m, nil
	case key.Matches(msg, keys.Logout):
		return m.logout()
	case key.Matches(msg, keys.Back):
		if m.search.Value() == "" {
			return m, nil
		}
		m.search.SetValue("")
		m.app.Browse.SetQuery("")
		m.browse = m.app.Browse.Snapshot()
		m.cursor = 0
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.app.Browse.SetQuery(m.search.Value())
		m.browse = m.app.Browse.Snapshot()
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) updateLists(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	all := m.userLists()
	switch {
	case key.Matches(msg, keys.Up):
		m.cursor = clamp(m.cursor-1, len(all))
	case key.Matches(msg, keys.Down):
		m.cursor = clamp(m.cursor+1, len(all))
	case key.Matches(msg, keys.Enter):
		if m.cursor < len(all) {
			if err := m.app.ShowList(all[m.cursor].ID); err != nil {
				m.err = err
				return m, nil
			}
			m.screen = screenListItems
			m.cursor = 0
		}
	case key.Matches(msg, keys.New):
		return m.openCreate()
	case key.Matches(msg, keys.Delete):
		if m.cursor < len(all) {
			manager, err := m.app.Lists()
			if err == nil {
				err = manager.DeleteList(m.ctx, all[m.cursor].ID)
			}
			if err != nil {
				m.err = err
				return m, nil
			}
			m.status = fmt.Sprintf("Deleted %q", all[m.cursor].Name)
			m.cursor = clamp(m.cursor, len(all)-1)
		}
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Lists):
		m.screen = screenHome
		m.cursor = 0
		cmd := m.search.Focus()
		return m, tea.Batch(cmd, m.enterHome())
	case key.Matches(msg, keys.Logout):
		return m.logout()
	}
	return m, nil
}

func (m Model) updateListItems(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected, items, ok := m.app.SelectedItems()
	if !ok {
		m.screen = screenLists
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Up):
		m.cursor = clamp(m.cursor-1, len(items))
	case key.Matches(msg, keys.Down):
		m.cursor = clamp(m.cursor+1, len(items))
	case key.Matches(msg, keys.Sort):
		m.app.SetSort(nextSort(m.app.Sort()))
	case key.Matches(msg, keys.Remove):
		if m.cursor < len(items) {
			manager, err := m.app.Lists()
			if err == nil {
				_, err = manager.RemoveFromList(m.ctx, selected.ID, items[m.cursor].ID)
			}
			if err != nil {
				m.err = err
				return m, nil
			}
			m.cursor = clamp(m.cursor, len(items)-1)
		}
	case key.Matches(msg, keys.Enter):
		if m.cursor < len(items) {
			return m.openDetail(items[m.cursor]), nil
		}
	case key.Matches(msg, keys.Back):
		m.app.BackToLists()
		m.screen = screenLists
		m.cursor = 0
	}
	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	all := m.userLists()
	switch {
	case key.Matches(msg, keys.Up):
		m.cursor = clamp(m.cursor-1, len(all))
	case key.Matches(msg, keys.Down):
		m.cursor = clamp(m.cursor+1, len(all))
	case key.Matches(msg, keys.New):
		return m.openCreate()
	case key.Matches(msg, keys.Enter):
		if m.cursor >= len(all) {
			return m, nil
		}
		target := all[m.cursor]
		manager, err := m.app.Lists()
		var added bool
		if err == nil {
			added, err = manager.AddToList(m.ctx, target.ID, m.picking)
		}
		if err != nil {
			m.err = err
			return m, nil
		}
		if added {
			m.status = fmt.Sprintf("Added to %q", target.Name)
		} else {
			m.status = fmt.Sprintf("Already in %q", target.Name)
		}
		return m.pop()
	case key.Matches(msg, keys.Back):
		return m.pop()
	}
	return m, nil
}

func (m Model) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		manager, err := m.app.Lists()
		var created lists.List
		if err == nil {
			created, err = manager.CreateList(m.ctx, m.listName.Value())
		}
		if err != nil {
			if errors.Is(err, lists.ErrEmptyName) {
				m.err = errors.New("list name must not be empty")
			} else {
				m.err = err
			}
			return m, nil
		}
		m.status = fmt.Sprintf("Created %q", created.Name)
		m.listName.SetValue("")
		m.listName.Blur()
		return m.pop()
	case key.Matches(msg, keys.Back):
		m.listName.SetValue("")
		m.listName.Blur()
		return m.pop()
	}
	var cmd tea.Cmd
	m.listName, cmd = m.listName.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cast []catalog.CastMember
	if m.detail.Detail != nil {
		cast = m.detail.Detail.TopCast(detail.CastShown)
	}
	switch {
	case key.Matches(msg, keys.Up):
		m.castPos = clamp(m.castPos-1, len(cast))
	case key.Matches(msg, keys.Down):
		m.castPos = clamp(m.castPos+1, len(cast))
	case key.Matches(msg, keys.Enter):
		if m.castPos < len(cast) {
			m.app.Detail.OpenFilmography(cast[m.castPos].Person)
			m.detail = m.app.Detail.Snapshot()
			m.filter.SetValue("")
			m.screen = screenFilmography
			m.cursor = 0
			cmd := m.filter.Focus()
			return m, cmd
		}
	case key.Matches(msg, keys.AddTo):
		if m.detail.Item != nil {
			return m.openPicker(*m.detail.Item), nil
		}
	case key.Matches(msg, keys.Back):
		m.app.Detail.CloseDetail()
		m.detail = m.app.Detail.Snapshot()
		return m.pop()
	}
	return m, nil
}

func (m Model) updateFilmography(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.detail.VisibleCredits()
	switch {
	case key.Matches(msg, keys.Up):
		m.cursor = clamp(m.cursor-1, len(visible))
		return m, nil
	case key.Matches(msg, keys.Down):
		m.cursor = clamp(m.cursor+1, len(visible))
		return m, nil
	case key.Matches(msg, keys.Enter):
		if m.cursor < len(visible) {
			m.filter.Blur()
			m.app.Detail.CloseFilmography()
			m.screen = m.popTarget()
			return m.openDetail(visible[m.cursor]), nil
		}
		return m, nil
	case key.Matches(msg, keys.Back):
		m.filter.Blur()
		m.app.Detail.CloseFilmography()
		m.detail = m.app.Detail.Snapshot()
		return m.pop()
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.app.Detail.SetFilter(m.filter.Value())
		m.detail = m.app.Detail.Snapshot()
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) openDetail(item catalog.Item) Model {
	m.push()
	m.search.Blur()
	m.app.Detail.OpenDetail(item)
	m.detail = m.app.Detail.Snapshot()
	m.screen = screenDetail
	m.castPos = 0
	return m
}

func (m Model) openPicker(item catalog.Item) Model {
	m.push()
	m.search.Blur()
	m.picking = item
	m.screen = screenPicker
	m.cursor = 0
	return m
}

func (m Model) openCreate() (tea.Model, tea.Cmd) {
	m.push()
	m.screen = screenCreate
	m.listName.SetValue("")
	cmd := m.listName.Focus()
	return m, cmd
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if err := m.app.Logout(m.ctx); err != nil {
		m.err = err
		return m, nil
	}
	m.search.SetValue("")
	m.search.Blur()
	m.username.SetValue("")
	m.screen = screenLogin
	m.back = nil
	m.cursor = 0
	m.status = "Signed out"
	m.browse = m.app.Browse.Snapshot()
	m.detail = m.app.Detail.Snapshot()
	cmd := m.username.Focus()
	return m, cmd
}

func (m *Model) push() {
	m.back = append(m.back, m.screen)
}

func (m *Model) popTarget() screen {
	if len(m.back) == 0 {
		return screenHome
	}
	prev := m.back[len(m.back)-1]
	m.back = m.back[:len(m.back)-1]
	return prev
}

// pop returns to the previous screen, restoring input focus where needed.
func (m Model) pop() (tea.Model, tea.Cmd) {
	m.screen = m.popTarget()
	m.cursor = 0
	switch m.screen {
	case screenHome:
		cmd := m.search.Focus()
		return m, cmd
	case screenFilmography:
		cmd := m.filter.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) selectedResult() (catalog.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.browse.Items) {
		return catalog.Item{}, false
	}
	return m.browse.Items[m.cursor], true
}

func (m Model) userLists() []lists.List {
	manager, err := m.app.Lists()
	if err != nil {
		return nil
	}
	return manager.Lists()
}

func nextSort(order lists.SortOrder) lists.SortOrder {
	switch order {
	case lists.SortDefault:
		return lists.SortRatingDesc
	case lists.SortRatingDesc:
		return lists.SortRatingAsc
	default:
		return lists.SortDefault
	}
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
