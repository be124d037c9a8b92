package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"myfilms/internal/app"
	"myfilms/internal/browse"
	"myfilms/internal/detail"
)

type sender interface {
	Send(msg tea.Msg)
}

// forward delivers the latest snapshot to p whenever the returned signal is
// raised. Signals coalesce and delivery happens on its own goroutine, so an
// orchestrator notifying from inside Update never blocks the event loop.
func forward(ctx context.Context, p sender, snapshot func() tea.Msg) (signal func()) {
	pending := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-pending:
				p.Send(snapshot())
			}
		}
	}()
	return func() {
		select {
		case pending <- struct{}{}:
		default:
		}
	}
}

// Run starts the terminal UI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, a *app.App, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	base := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	p := tea.NewProgram(New(ctx, a), append(base, opts...)...)

	browseChanged := forward(ctx, p, func() tea.Msg { return browseMsg{a.Browse.Snapshot()} })
	detailChanged := forward(ctx, p, func() tea.Msg { return detailMsg{a.Detail.Snapshot()} })
	defer a.Browse.Subscribe(func(browse.State) { browseChanged() })()
	defer a.Detail.Subscribe(func(detail.State) { detailChanged() })()

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
