package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cinetalk/cinetalk/internal/shared"
	"github.com/cinetalk/cinetalk/internal/ui"
	"github.com/cinetalk/cinetalk/internal/views"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/cinetalk-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	r.ensureSession(ctx)

	catalog := views.NewCatalogView(r.movies)
	detail := views.NewMovieDetailView(r.movies, r.reviews, r.session)
	boardList := views.NewBoardListView(r.board)
	boardDetail := views.NewBoardDetailView(r.board, r.session)

	model := ui.NewModel(ctx, catalog, detail, boardList, boardDetail)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
