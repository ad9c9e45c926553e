package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gccbridge/internal/config"
	"gccbridge/internal/driver"
	"gccbridge/internal/gimple"
	"gccbridge/internal/ui"
)

type translateOutcome struct {
	result *driver.UnitResult
	err    error
}

// translateWithUI lowers u while a progress view runs on stderr, leaving
// stdout free for the class.
func translateWithUI(ctx context.Context, u *gimple.Unit, cfg config.Config, cache *driver.Cache) (*driver.UnitResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan translateOutcome, 1)

	go func() {
		res, err := driver.TranslateUnitWith(ctx, u, cfg, driver.Options{
			Cache:    cache,
			Progress: driver.ChannelSink{Ch: events},
		})
		outcomeCh <- translateOutcome{result: res, err: err}
		close(events)
	}()

	names := make([]string, len(u.Functions))
	for i := range u.Functions {
		names[i] = u.Functions[i].Name
	}
	model := ui.NewProgressModel(u.Source, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	final, uiErr := program.Run()
	interrupted := uiErr == nil && ui.Interrupted(final)
	if interrupted {
		cancel()
	}
	if uiErr != nil || interrupted {
		// Keep the worker from blocking on a view that is gone.
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if interrupted && outcome.err == nil {
		return outcome.result, context.Canceled
	}
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
