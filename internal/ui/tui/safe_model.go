package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const panicToast = "Unexpected error, calculator reset (see .cvx/logs/cvx.log)"

// safeModel recovers panics from the wrapped model. A panic on a calculator
// screen clears that calculator's inputs so the next frame does not repeat it.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd { return s.m.Init() }

func (s safeModel) Update(msg tea.Msg) (next tea.Model, cmd tea.Cmd) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s.logPanic("tui.update", r)
		s.m = s.m.recovered()
		next, cmd = s, nil
	}()

	inner, c := s.m.Update(msg)
	switch v := inner.(type) {
	case model:
		s.m = v
	case safeModel:
		s = v
	}
	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic("tui.view", r)
			out = panicToast
		}
	}()
	return s.m.View()
}

func (s safeModel) logPanic(where string, r any) {
	s.log.Error("panic.recovered",
		"where", where,
		"screen", s.m.scr.String(),
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
}

// recovered resets the screen that panicked and returns to the menu.
func (m model) recovered() model {
	switch m.scr {
	case screenRelease:
		m.release = newReleaseForm()
	case screenBudget:
		m.budget = newBudgetForm()
	}
	m.scr = screenHome
	m.toast = panicToast
	return m
}

var _ tea.Model = safeModel{}
