package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenHome screen = iota
	screenRelease
	screenBudget
)

func (s screen) String() string {
	switch s {
	case screenHome:
		return "home"
	case screenRelease:
		return "release"
	case screenBudget:
		return "budget"
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

const (
	itemRelease = "Release calculator"
	itemBudget  = "Budget calculator"
	itemInit    = "Init workspace"
	itemQuit    = "Quit"
)

// touchEvery throttles session activity writes while keys are pressed.
const touchEvery = time.Minute

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type model struct {
	theme Theme
	deps  Deps

	scr  screen
	menu list.Model

	release form
	budget  form

	workspaceFound bool
	workspaceRoot  string

	user           string
	sessionExpired bool
	lastTouch      time.Time

	toast string
	width int
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())

	stop := watchSession(deps, p.Send)
	defer stop()

	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	items := []list.Item{
		menuItem{itemRelease, "Project launch-token releases and admin payouts per cycle"},
		menuItem{itemBudget, "Check an allocation against an available balance"},
		menuItem{itemInit, "Create cvx.yaml in the current directory"},
		menuItem{itemQuit, "Exit cvx"},
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "cvx"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	if deps.Cycles <= 0 {
		deps.Cycles = 3
	}

	m := model{
		theme:   t,
		deps:    deps,
		scr:     screenHome,
		menu:    l,
		release: newReleaseForm(),
		budget:  newBudgetForm(),
	}

	wd, err := os.Getwd()
	if err == nil && deps.WorkspaceLocator != nil {
		if root, findErr := deps.WorkspaceLocator.FindRoot(wd); findErr == nil {
			m.workspaceFound = true
			m.workspaceRoot = root
		}
	}

	if deps.Guard != nil {
		if s, err := deps.Guard.Current(); err == nil {
			m.user = s.User.DisplayName()
		} else {
			m.toast = userMessage(err)
		}
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.menu.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case sessionExpiredMsg:
		m.sessionExpired = true
		m.user = ""
		m.toast = fmt.Sprintf("Session expired after %s idle (run cvx login)", msg.idle)
		return m, nil

	case sessionTouchedMsg:
		if msg.err != nil && m.deps.Logger != nil {
			m.deps.Logger.Debug("session.touch_failed", "err", msg.err)
		}
		return m, nil

	case workspaceRefreshedMsg:
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		return m, nil

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		if len(msg.result.Written) == 0 {
			m.toast = "Workspace already set up in " + shortPath(msg.root, 50)
		} else {
			m.toast = "Workspace initialized in " + shortPath(msg.root, 50)
		}
		return m, cmdRefreshWorkspace(m.deps)

	case tea.KeyMsg:
		touch := m.touch()

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.scr != screenHome {
				m.scr = screenHome
				return m, touch
			}
		}

		switch m.scr {
		case screenRelease:
			var cmd tea.Cmd
			m.release, cmd = m.release.Update(msg)
			return m, tea.Batch(cmd, touch)
		case screenBudget:
			var cmd tea.Cmd
			m.budget, cmd = m.budget.Update(msg)
			return m, tea.Batch(cmd, touch)
		}

		if m.menu.FilterState() != list.Filtering {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "enter":
				return m.open()
			}
		}
	}

	if m.scr == screenHome {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) open() (tea.Model, tea.Cmd) {
	it, ok := m.menu.SelectedItem().(menuItem)
	if !ok {
		return m, nil
	}
	m.toast = ""
	switch it.title {
	case itemRelease:
		m.scr = screenRelease
	case itemBudget:
		m.scr = screenBudget
	case itemInit:
		wd, err := os.Getwd()
		if err != nil {
			m.toast = userMessage(err)
			return m, nil
		}
		return m, cmdInitWorkspaceHere(m.deps, wd)
	case itemQuit:
		return m, tea.Quit
	}
	return m, nil
}

// touch returns a session touch at most once per touchEvery.
func (m *model) touch() tea.Cmd {
	if m.deps.Guard == nil || m.sessionExpired || m.user == "" {
		return nil
	}
	now := time.Now()
	if now.Sub(m.lastTouch) < touchEvery {
		return nil
	}
	m.lastTouch = now
	return cmdTouchSession(m.deps)
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("cvx") + "\n" +
		m.theme.Subtitle.Render("Collaborative Value Exchange: launch-token release and budget previews") + "\n"

	var banner string
	if m.workspaceFound {
		banner = m.theme.Help.Render("Workspace: " + shortPath(m.workspaceRoot, 60))
	} else {
		banner = m.theme.Help.Render("No workspace (calculators work offline; choose Init workspace to create one)")
	}
	switch {
	case m.user != "":
		banner += "\n" + m.theme.Help.Render("Signed in as "+clampString(m.user, 40))
	case m.sessionExpired:
		banner += "\n" + m.theme.Warn.Render("Signed out: session expired")
	}
	if m.toast != "" {
		banner += "\n" + m.theme.Warn.Render(m.toast)
	}

	switch m.scr {
	case screenHome:
		help := m.theme.Help.Render("↑/↓ navigate • enter open • / search • q quit")
		return wrap.Render(header + "\n" + banner + "\n\n" + m.theme.Card.Render(m.menu.View()) + "\n" + help)

	case screenRelease:
		body := m.theme.Title.Render(itemRelease) + "\n\n" +
			m.release.View(m.theme) + "\n" +
			renderRelease(m.theme, m.release, m.deps.Cycles)
		help := m.theme.Help.Render("tab/↓ next field • shift+tab/↑ previous • esc back")
		return wrap.Render(header + "\n" + banner + "\n\n" + m.theme.Card.Render(body) + "\n" + help)

	case screenBudget:
		body := m.theme.Title.Render(itemBudget) + "\n\n" +
			m.budget.View(m.theme) + "\n" +
			renderBudget(m.theme, m.budget)
		help := m.theme.Help.Render("tab/↓ next field • shift+tab/↑ previous • esc back")
		return wrap.Render(header + "\n" + banner + "\n\n" + m.theme.Card.Render(body) + "\n" + help)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
