package tui

import (
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/goleak"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/tokenmath"
	"github.com/alignedworks/cvx/internal/usecase"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memStore struct{ s domain.Session }

func (m *memStore) Load() (domain.Session, error) { return m.s, nil }
func (m *memStore) Save(s domain.Session) error   { m.s = s; return nil }
func (m *memStore) Clear() error                  { m.s = domain.Session{}; return nil }

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		mm, ok := next.(model)
		if !ok {
			t.Fatalf("expected model, got %T", next)
		}
		m = mm
	}
	return m
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	sized    = tea.WindowSizeMsg{Width: 120, Height: 48}
)

func TestModel_HomeMenu(t *testing.T) {
	v := send(t, newModel(Deps{}), sized).View()
	for _, want := range []string{"Release calculator", "Budget calculator", "No workspace"} {
		if !strings.Contains(v, want) {
			t.Fatalf("expected home view to contain %q:\n%s", want, v)
		}
	}
}

func TestModel_ReleaseCalculatorRecomputesOnInput(t *testing.T) {
	m := send(t, newModel(Deps{Cycles: 3}), sized, keyEnter)
	if m.scr != screenRelease {
		t.Fatalf("expected release screen, got %v", m.scr)
	}

	m = send(t, m, typed("100000"), keyTab, typed("10"))
	if v := m.View(); !strings.Contains(v, "10,000") {
		t.Fatalf("expected reserved amount after prior work input, got:\n%s", v)
	}

	m = send(t, m, keyTab, typed("10"))
	v := m.View()
	for _, want := range []string{"9,000", "8,100", "7,290", "24,390", "admin compensation: n/a"} {
		if !strings.Contains(v, want) {
			t.Fatalf("expected %q in view:\n%s", want, v)
		}
	}

	m = send(t, m, keyTab, typed("5"))
	if v := m.View(); !strings.Contains(v, "Admin payout") || !strings.Contains(v, "1,220") {
		t.Fatalf("expected admin payouts after compensation input:\n%s", v)
	}

	m = send(t, m, keyEsc)
	if m.scr != screenHome {
		t.Fatalf("expected esc to return home, got %v", m.scr)
	}
}

func TestCycleCount(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 3},
		{-4, 3},
		{0.5, 3},
		{math.NaN(), 3},
		{12, 12},
		{12.9, 12},
		{tokenmath.MaxCycleCount, tokenmath.MaxCycleCount},
		{9999999999, tokenmath.MaxCycleCount},
		{1e300, tokenmath.MaxCycleCount},
		{math.Inf(1), tokenmath.MaxCycleCount},
	}
	for _, c := range cases {
		if got := cycleCount(c.in, 3); got != c.want {
			t.Errorf("cycleCount(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestModel_ReleaseCalculatorHugeCycleCount(t *testing.T) {
	m := send(t, newModel(Deps{Cycles: 3}), sized, keyEnter)
	m = send(t, m, typed("100000"), keyTab, keyTab, typed("10"), keyTab, keyTab, typed("9999999999"))

	in := releaseInput(m.release, 3)
	if in.Schedule.CycleCount != tokenmath.MaxCycleCount {
		t.Fatalf("expected cycles clamped to %d, got %d", tokenmath.MaxCycleCount, in.Schedule.CycleCount)
	}
	if v := m.View(); !strings.Contains(v, "10,000") {
		t.Fatalf("expected first release in view")
	}
}

func TestModel_ReleaseCalculatorFlagsBadInput(t *testing.T) {
	m := send(t, newModel(Deps{}), sized, keyEnter, typed("abc"))
	if v := m.View(); !strings.Contains(v, "not a number") {
		t.Fatalf("expected bad input marker:\n%s", v)
	}
}

func TestModel_BudgetCalculator(t *testing.T) {
	m := send(t, newModel(Deps{}), sized, keyDown, keyEnter)
	if m.scr != screenBudget {
		t.Fatalf("expected budget screen, got %v", m.scr)
	}
	if v := m.View(); !strings.Contains(v, "Enter a balance") {
		t.Fatalf("expected not-applicable hint:\n%s", v)
	}

	m = send(t, m, typed("9000"), keyTab, typed("12000"))
	v := m.View()
	if !strings.Contains(v, "-3,000") || !strings.Contains(v, "allocation exceeds available balance") {
		t.Fatalf("expected overspend preview:\n%s", v)
	}
}

func TestModel_QTypedInCalculatorDoesNotQuit(t *testing.T) {
	m := send(t, newModel(Deps{}), sized, keyEnter)
	_, cmd := m.Update(typed("q"))
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Fatalf("typing q in a field must not quit")
		}
	}
}

func TestModel_SessionExpired(t *testing.T) {
	store := &memStore{}
	store.s.Login(domain.User{Email: "ada@example.org", FirstName: "Ada"}, nil, time.Now())
	guard := usecase.NewSessionGuard(store, time.Hour)

	m := newModel(Deps{Guard: guard})
	if m.user != "Ada" || !strings.Contains(send(t, m, sized).View(), "Signed in as Ada") {
		t.Fatalf("expected signed-in banner, user=%q", m.user)
	}

	m = send(t, m, sessionExpiredMsg{idle: 30 * time.Minute})
	v := m.View()
	if m.user != "" || !strings.Contains(v, "session expired") || !strings.Contains(v, "30m0s") {
		t.Fatalf("expected expiry banner:\n%s", v)
	}
}

func TestWatchSession_PostsExpiry(t *testing.T) {
	store := &memStore{}
	store.s.Login(domain.User{Email: "ada@example.org"}, nil, time.Now().Add(-2*time.Hour))
	guard := usecase.NewSessionGuard(store, time.Hour)

	var got atomic.Int32
	fired := make(chan struct{})
	stop := watchSession(Deps{Guard: guard, WatchInterval: time.Millisecond}, func(msg tea.Msg) {
		if _, ok := msg.(sessionExpiredMsg); ok && got.Add(1) == 1 {
			close(fired)
		}
	})
	defer stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected sessionExpiredMsg")
	}
}

func TestWatchSession_NoGuard(t *testing.T) {
	stop := watchSession(Deps{}, func(tea.Msg) { t.Errorf("unexpected message") })
	stop()
}

func TestSafeModel_PassesThrough(t *testing.T) {
	s := wrapSafe(newModel(Deps{}), nil)
	next, _ := s.Update(sized)
	next, _ = next.Update(keyEnter)
	sm, ok := next.(safeModel)
	if !ok {
		t.Fatalf("expected safeModel, got %T", next)
	}
	if sm.m.scr != screenRelease {
		t.Fatalf("expected release screen through wrapper, got %v", sm.m.scr)
	}
	if !strings.Contains(sm.View(), "Release calculator") {
		t.Fatalf("expected wrapped view")
	}
}

type stubInitializer struct {
	res domain.InitResult
}

func (s stubInitializer) Init(domain.WorkspaceSpec, bool) (domain.InitResult, error) {
	return s.res, nil
}

func TestModel_InitWorkspaceToast(t *testing.T) {
	deps := Deps{WorkspaceInitializer: stubInitializer{res: domain.InitResult{Written: []string{"cvx.yaml"}}}}
	msg := cmdInitWorkspaceHere(deps, "/home/ana/makers")()
	done, ok := msg.(initWorkspaceDoneMsg)
	if !ok || done.err != nil {
		t.Fatalf("unexpected init message: %#v", msg)
	}

	m := send(t, newModel(deps), sized, done)
	if !strings.Contains(m.View(), "Workspace initialized in /home/ana/makers") {
		t.Fatalf("expected init toast:\n%s", m.View())
	}

	m = send(t, m, initWorkspaceDoneMsg{root: "/home/ana/makers", result: domain.InitResult{Kept: []string{"cvx.yaml"}}})
	if !strings.Contains(m.View(), "Workspace already set up") {
		t.Fatalf("expected already-set-up toast:\n%s", m.View())
	}
}

func TestModel_RecoveredResetsCalculator(t *testing.T) {
	m := send(t, newModel(Deps{}), sized, keyEnter, typed("5"))
	if m.scr != screenRelease || m.release.fields[0].input.Value() != "5" {
		t.Fatalf("expected typed input on release screen, got %q", m.release.fields[0].input.Value())
	}

	r := m.recovered()
	if r.scr != screenHome || r.toast != panicToast {
		t.Fatalf("expected recovery to home, got scr=%v toast=%q", r.scr, r.toast)
	}
	if r.release.fields[0].input.Value() != "" {
		t.Fatalf("expected release form reset")
	}
	if !strings.Contains(r.View(), panicToast) {
		t.Fatalf("expected panic toast in view")
	}
}
