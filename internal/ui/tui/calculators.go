package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/alignedworks/cvx/internal/tokenmath"
)

const (
	relTokens = iota
	relPriorWork
	relRate
	relAdminComp
	relCycles
)

func newReleaseForm() form {
	return newForm("Tokens created", "Prior work %", "Release rate %", "Admin compensation %", "Cycles")
}

func releaseInput(f form, defaultCycles int) tokenmath.AdminCompensationInput {
	return tokenmath.AdminCompensationInput{
		CompensationPercent: f.orZero(relAdminComp),
		Schedule: tokenmath.ReleaseScheduleInput{
			TokensCreated:          f.orZero(relTokens),
			TokensPriorWorkPercent: f.orZero(relPriorWork),
			TokenReleaseRate:       f.orZero(relRate),
			CycleCount:             cycleCount(f.orZero(relCycles), defaultCycles),
		},
	}
}

// cycleCount clamps the typed value while it is still a float, since
// converting an out-of-range float to int is implementation-defined.
func cycleCount(v float64, defaultCycles int) int {
	switch {
	case math.IsNaN(v) || v < 1:
		return defaultCycles
	case v > tokenmath.MaxCycleCount:
		return tokenmath.MaxCycleCount
	}
	return int(v)
}

// renderRelease recomputes the schedule from the current form on every call.
func renderRelease(t Theme, f form, defaultCycles int) string {
	s := tokenmath.BuildReleaseSchedule(releaseInput(f, defaultCycles))

	var b strings.Builder
	fmt.Fprintf(&b, "Reserved for prior work: %s\n", tokenmath.Grouped(s.Reserved))
	fmt.Fprintf(&b, "Available for release:   %s\n\n", tokenmath.Grouped(s.AvailableForRelease))

	headers := []string{"Cycle", "Released", "Remaining"}
	if s.AdminCompensated {
		headers = []string{"Cycle", "Released", "Admin payout", "Remaining"}
	}
	tb := table.New().Border(lipgloss.RoundedBorder()).Headers(headers...)
	for _, c := range s.Cycles {
		row := []string{c.Label, tokenmath.Grouped(c.Released)}
		if c.AdminPayout != nil {
			row = append(row, tokenmath.Grouped(*c.AdminPayout))
		}
		tb.Row(append(row, tokenmath.Grouped(c.RemainingAfter))...)
	}
	b.WriteString(tb.String())
	b.WriteString("\n")

	fmt.Fprintf(&b, "Total released: %s", tokenmath.Grouped(s.TotalReleased))
	if s.TotalAdminPayout != nil {
		fmt.Fprintf(&b, "   admin: %s", tokenmath.Grouped(*s.TotalAdminPayout))
	} else {
		b.WriteString(t.Help.Render("   admin compensation: n/a"))
	}
	return b.String()
}

const (
	budBalance = iota
	budAmount
	budCommitted
)

func newBudgetForm() form {
	return newForm("Available balance", "Requested amount", "Already committed")
}

func budgetInput(f form) tokenmath.BudgetAllocationInput {
	in := tokenmath.BudgetAllocationInput{
		RequestedAmount:        f.orZero(budAmount),
		AlreadyCommittedAmount: f.orZero(budCommitted),
	}
	if v, ok, _ := f.number(budBalance); ok {
		in.TotalAvailableBalance = tokenmath.Balance(v)
	}
	return in
}

// renderBudget recomputes the allocation preview from the current form on every call.
func renderBudget(t Theme, f form) string {
	r, ok := tokenmath.BudgetAllocationPreview(budgetInput(f))
	if !ok {
		return t.Help.Render("Enter a balance and a positive requested amount.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Remaining balance:          %s\n", tokenmath.Grouped(r.RemainingBalance))
	fmt.Fprintf(&b, "Share of available balance: %s\n", tokenmath.FormatPercent(r.PercentOfAvailable))
	fmt.Fprintf(&b, "Remaining after commitment: %s\n", tokenmath.Grouped(r.RemainingAfterCommitment))
	fmt.Fprintf(&b, "Already committed:          %s", tokenmath.FormatPercent(r.PercentCommitted))
	for _, a := range r.Advisories {
		b.WriteString("\n")
		b.WriteString(t.Warn.Render("! " + string(a)))
	}
	return b.String()
}
