package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	jsoniter "github.com/json-iterator/go"

	"github.com/alignedworks/cvx/internal/tokenmath"
	"github.com/alignedworks/cvx/internal/usecase"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	formatPretty = "pretty"
	formatJSON   = "json"
)

func checkFormat(format string) error {
	switch format {
	case formatPretty, formatJSON, "":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// output prints v as JSON or through pretty.
func output(w io.Writer, format string, v any, pretty func(io.Writer)) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == formatJSON {
		return writeJSON(w, v)
	}
	pretty(w)
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func printSchedule(w io.Writer, s tokenmath.ReleaseSchedule) {
	fmt.Fprintf(w, "Tokens created:          %s\n", tokenmath.Grouped(s.TokensCreated))
	fmt.Fprintf(w, "Reserved for prior work: %s (%s)\n", tokenmath.Grouped(s.Reserved), tokenmath.FormatPercent(s.PriorWorkPercent))
	fmt.Fprintf(w, "Available for release:   %s\n", tokenmath.Grouped(s.AvailableForRelease))
	fmt.Fprintf(w, "Release rate:            %s per cycle\n", tokenmath.FormatPercent(s.ReleaseRatePercent))
	if s.AdminCompensated {
		fmt.Fprintf(w, "Admin compensation:      %s of each release\n", tokenmath.FormatPercent(s.CompensationPercent))
	}
	fmt.Fprintln(w)

	headers := []string{"Cycle", "Released", "Remaining"}
	if s.AdminCompensated {
		headers = []string{"Cycle", "Released", "Admin payout", "Remaining"}
	}
	t := newTable(headers...)
	for _, c := range s.Cycles {
		row := []string{c.Label, tokenmath.Grouped(c.Released)}
		if c.AdminPayout != nil {
			row = append(row, tokenmath.Grouped(*c.AdminPayout))
		}
		t.Row(append(row, tokenmath.Grouped(c.RemainingAfter))...)
	}
	fmt.Fprintln(w, t.String())

	fmt.Fprintf(w, "Total released: %s", tokenmath.Grouped(s.TotalReleased))
	if s.TotalAdminPayout != nil {
		fmt.Fprintf(w, "  admin: %s", tokenmath.Grouped(*s.TotalAdminPayout))
	}
	fmt.Fprintf(w, "  unreleased: %s\n", tokenmath.Grouped(s.Unreleased))
}

func printBudget(w io.Writer, p usecase.BudgetPreview) {
	if p.Source != "" {
		fmt.Fprintf(w, "Balance of %s: %s\n", p.Source, groupedAmount(p.Balance))
	}
	if !p.Applicable {
		fmt.Fprintln(w, "Nothing to preview: enter a positive amount and a balance.")
		return
	}
	r := p.Result
	fmt.Fprintf(w, "Remaining balance:          %s\n", tokenmath.Grouped(r.RemainingBalance))
	fmt.Fprintf(w, "Share of available balance: %s\n", tokenmath.FormatPercent(r.PercentOfAvailable))
	fmt.Fprintf(w, "Remaining after commitment: %s\n", tokenmath.Grouped(r.RemainingAfterCommitment))
	fmt.Fprintf(w, "Already committed:          %s\n", tokenmath.FormatPercent(r.PercentCommitted))
	printAdvisories(w, r.Advisories)
}

func printAdvisories(w io.Writer, advisories []tokenmath.Advisory) {
	for _, a := range advisories {
		fmt.Fprintf(w, "! %s\n", a)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
