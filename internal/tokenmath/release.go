package tokenmath

import "strconv"

// DefaultCycleCount is the number of release cycles the forms preview.
const DefaultCycleCount = 3

// MaxCycleCount bounds every projection (a century of monthly cycles).
const MaxCycleCount = 1200

// ReleaseScheduleInput mirrors the token fields of a collaborative proposal.
type ReleaseScheduleInput struct {
	TokensCreated          float64 `json:"tokensCreated"`
	TokensPriorWorkPercent float64 `json:"tokensPriorWorkPercent"`
	TokenReleaseRate       float64 `json:"tokenReleaseRate"`
	CycleCount             int     `json:"cycleCount"`
}

// AdminCompensationInput adds the admin's share of every release cycle.
type AdminCompensationInput struct {
	CompensationPercent float64              `json:"collabAdminCompensationPercent"`
	Schedule            ReleaseScheduleInput `json:"schedule"`
}

// ReservedForPriorWork returns the tokens set aside for work done before launch.
func ReservedForPriorWork(tokensCreated, priorWorkPercent float64) int64 {
	return roundInt(Amount(tokensCreated) * Percent(priorWorkPercent) / 100)
}

// AvailableForRelease returns the pool that release cycles draw from.
func AvailableForRelease(tokensCreated, priorWorkPercent float64) int64 {
	avail := roundInt(Amount(tokensCreated)) - ReservedForPriorWork(tokensCreated, priorWorkPercent)
	if avail < 0 {
		return 0
	}
	return avail
}

// ProjectReleaseCycles returns the tokens released in each cycle under geometric decay.
//
// Each cycle releases round(remaining * rate) and the rounded amount is subtracted from
// the pool before the next cycle; the remaining pool is never carried as a fraction.
// A cycleCount of zero or less previews DefaultCycleCount cycles; counts above
// MaxCycleCount are clamped to it.
func ProjectReleaseCycles(availableForRelease, releaseRatePercent float64, cycleCount int) []int64 {
	switch {
	case cycleCount <= 0:
		cycleCount = DefaultCycleCount
	case cycleCount > MaxCycleCount:
		cycleCount = MaxCycleCount
	}
	r := Percent(releaseRatePercent) / 100
	remaining := roundInt(Amount(availableForRelease))

	out := make([]int64, cycleCount)
	for i := range out {
		released := roundInt(float64(remaining) * r)
		out[i] = released
		remaining -= released
	}
	return out
}

// ProjectAdminPayouts returns the admin's share of each released amount.
// ok is false when no compensation is configured, which callers must keep
// distinct from a computed payout of zero.
func ProjectAdminPayouts(cycles []int64, compensationPercent float64) (payouts []int64, ok bool) {
	c := Percent(compensationPercent) / 100
	if c == 0 {
		return nil, false
	}
	payouts = make([]int64, len(cycles))
	for i, released := range cycles {
		payouts[i] = roundInt(float64(released) * c)
	}
	return payouts, true
}

// Ordinal renders a cycle number as 1st, 2nd, 3rd, 4th, 11th, 21st...
func Ordinal(n int) string {
	m := n % 100
	if m < 0 {
		m = -m
	}
	suffix := "th"
	if m < 11 || m > 13 {
		switch m % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// ReleaseCycle is one row of a release preview table.
type ReleaseCycle struct {
	Cycle          int    `json:"cycle"`
	Label          string `json:"label"`
	Released       int64  `json:"released"`
	AdminPayout    *int64 `json:"adminPayout"`
	RemainingAfter int64  `json:"remainingAfter"`
}

// ReleaseSchedule is the full preview shown next to a token form.
type ReleaseSchedule struct {
	TokensCreated       int64   `json:"tokensCreated"`
	PriorWorkPercent    float64 `json:"tokensPriorWorkPercent"`
	ReleaseRatePercent  float64 `json:"tokenReleaseRate"`
	CompensationPercent float64 `json:"collabAdminCompensationPercent"`

	Reserved            int64 `json:"reservedForPriorWork"`
	AvailableForRelease int64 `json:"availableForRelease"`

	Cycles []ReleaseCycle `json:"cycles"`

	AdminCompensated bool   `json:"adminCompensated"`
	TotalReleased    int64  `json:"totalReleased"`
	TotalAdminPayout *int64 `json:"totalAdminPayout"`
	Unreleased       int64  `json:"unreleased"`
}

// BuildReleaseSchedule assembles reserved tokens, cycle releases and admin payouts
// into one preview. Inputs are coerced the same way the individual functions do.
func BuildReleaseSchedule(in AdminCompensationInput) ReleaseSchedule {
	s := in.Schedule
	reserved := ReservedForPriorWork(s.TokensCreated, s.TokensPriorWorkPercent)
	avail := AvailableForRelease(s.TokensCreated, s.TokensPriorWorkPercent)
	cycles := ProjectReleaseCycles(float64(avail), s.TokenReleaseRate, s.CycleCount)
	payouts, compensated := ProjectAdminPayouts(cycles, in.CompensationPercent)

	out := ReleaseSchedule{
		TokensCreated:       roundInt(Amount(s.TokensCreated)),
		PriorWorkPercent:    Percent(s.TokensPriorWorkPercent),
		ReleaseRatePercent:  Percent(s.TokenReleaseRate),
		CompensationPercent: Percent(in.CompensationPercent),
		Reserved:            reserved,
		AvailableForRelease: avail,
		Cycles:              make([]ReleaseCycle, len(cycles)),
		AdminCompensated:    compensated,
	}

	remaining := avail
	var adminTotal int64
	for i, released := range cycles {
		remaining -= released
		row := ReleaseCycle{
			Cycle:          i + 1,
			Label:          Ordinal(i + 1),
			Released:       released,
			RemainingAfter: remaining,
		}
		if compensated {
			p := payouts[i]
			row.AdminPayout = &p
			adminTotal += p
		}
		out.Cycles[i] = row
		out.TotalReleased += released
	}
	out.Unreleased = remaining
	if compensated {
		out.TotalAdminPayout = &adminTotal
	}
	return out
}
