// Package tokenmath previews launch-token release schedules and budget allocations.
//
// Every function is a pure computation over plain numbers: no I/O, no shared state,
// safe to call concurrently and on every keystroke. Bad input (NaN, infinities,
// negatives, percentages outside 0..100) is coerced instead of rejected, and
// budget problems are reported as advisories next to the computed figures.
//
// The previews mirror what the platform forms show; the server stays authoritative
// for the real token accounting.
package tokenmath
