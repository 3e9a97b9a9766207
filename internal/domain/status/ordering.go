package status

import "slices"

// Order returns a copy of games sorted live, alpha, coming-soon.
// Games within the same tier keep their input order; the input is not modified.
func Order(games []DisplayGame) []DisplayGame {
	ordered := make([]DisplayGame, len(games))
	copy(ordered, games)

	slices.SortStableFunc(ordered, func(a, b DisplayGame) int {
		return a.Tier.Rank() - b.Tier.Rank()
	})

	return ordered
}

// TierCounts is the number of games per visibility tier
type TierCounts map[VisibilityTier]int

// Summarize counts games per tier. Every tier is present, zero or not.
func Summarize(games []DisplayGame) TierCounts {
	counts := make(TierCounts, len(Tiers))
	for _, tier := range Tiers {
		counts[tier] = 0
	}
	for _, game := range games {
		counts[game.Tier]++
	}
	return counts
}
