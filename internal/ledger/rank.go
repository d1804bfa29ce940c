package ledger

import "math"

// Rank is the achievement tier derived from the number of distinct burns.
type Rank struct {
	Name string
	// Next is empty at the top tier.
	Next string
	// Progress toward Next, 0..100.
	Progress float64
	Count    int
}

var rankTiers = []struct {
	min  int
	name string
}{
	{0, "Novice Burner"},
	{3, "Flame Apprentice"},
	{5, "Inferno Adept"},
	{10, "Hellfire Master"},
	{15, "Demon Lord"},
}

// RankFor maps a distinct burn count to its tier.
func RankFor(count int) Rank {
	r := Rank{Count: count}
	tier := 0
	for i, t := range rankTiers {
		if count >= t.min {
			tier = i
		}
	}
	r.Name = rankTiers[tier].name
	if tier+1 < len(rankTiers) {
		r.Next = rankTiers[tier+1].name
	}

	switch {
	case count >= 15:
		r.Progress = 100
	case count >= 10:
		r.Progress = float64(count-10) / 5 * 100
	case count >= 5:
		r.Progress = float64(count-5) / 5 * 100
	case count >= 3:
		r.Progress = float64(count-3) / 2 * 100
	case count >= 1:
		r.Progress = float64(count-1) / 2 * 100
	}
	r.Progress = math.Min(100, r.Progress)
	return r
}
