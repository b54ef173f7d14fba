package points

// Scoring constants for nightly sleep points.
const (
	deepSleepBlockMins = 30
	deepSleepBlockPts  = 5
	deepSleepBonusCap  = 30
	dailyCap           = 50
)

// Calculate converts a night's sleep score and deep-sleep minutes into
// points. Base tier from the score, a bonus per full half hour of deep
// sleep capped at 30, and a daily cap of 50. Out-of-range inputs clamp
// to zero rather than fail; the scoring must always produce a value.
func Calculate(sleepScore, deepSleepMinutes int) int {
	if sleepScore < 0 || sleepScore > 100 {
		sleepScore = 0
	}
	if deepSleepMinutes < 0 {
		deepSleepMinutes = 0
	}

	var base int
	switch {
	case sleepScore >= 80:
		base = 20
	case sleepScore >= 70:
		base = 15
	case sleepScore >= 60:
		base = 10
	default:
		base = 5
	}

	bonus := (deepSleepMinutes / deepSleepBlockMins) * deepSleepBlockPts
	if bonus > deepSleepBonusCap {
		bonus = deepSleepBonusCap
	}

	total := base + bonus
	if total > dailyCap {
		total = dailyCap
	}
	return total
}
