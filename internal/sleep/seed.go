package sleep

import (
	"context"
	"fmt"
	"time"
)

// SeedDemoData inserts five demo summaries covering distinct users and
// recent dates, mirroring the shape of real tracker exports. Intended for
// local environments only.
func SeedDemoData(ctx context.Context, store Store) (int, error) {
	today := time.Now().UTC()
	for i := 1; i <= 5; i++ {
		_, err := store.Add(ctx, Summary{
			UserID:         fmt.Sprintf("user00%d", i),
			Date:           today.AddDate(0, 0, -(i - 1)).Format("2006-01-02"),
			TotalSleepMins: 420 + i*30,
			DeepSleepMins:  60 + i*10,
			RemSleepMins:   90 + i*5,
			Score:          70 + i*4,
		})
		if err != nil {
			return i - 1, fmt.Errorf("seed summary %d: %w", i, err)
		}
	}
	return 5, nil
}
