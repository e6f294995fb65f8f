package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/guideline/internal/chunker"
	"github.com/sells-group/guideline/internal/model"
	"github.com/sells-group/guideline/internal/store"
)

const seedPolicy = `Travel Policy (2025)

Allowed Transportation
- Flights: economy is default. Upgrades require manager approval.
- Ground: rideshare allowed for airport transit.

Expense Limits (Table)
| Category | Limit | Notes |
|---|---:|---|
| Meals | $60/day | Itemized receipt required |
| Hotel | $220/night | Exceptions need approval |

Receipts
- All expenses above $25 require a receipt.

Effective Date: 2025-01-01`

func defaultSchedule() model.ScheduleConfig {
	week := make([]model.WeekdayEntry, 0, 5)
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"} {
		week = append(week, model.WeekdayEntry{Day: day, Start: "08:00", End: "17:00"})
	}
	return model.ScheduleConfig{
		Timezone: "America/New_York",
		Week:     week,
		OnCall:   []model.OnCallWindow{},
		Holidays: []model.Holiday{
			{Date: "2026-01-01", Name: "New Year's Day"},
			{Date: "2026-04-03", Name: "Personal Day"},
			{Date: "2026-05-25", Name: "Memorial Day"},
			{Date: "2026-07-03", Name: "Independence Day (Observed)"},
			{Date: "2026-09-07", Name: "Labor Day"},
			{Date: "2026-11-26", Name: "Thanksgiving"},
			{Date: "2026-11-27", Name: "Day after Thanksgiving"},
			{Date: "2026-12-24", Name: "Christmas Eve"},
			{Date: "2026-12-25", Name: "Christmas Day"},
		},
	}
}

// seedData loads the starter travel policy and schedule. Existing documents
// with the travel_policy key are left alone; the schedule is always replaced.
func seedData(ctx context.Context, st store.Store) error {
	docs, err := st.ListDocuments(ctx, store.DocumentFilter{})
	if err != nil {
		return eris.Wrap(err, "seed: list documents")
	}

	seeded := false
	for _, d := range docs {
		if d.PolicyKey == "travel_policy" {
			seeded = true
			break
		}
	}

	if seeded {
		zap.L().Info("travel policy already seeded")
	} else {
		doc := model.Document{
			ID:            uuid.New().String(),
			Title:         "Travel Policy 2025",
			PolicyKey:     "travel_policy",
			EffectiveDate: "2025-01-01",
			Access:        model.AccessInternal,
			Tags:          []string{"travel", "expenses"},
			CreatedAt:     time.Now().UTC(),
		}
		doc.Chunks = chunker.Split(doc.ID, seedPolicy, doc.Access, doc.EffectiveDate)

		if err := st.CreateDocument(ctx, doc); err != nil {
			return eris.Wrap(err, "seed: create travel policy")
		}
		zap.L().Info("seeded travel policy",
			zap.String("docId", doc.ID),
			zap.Int("chunks", len(doc.Chunks)),
		)
	}

	if err := st.SetSchedule(ctx, defaultSchedule()); err != nil {
		return eris.Wrap(err, "seed: set schedule")
	}
	zap.L().Info("seeded schedule config")

	return nil
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter travel policy and work schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initService(cmd.Context(), "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		return seedData(cmd.Context(), env.Store)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
