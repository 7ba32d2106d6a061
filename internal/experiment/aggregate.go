// Package experiment implements the two-arm experiment analysis
// engine: the SRM gate, the outcome test battery, the novelty table,
// segment breakdowns, and power/MDE figures.
package experiment

import (
	"fmt"
	"sort"

	"fantasy-analytics/internal/domain"
)

// BuildUserOutcomes collapses per-week event rows to one UserOutcome
// per user. Booleans aggregate as any-week (max), total claims as the
// sum, and retention as the all-weeks minimum: a user retained through
// the season must have been retained every observed week.
//
// Every event must reference a known assignment and carry the same arm
// the user was assigned; anything else is a shape error, propagated
// rather than dropped.
//
// Output is sorted by user_id for deterministic downstream iteration.
func BuildUserOutcomes(assignments []*domain.Assignment, events []*domain.EventRecord) ([]*domain.UserOutcome, error) {
	byUser := make(map[int64]*domain.Assignment, len(assignments))
	for _, a := range assignments {
		byUser[a.UserID] = a
	}

	outcomes := make(map[int64]*domain.UserOutcome, len(byUser))
	for _, e := range events {
		a, known := byUser[e.UserID]
		if !known {
			return nil, domain.NewShapeError("ab_events", fmt.Sprintf("user=%d week=%d", e.UserID, e.Week), "unknown user")
		}
		if e.Arm != a.Arm {
			return nil, domain.NewShapeError("ab_events", fmt.Sprintf("user=%d week=%d", e.UserID, e.Week), "arm does not match assignment")
		}

		o, ok := outcomes[e.UserID]
		if !ok {
			o = &domain.UserOutcome{
				UserID:     e.UserID,
				Arm:        a.Arm,
				UserType:   a.UserType,
				LeagueType: a.LeagueType,
				Retained:   true,
			}
			outcomes[e.UserID] = o
		}

		o.WeeksObserved++
		o.MadeClaimAny = o.MadeClaimAny || e.MadeClaim
		o.SetLineupAny = o.SetLineupAny || e.SetLineup
		o.TotalClaims += e.NumClaims
		o.Retained = o.Retained && e.Retained
	}

	out := make([]*domain.UserOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
