package simulation

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"fantasy-analytics/internal/domain"
)

// Generator errors
var (
	ErrInvalidWeekRange = errors.New("first week must not exceed last week")
	ErrNoUsers          = errors.New("user count must be positive")
)

// armRates holds a per-arm pair of rates or intensities.
type armRates struct {
	Control   float64
	Treatment float64
}

type cohortKey struct {
	UserType string
	Arm      string
}

// Params controls the synthetic experiment generator. The defaults
// reproduce the reference dataset used throughout the analysis tests.
type Params struct {
	Seed      int64
	Users     int
	Season    int
	FirstWeek int
	LastWeek  int

	// Cohort mix.
	NewUserShare      float64
	LeagueTypeWeights map[string]float64

	// Behavioral rates per (user_type, arm) cohort.
	ClaimRate     map[cohortKey]float64
	RetentionRate map[cohortKey]float64

	// Per-arm rates.
	ClaimsPerClaimer armRates // Poisson lambda for claim counts
	LineupSetRate    armRates

	// Additive treatment claim-rate bump by week, modeling the
	// launch-week novelty wearing off.
	NoveltyDecay map[int]float64
}

// DefaultParams returns the reference generator configuration.
func DefaultParams() Params {
	return Params{
		Seed:         42,
		Users:        10000,
		Season:       2023,
		FirstWeek:    3,
		LastWeek:     10,
		NewUserShare: 0.20,
		LeagueTypeWeights: map[string]float64{
			domain.LeagueTypeStandard: 0.55,
			domain.LeagueTypePPR:      0.35,
			domain.LeagueTypeDynasty:  0.10,
		},
		ClaimRate: map[cohortKey]float64{
			{domain.UserTypeReturning, domain.ArmControl}:   0.35,
			{domain.UserTypeReturning, domain.ArmTreatment}: 0.43,
			{domain.UserTypeNew, domain.ArmControl}:         0.25,
			{domain.UserTypeNew, domain.ArmTreatment}:       0.31,
		},
		RetentionRate: map[cohortKey]float64{
			{domain.UserTypeReturning, domain.ArmControl}:   0.80,
			{domain.UserTypeReturning, domain.ArmTreatment}: 0.83,
			{domain.UserTypeNew, domain.ArmControl}:         0.65,
			{domain.UserTypeNew, domain.ArmTreatment}:       0.69,
		},
		ClaimsPerClaimer: armRates{Control: 1.8, Treatment: 2.2},
		LineupSetRate:    armRates{Control: 0.82, Treatment: 0.86},
		NoveltyDecay: map[int]float64{
			3: 0.04,
			4: 0.02,
			5: 0.01,
		},
	}
}

// Generate produces a full synthetic experiment: one assignment per
// user and one event row per user-week. Output is deterministic for a
// given Params value.
func Generate(p Params) ([]*domain.Assignment, []*domain.EventRecord, error) {
	if p.Users <= 0 {
		return nil, nil, ErrNoUsers
	}
	if p.FirstWeek > p.LastWeek {
		return nil, nil, ErrInvalidWeekRange
	}

	rng := rand.New(rand.NewSource(p.Seed))
	leagueTypes, leagueCum := cumulativeWeights(p.LeagueTypeWeights)

	weeks := p.LastWeek - p.FirstWeek + 1
	assignments := make([]*domain.Assignment, 0, p.Users)
	events := make([]*domain.EventRecord, 0, p.Users*weeks)

	for i := 0; i < p.Users; i++ {
		a := &domain.Assignment{
			UserID:     int64(i + 1),
			Season:     p.Season,
			StartWeek:  p.FirstWeek,
			Arm:        domain.ArmControl,
			UserType:   domain.UserTypeReturning,
			LeagueType: pickWeighted(rng, leagueTypes, leagueCum),
		}
		if rng.Float64() < 0.5 {
			a.Arm = domain.ArmTreatment
		}
		if rng.Float64() < p.NewUserShare {
			a.UserType = domain.UserTypeNew
		}
		assignments = append(assignments, a)

		cohort := cohortKey{UserType: a.UserType, Arm: a.Arm}
		claimRate := p.ClaimRate[cohort]
		retained := rng.Float64() < p.RetentionRate[cohort]

		lambda := p.ClaimsPerClaimer.Control
		lineupRate := p.LineupSetRate.Control
		if a.Arm == domain.ArmTreatment {
			lambda = p.ClaimsPerClaimer.Treatment
			lineupRate = p.LineupSetRate.Treatment
		}

		for week := p.FirstWeek; week <= p.LastWeek; week++ {
			rate := claimRate
			if a.Arm == domain.ArmTreatment {
				rate = math.Min(rate+p.NoveltyDecay[week], 1.0)
			}

			ev := &domain.EventRecord{
				UserID:     a.UserID,
				Season:     p.Season,
				Week:       week,
				Arm:        a.Arm,
				UserType:   a.UserType,
				LeagueType: a.LeagueType,
				Retained:   retained,
			}
			if rng.Float64() < rate {
				ev.MadeClaim = true
				ev.NumClaims = poisson(rng, lambda)
			}
			ev.SetLineup = rng.Float64() < lineupRate
			events = append(events, ev)
		}
	}

	return assignments, events, nil
}

// cumulativeWeights flattens a weight map into parallel slices of
// outcomes and cumulative probabilities, in deterministic key order.
func cumulativeWeights(weights map[string]float64) ([]string, []float64) {
	keys := make([]string, 0, len(weights))
	total := 0.0
	for k, w := range weights {
		keys = append(keys, k)
		total += w
	}
	sort.Strings(keys)

	cum := make([]float64, len(keys))
	running := 0.0
	for i, k := range keys {
		running += weights[k] / total
		cum[i] = running
	}
	return keys, cum
}

func pickWeighted(rng *rand.Rand, outcomes []string, cum []float64) string {
	u := rng.Float64()
	for i, c := range cum {
		if u < c {
			return outcomes[i]
		}
	}
	return outcomes[len(outcomes)-1]
}

// poisson draws from Poisson(lambda) via Knuth's multiplication
// method. Adequate for the small lambdas used here.
func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	limit := math.Exp(-lambda)
	k := 0
	prod := rng.Float64()
	for prod > limit {
		k++
		prod *= rng.Float64()
	}
	return k
}
