package pipeline

import (
	"context"

	"fantasy-analytics/internal/domain"
	"fantasy-analytics/internal/storage"
)

// FixtureSeason is the season the fixture data covers.
const FixtureSeason = 2023

// LoadFixtures populates fact stores with a small deterministic data
// set for in-memory demonstration runs: four players across three
// weeks, plus team snap totals and the player dimension rows the game
// records reference. The set deliberately includes a zero-target
// passer and a missed week so nullable metrics show up in the output.
func LoadFixtures(
	ctx context.Context,
	playerStore storage.PlayerStore,
	gameStore storage.PlayerGameStore,
	snapStore storage.TeamSnapStore,
) error {
	for _, p := range fixturePlayers() {
		if err := playerStore.Insert(ctx, p); err != nil {
			return err
		}
	}
	if err := gameStore.InsertBulk(ctx, fixtureGames()); err != nil {
		return err
	}
	return snapStore.InsertBulk(ctx, fixtureSnaps())
}

func fixturePlayers() []*domain.Player {
	return []*domain.Player{
		{PlayerID: "00-0034857", PlayerName: "Josh Allen", Position: domain.PositionQB, Team: "BUF", RookieYear: 2018},
		{PlayerID: "00-0036223", PlayerName: "Christian McCaffrey", Position: domain.PositionRB, Team: "SF", RookieYear: 2017},
		{PlayerID: "00-0037746", PlayerName: "Bijan Robinson", Position: domain.PositionRB, Team: "ATL", RookieYear: 2023},
		{PlayerID: "00-0036322", PlayerName: "Justin Jefferson", Position: domain.PositionWR, Team: "MIN", RookieYear: 2020},
	}
}

func fixtureGames() []*domain.PlayerGameRecord {
	return []*domain.PlayerGameRecord{
		// QB: no targets, so receiving ratios stay null
		{
			PlayerID: "00-0034857", PlayerName: "Josh Allen", Position: domain.PositionQB,
			Team: "BUF", Opponent: "NYJ", Season: FixtureSeason, Week: 1,
			Completions: 25, Attempts: 38, PassingYards: 297, PassingTDs: 1, Interceptions: 3,
			Carries: 10, RushingYards: 36, RushingTDs: 1,
			FantasyPoints: 19.9, FantasyPointsPPR: 19.9, OffenseSnaps: 68,
		},
		{
			PlayerID: "00-0034857", PlayerName: "Josh Allen", Position: domain.PositionQB,
			Team: "BUF", Opponent: "LV", Season: FixtureSeason, Week: 2,
			Completions: 31, Attempts: 37, PassingYards: 274, PassingTDs: 3, Interceptions: 0,
			Carries: 6, RushingYards: 44, RushingTDs: 0,
			FantasyPoints: 27.4, FantasyPointsPPR: 27.4, OffenseSnaps: 64,
		},
		{
			PlayerID: "00-0034857", PlayerName: "Josh Allen", Position: domain.PositionQB,
			Team: "BUF", Opponent: "WAS", Season: FixtureSeason, Week: 3,
			Completions: 20, Attempts: 32, PassingYards: 218, PassingTDs: 4, Interceptions: 0,
			Carries: 8, RushingYards: 22, RushingTDs: 0,
			FantasyPoints: 30.1, FantasyPointsPPR: 30.1, OffenseSnaps: 61,
		},

		// RB with receiving work
		{
			PlayerID: "00-0036223", PlayerName: "Christian McCaffrey", Position: domain.PositionRB,
			Team: "SF", Opponent: "PIT", Season: FixtureSeason, Week: 1,
			Carries: 22, RushingYards: 152, RushingTDs: 1,
			Targets: 4, Receptions: 3, ReceivingYards: 17,
			FantasyPoints: 22.9, FantasyPointsPPR: 25.9, OffenseSnaps: 49,
		},
		{
			PlayerID: "00-0036223", PlayerName: "Christian McCaffrey", Position: domain.PositionRB,
			Team: "SF", Opponent: "LA", Season: FixtureSeason, Week: 2,
			Carries: 20, RushingYards: 116, RushingTDs: 1,
			Targets: 5, Receptions: 5, ReceivingYards: 39,
			FantasyPoints: 21.5, FantasyPointsPPR: 26.5, OffenseSnaps: 62,
		},
		{
			PlayerID: "00-0036223", PlayerName: "Christian McCaffrey", Position: domain.PositionRB,
			Team: "SF", Opponent: "NYG", Season: FixtureSeason, Week: 3,
			Carries: 18, RushingYards: 85, RushingTDs: 4,
			Targets: 7, Receptions: 7, ReceivingYards: 34,
			FantasyPoints: 35.9, FantasyPointsPPR: 42.9, OffenseSnaps: 58,
		},

		// Second RB, same position for rank ties
		{
			PlayerID: "00-0037746", PlayerName: "Bijan Robinson", Position: domain.PositionRB,
			Team: "ATL", Opponent: "CAR", Season: FixtureSeason, Week: 1,
			Carries: 10, RushingYards: 56, RushingTDs: 0,
			Targets: 6, Receptions: 6, ReceivingYards: 27,
			FantasyPoints: 8.3, FantasyPointsPPR: 14.3, OffenseSnaps: 43,
		},
		{
			PlayerID: "00-0037746", PlayerName: "Bijan Robinson", Position: domain.PositionRB,
			Team: "ATL", Opponent: "GB", Season: FixtureSeason, Week: 2,
			Carries: 19, RushingYards: 124, RushingTDs: 1,
			Targets: 4, Receptions: 4, ReceivingYards: 48,
			FantasyPoints: 23.2, FantasyPointsPPR: 27.2, OffenseSnaps: 51,
		},

		// WR who misses week 2, so week 3 week-over-week spans the gap
		{
			PlayerID: "00-0036322", PlayerName: "Justin Jefferson", Position: domain.PositionWR,
			Team: "MIN", Opponent: "TB", Season: FixtureSeason, Week: 1,
			Targets: 9, Receptions: 9, ReceivingYards: 150,
			FantasyPoints: 15.0, FantasyPointsPPR: 24.0, OffenseSnaps: 60,
		},
		{
			PlayerID: "00-0036322", PlayerName: "Justin Jefferson", Position: domain.PositionWR,
			Team: "MIN", Opponent: "LAC", Season: FixtureSeason, Week: 3,
			Targets: 12, Receptions: 7, ReceivingYards: 149, ReceivingTDs: 2,
			FantasyPoints: 26.9, FantasyPointsPPR: 33.9, OffenseSnaps: 66,
		},
	}
}

func fixtureSnaps() []*domain.TeamSnapRecord {
	return []*domain.TeamSnapRecord{
		{Team: "BUF", Season: FixtureSeason, Week: 1, OffenseSnaps: 68},
		{Team: "BUF", Season: FixtureSeason, Week: 2, OffenseSnaps: 64},
		{Team: "BUF", Season: FixtureSeason, Week: 3, OffenseSnaps: 61},
		{Team: "SF", Season: FixtureSeason, Week: 1, OffenseSnaps: 65},
		{Team: "SF", Season: FixtureSeason, Week: 2, OffenseSnaps: 70},
		{Team: "SF", Season: FixtureSeason, Week: 3, OffenseSnaps: 63},
		{Team: "ATL", Season: FixtureSeason, Week: 1, OffenseSnaps: 58},
		{Team: "ATL", Season: FixtureSeason, Week: 2, OffenseSnaps: 62},
		{Team: "MIN", Season: FixtureSeason, Week: 1, OffenseSnaps: 60},
		{Team: "MIN", Season: FixtureSeason, Week: 3, OffenseSnaps: 66},
	}
}
