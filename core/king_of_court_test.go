package core

import (
	"slices"
	"testing"

	"github.com/smashboard/scheduler/pickleball"
)

func TestCourtPoints(t *testing.T) {
	for size := 1; size <= 8; size++ {
		if CourtPoints(size-1, size) != 2 {
			t.Fatal("the bottom court is not worth 2 points")
		}
		for position := 0; position < size-1; position++ {
			if CourtPoints(position, size) <= CourtPoints(position+1, size) {
				t.Fatal("the points do not decrease down the ladder")
			}
		}
	}

	if CourtLevel(0) != KingCourtLevel || CourtLevel(2) != "Level 3" {
		t.Fatal("the court levels are not labeled correctly")
	}
}

func matchOnCourt(round *Round, court int) *Match {
	for _, m := range round.Matches {
		if m.Court == court {
			return m
		}
	}
	return nil
}

func sameMembers(a, b []*Player) bool {
	return len(a) == len(b) && !slices.ContainsFunc(a, func(p *Player) bool { return !slices.Contains(b, p) })
}

func TestKingOfCourtPlayerLadder(t *testing.T) {
	tournament := newTestTournament(t, kingOfCourtSettings(3, Doubles, false), EvenPlayerSlice(12))

	first, err := tournament.GenerateNextRound()
	if err != nil {
		t.Fatal("the first round was not generated: ", err)
	}
	if len(first.Matches) != 3 {
		t.Fatal("not all courts were used")
	}
	assertDistinctPlayers(t, first, 4)

	for i, m := range first.Matches {
		if m.Court != i+1 || m.CourtLevel != CourtLevel(i) || m.PointsForWin != CourtPoints(i, 3) {
			t.Fatal("the ladder courts are not set up from the king court down")
		}
		winMatch(t, tournament, m, pickleball.Side1)
	}

	kingWinners := first.Matches[0].Team1
	stats := tournament.Stats()
	for _, p := range kingWinners {
		if stats.KingOfCourt[p.ID].TotalPoints != 6 || stats.KingOfCourt[p.ID].KingCourtWins != 1 {
			t.Fatal("the king court winners were not credited")
		}
	}
	for _, p := range first.Matches[2].Team2 {
		if stats.KingOfCourt[p.ID].TotalPoints != 0 {
			t.Fatal("losers were credited")
		}
	}

	second, err := tournament.GenerateNextRound()
	if err != nil {
		t.Fatal("the second round was not generated: ", err)
	}
	assertDistinctPlayers(t, second, 4)

	king := matchOnCourt(second, 1)
	promoted := slices.Concat(first.Matches[0].Team1, first.Matches[1].Team1)
	if !sameMembers(king.Players(), promoted) {
		t.Fatal("the king court does not have its winners and the winners from below")
	}

	level2 := matchOnCourt(second, 2)
	relegated := slices.Concat(first.Matches[0].Team2, first.Matches[1].Team2)
	if !sameMembers(level2.Players(), relegated) {
		t.Fatal("the king court losers did not move down")
	}

	level3 := matchOnCourt(second, 3)
	if !sameMembers(level3.Players(), first.Matches[2].Players()) {
		t.Fatal("the bottom court players did not stay")
	}

	stats = tournament.Stats()
	for _, p := range kingWinners {
		history := stats.KingOfCourt[p.ID].CourtHistory
		if !slices.Equal(history, []int{1, 1}) || stats.KingOfCourt[p.ID].CurrentCourt != 1 {
			t.Fatal("the court history was not recorded")
		}
	}
}

func TestKingOfCourtTeamLadder(t *testing.T) {
	tournament := newTestTournament(t, kingOfCourtSettings(3, Doubles, true), EvenPlayerSlice(12))

	first, err := tournament.GenerateNextRound()
	if err != nil {
		t.Fatal("the first round was not generated: ", err)
	}
	if len(tournament.Teams()) != 6 {
		t.Fatal("the fixed partnerships were not drafted")
	}
	for _, m := range first.Matches {
		if m.Team1ID == "" || m.Team2ID == "" {
			t.Fatal("the match is not played by the drafted teams")
		}
		winMatch(t, tournament, m, pickleball.Side1)
	}

	second, err := tournament.GenerateNextRound()
	if err != nil {
		t.Fatal("the second round was not generated: ", err)
	}

	king := matchOnCourt(second, 1)
	kingTeams := []string{king.Team1ID, king.Team2ID}
	if !slices.Contains(kingTeams, first.Matches[0].Team1ID) || !slices.Contains(kingTeams, first.Matches[1].Team1ID) {
		t.Fatal("the king court does not have its winner and one winner from below")
	}

	level2 := matchOnCourt(second, 2)
	level2Teams := []string{level2.Team1ID, level2.Team2ID}
	if !slices.Contains(level2Teams, first.Matches[0].Team2ID) || !slices.Contains(level2Teams, first.Matches[1].Team2ID) {
		t.Fatal("the losing teams of the top courts are not on level 2")
	}

	if len(tournament.Teams()) != 6 {
		t.Fatal("the partnerships changed between rounds")
	}

	stats := tournament.Stats()
	if stats.KingOfCourt[first.Matches[0].Team1ID].TotalPoints != 6 {
		t.Fatal("the king court winner does not have 6 points")
	}
	if len(stats.KingOfCourt) != 6 {
		t.Fatal("the ladder stats are not kept per team")
	}
}

func TestKingOfCourtSitOuts(t *testing.T) {
	players := EvenPlayerSlice(10)
	tournament := newTestTournament(t, kingOfCourtSettings(2, Doubles, false), players)

	for numRounds := 1; numRounds <= 5; numRounds++ {
		round, err := tournament.GenerateNextRound()
		if err != nil {
			t.Fatal("the round was not generated: ", err)
		}
		if len(round.Matches) != 2 {
			t.Fatal("not all courts were used")
		}
		for _, m := range round.Matches {
			winMatch(t, tournament, m, pickleball.Side2)
		}

		stats := tournament.Stats()
		for _, p := range players {
			st := stats.KingOfCourt[p.ID]
			if st.RoundsPlayed+st.RoundsSatOut != numRounds {
				t.Fatal("ladder rounds played and sat out do not add up")
			}
		}
	}

	for _, st := range tournament.Stats().KingOfCourt {
		if st.RoundsSatOut != 1 {
			t.Fatal("the sit-outs were not rotated")
		}
	}
}

func TestKingOfCourtUnfilledCourts(t *testing.T) {
	tournament := newTestTournament(t, kingOfCourtSettings(4, Doubles, false), EvenPlayerSlice(9))

	round, err := tournament.GenerateNextRound()
	if err != nil {
		t.Fatal("the round was not generated: ", err)
	}
	if len(round.Matches) != 2 {
		t.Fatal("the ladder did not shrink to the players")
	}
	if round.Matches[0].PointsForWin != CourtPoints(0, 4) {
		t.Fatal("the points are not based on the configured courts")
	}
}

func TestKingOfCourtScoreCorrection(t *testing.T) {
	tournament := newTestTournament(t, kingOfCourtSettings(1, Doubles, false), EvenPlayerSlice(4))
	round, err := tournament.GenerateNextRound()
	if err != nil {
		t.Fatal("the round was not generated: ", err)
	}

	m := round.Matches[0]
	winMatch(t, tournament, m, pickleball.Side1)
	winMatch(t, tournament, m, pickleball.Side2)

	stats := tournament.Stats()
	for _, p := range m.Team1 {
		if stats.KingOfCourt[p.ID].TotalPoints != 0 || stats.KingOfCourt[p.ID].KingCourtWins != 0 {
			t.Fatal("the points of the corrected winner were not revoked")
		}
	}
	for _, p := range m.Team2 {
		if stats.KingOfCourt[p.ID].TotalPoints != 2 || stats.KingOfCourt[p.ID].KingCourtWins != 1 {
			t.Fatal("the points were not moved to the new winner")
		}
	}
	if m.Winner != pickleball.Side2 || m.PointsAwarded != 2 {
		t.Fatal("the match does not show the corrected result")
	}
}

func TestKingOfCourtTeamedGenderLadders(t *testing.T) {
	players := PlayerSlice(3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0)
	men, women := make([]*Player, 0), make([]*Player, 0)
	for _, p := range players {
		if p.Gender == Male {
			men = append(men, p)
		} else {
			women = append(women, p)
		}
	}
	teams := []*Team{
		NewTeam(men[0], men[1]),
		NewTeam(men[2], men[3]),
		NewTeam(women[0], women[1]),
		NewTeam(women[2], women[3]),
	}

	settings := kingOfCourtSettings(4, TeamedDoubles, false)
	settings.SeparateBySkill = true
	tournament := newTestTournament(t, settings, players)
	if err := tournament.SetTeams(teams); err != nil {
		t.Fatal("the teams were not accepted: ", err)
	}

	round, err := tournament.GenerateNextRound()
	if err != nil {
		t.Fatal("the round was not generated: ", err)
	}
	if len(round.Matches) != 2 {
		t.Fatal("each gender class did not get a court")
	}
	for _, m := range round.Matches {
		if m.CourtLevel != KingCourtLevel || m.PointsForWin != 2 {
			t.Fatal("each gender ladder does not have its own king court")
		}
	}
	if round.Matches[0].SkillLevel != MaleMale.Label() || round.Matches[1].SkillLevel != FemaleFemale.Label() {
		t.Fatal("the gender ladders are not in scheduling order")
	}
}
