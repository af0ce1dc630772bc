package core

import (
	"math"
	"math/rand"
	"slices"
	"testing"
)

func TestSelectForRoundSmallPool(t *testing.T) {
	players := EvenPlayerSlice(6)
	selected := selectForRound(players, NewStats().Players, 8, 3, rand.New(rand.NewSource(1)))
	if len(selected) != 6 {
		t.Fatal("a pool within capacity was not selected entirely")
	}
}

func TestSelectForRoundPrefersSitOuts(t *testing.T) {
	players := EvenPlayerSlice(10)
	stats := NewStats()
	ensurePlayers(stats, players)
	for i, p := range players {
		if i < 3 {
			stats.Player(p.ID).recordSatOut()
		} else {
			stats.Player(p.ID).recordPlayed(0)
		}
	}

	for seed := range 20 {
		selected := selectForRound(players, stats.Players, 7, 1, rand.New(rand.NewSource(int64(seed))))
		if len(selected) != 7 {
			t.Fatal("the selection does not fill the slots")
		}
		for _, p := range players[:3] {
			if !slices.Contains(selected, p) {
				t.Fatal("a player who sat out was not selected")
			}
		}
	}
}

func TestFairnessPriority(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	neverPlayed := newPlayStats()
	if p := fairnessPriority(neverPlayed, 0, 0, rng); p < 1000 || p >= 1001 {
		t.Fatal("a new participant did not get the never played bonus")
	}

	stats := PlayStats{RoundsPlayed: 2, RoundsSatOut: 1, LastPlayedRound: 1}
	// 1*500 + (3-1)*200 + (2.5-2)*100
	want := 950.0
	if p := fairnessPriority(stats, 2.5, 3, rng); p < want || p >= want+1 {
		t.Fatal("the priority does not follow the weights")
	}
}

func TestSelectBestGroupOfFour(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	stats := NewStats()

	small := EvenPlayerSlice(4)
	if group := selectBestGroupOfFour(small, stats, rng); !slices.Equal(group, small) {
		t.Fatal("a pool of four was not returned as is")
	}

	players := PlayerSlice(2.5, 2.6, 2.7, 2.8, 5.0, 5.1, 5.2, 5.3)
	for range 20 {
		group := selectBestGroupOfFour(players, stats, rng)
		if len(group) != 4 {
			t.Fatal("the group does not have four players")
		}
		seen := make(map[string]bool)
		for _, p := range group {
			if seen[p.ID] {
				t.Fatal("a player is in the group twice")
			}
			seen[p.ID] = true
		}
	}
}

func TestCandidateScoreAvoidsRepeatedTeammates(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	players := EvenPlayerSlice(3)
	stats := NewStats()
	ensurePlayers(stats, players)
	for range 10 {
		stats.recordTeammates(players[0], players[1])
	}

	group := players[:1]
	for range 20 {
		if candidateScore(players[1], group, stats, rng) >= candidateScore(players[2], group, stats, rng) {
			t.Fatal("a frequent teammate scored as well as a new one")
		}
	}

	incompatible := PlayerSlice(5.5)[0]
	for range 20 {
		if candidateScore(incompatible, group, stats, rng) >= candidateScore(players[2], group, stats, rng) {
			t.Fatal("an incompatible player scored as well as a compatible one")
		}
	}
}

func TestEvaluateGroupQuality(t *testing.T) {
	stats := NewStats()

	sameLevel := PlayerSlice(3.5, 3.6, 3.7, 3.8)
	if p := evaluateGroupQuality(sameLevel, stats); math.Abs(p-0.6) > 1e-9 {
		t.Fatal("the penalty of a group of one level is not the rating spread")
	}

	adjacent := PlayerSlice(3.4, 3.5, 3.5, 3.5)
	if p := evaluateGroupQuality(adjacent, stats); math.Abs(p-5.2) > 1e-9 {
		t.Fatal("adjacent levels were not penalized with 5")
	}

	distant := PlayerSlice(2.5, 3.5, 3.5, 3.5)
	if p := evaluateGroupQuality(distant, stats); math.Abs(p-27) > 1e-9 {
		t.Fatal("distant levels were not penalized with 25")
	}

	ensurePlayers(stats, sameLevel)
	stats.recordTeammates(sameLevel[0], sameLevel[3])
	if p := evaluateGroupQuality(sameLevel, stats); math.Abs(p-10.6) > 1e-9 {
		t.Fatal("a repeated teammate pair was not penalized with 10")
	}
}

func TestFindBestTeamSplit(t *testing.T) {
	stats := NewStats()
	group := PlayerSlice(5.0, 5.0, 3.0, 3.0)
	ensurePlayers(stats, group)

	team1, team2 := findBestTeamSplit(group, stats)
	if !slices.Equal(team1, []*Player{group[0], group[2]}) || !slices.Equal(team2, []*Player{group[1], group[3]}) {
		t.Fatal("the strong players were not split up")
	}

	stats.recordTeammates(group[0], group[2])
	team1, _ = findBestTeamSplit(group, stats)
	if !slices.Equal(team1, []*Player{group[0], group[3]}) {
		t.Fatal("a repeated partnership was not avoided")
	}
}

func TestPairByRating(t *testing.T) {
	players := PlayerSlice(3.0, 4.5, 3.25, 4.0, 2.0)
	pairs := pairByRating(players, 2)

	if len(pairs) != 2 {
		t.Fatal("the number of pairs is not limited")
	}
	if pairs[0] != [2]*Player{players[0], players[2]} {
		t.Fatal("the closest pair was not formed first")
	}
	if pairs[1] != [2]*Player{players[1], players[3]} {
		t.Fatal("the second closest pair was not formed")
	}

	if len(pairByRating(players[:1], 3)) != 0 {
		t.Fatal("a single player was paired")
	}
}
