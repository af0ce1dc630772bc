package core

import (
	"math/rand"
	"testing"
)

func TestLevelOf(t *testing.T) {
	cases := map[float64]*SkillLevel{
		1.5:  Beginner,
		2.0:  Beginner,
		2.95: Beginner,
		3.0:  AdvancedBeginner,
		3.5:  Intermediate,
		4.49: AdvancedIntermediate,
		5.0:  Expert,
		5.5:  ExpertPro,
		6.3:  ExpertPro,
	}
	for rating, level := range cases {
		if LevelOf(rating) != level {
			t.Fatalf("rating %.2f was not put into the %s level", rating, level.Label)
		}
	}
}

func TestCanPlayTogether(t *testing.T) {
	players := PlayerSlice(3.2, 3.6, 4.1, 5.2)
	if !CanPlayTogether(players[0], players[1]) {
		t.Fatal("players of adjacent levels can not play together")
	}
	if !CanPlayTogether(players[1], players[1]) {
		t.Fatal("players of the same level can not play together")
	}
	if CanPlayTogether(players[0], players[2]) {
		t.Fatal("players two levels apart can play together")
	}
	if CanPlayTogether(players[0], players[3]) {
		t.Fatal("players four levels apart can play together")
	}
}

func TestSeparateBySkillBumpUp(t *testing.T) {
	players := PlayerSlice(2.5, 2.6, 3.6, 3.7, 3.8, 3.9)
	groups, relocations := SeparateBySkill(players, 4)

	if len(groups) != 1 {
		t.Fatal("the small beginner band was not merged")
	}
	if groups[0].Level != Intermediate || len(groups[0].Players) != 6 {
		t.Fatal("the beginners were not bumped up into the intermediate group")
	}
	if len(relocations) != 2 || relocations[0].From != Beginner || relocations[0].To != Intermediate {
		t.Fatal("the relocations of the beginners were not recorded")
	}
	if groups[0].MinRating != 2.5 || groups[0].MaxRating != 3.9 {
		t.Fatal("the rating range of the group is wrong")
	}
}

func TestSeparateBySkillBumpDown(t *testing.T) {
	players := PlayerSlice(2.2, 2.4, 2.6, 2.8, 5.1, 5.2)
	groups, relocations := SeparateBySkill(players, 4)

	if len(groups) != 1 || groups[0].Level != Beginner || len(groups[0].Players) != 6 {
		t.Fatal("the isolated experts were not bumped down to the beginners")
	}
	if len(relocations) != 2 || relocations[0].To != Beginner {
		t.Fatal("the relocations of the experts were not recorded")
	}
}

func TestSeparateBySkillKeepsFullGroups(t *testing.T) {
	players := PlayerSlice(2.2, 2.4, 2.6, 2.8, 4.5, 4.6, 4.7, 4.8)
	groups, relocations := SeparateBySkill(players, 4)

	if len(groups) != 2 || len(relocations) != 0 {
		t.Fatal("full groups were merged")
	}
	if groups[0].Level != Beginner || groups[1].Level != Advanced {
		t.Fatal("the groups are not ordered from low to high")
	}
}

func TestSeparateBySkillMixedFallback(t *testing.T) {
	players := PlayerSlice(2.5, 4.0, 5.5)
	groups, _ := SeparateBySkill(players, 4)

	if len(groups) != 1 || groups[0].Level != Mixed {
		t.Fatal("too few players did not produce the mixed group")
	}
	if len(groups[0].Players) != 3 {
		t.Fatal("the mixed group does not contain all players")
	}
}

func TestSeparateBySkillMinimumSize(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for range 200 {
		players := RandomPlayerSlice(4+rng.Intn(30), rng)
		minPerLevel := 2 + rng.Intn(5)
		groups, _ := SeparateBySkill(players, minPerLevel)

		seen := make(map[string]int)
		for _, g := range groups {
			for _, p := range g.Players {
				seen[p.ID] += 1
			}
			if len(g.Players) >= minPerLevel {
				continue
			}
			if g.Level != Mixed || len(g.Players) != len(players) {
				t.Fatal("a group is smaller than the minimum")
			}
		}

		if len(seen) != len(players) {
			t.Fatal("not every player is in a group")
		}
		for _, count := range seen {
			if count != 1 {
				t.Fatal("a player is in more than one group")
			}
		}
	}
}
