package core

import (
	"math"
	"math/rand"
	"slices"

	"github.com/sirupsen/logrus"
)

// A generator builds one round. It works on its own copy of the
// stats so that a refused generation leaves the event untouched.
type generator struct {
	settings Settings
	stats    *Stats
	rng      *rand.Rand
	roundIdx int
	// The latest round or nil before the first round
	previous *Round
	log      *logrus.Entry
}

// Creates a round of doubles with changing partners.
//
// With skill separation the courts are apportioned to the skill
// groups and each group is scheduled on its own. Courts that stay
// empty are filled with the idle players of all groups.
func (g *generator) doublesRound(present []*Player) []*Match {
	ensurePlayers(g.stats, present)
	courts := g.settings.Courts

	var matches []*Match
	if g.settings.SeparateBySkill && len(present) >= minPlayersForSeparation {
		groups, relocations := SeparateBySkill(present, g.settings.MinPlayersPerLevel)
		g.logRelocations(relocations)

		courtsPerGroup := courts / len(groups)
		extraCourts := courts % len(groups)
		nextCourt := 1
		for _, group := range groups {
			if len(group.Players) < 4 {
				continue
			}
			groupCourts := courtsPerGroup
			if extraCourts > 0 {
				groupCourts += 1
				extraCourts -= 1
			}

			groupMatches := g.doublesForGroup(group.Players, groupCourts, nextCourt, group.Level.Label)
			matches = append(matches, groupMatches...)
			nextCourt += len(groupMatches)
		}

		if remainingCourts := courts - len(matches); remainingCourts > 0 {
			idle := notPlaying(present, matches)
			if len(idle) >= 4 {
				overflow := g.balancedMatches(idle, remainingCourts, nextCourt, MixedOverflow.Label)
				g.log.WithField("courts", len(overflow)).Debug("filled idle courts with overflow players")
				matches = append(matches, overflow...)
			}
		}
	} else {
		matches = g.doublesForGroup(present, courts, 1, Mixed.Label)
	}

	g.stats.updatePlayersForRound(present, matches, g.roundIdx)
	return matches
}

func (g *generator) doublesForGroup(players []*Player, courts, firstCourt int, label string) []*Match {
	selected := selectForRound(players, g.stats.Players, courts*4, g.roundIdx, g.rng)
	g.log.WithFields(logrus.Fields{
		"group":   label,
		"playing": len(selected),
		"sitting": len(players) - len(selected),
	}).Debug("selected players for group")

	return g.balancedMatches(selected, courts, firstCourt, label)
}

// Distributes the players over at most the given number of courts
// in groups of four
func (g *generator) balancedMatches(players []*Player, courts, firstCourt int, label string) []*Match {
	numCourts := min(courts, len(players)/4)
	remaining := slices.Clone(players)
	matches := make([]*Match, 0, numCourts)

	for i := range numCourts {
		group := selectBestGroupOfFour(remaining, g.stats, g.rng)
		team1, team2 := findBestTeamSplit(group, g.stats)

		match := newDoublesMatch(firstCourt+i, team1, team2, g.settings.MatchFormat)
		match.SkillLevel = label
		matches = append(matches, match)

		remaining = slices.DeleteFunc(remaining, func(p *Player) bool { return slices.Contains(group, p) })
	}

	return matches
}

// Creates a round of teamed doubles.
//
// Teams only play teams of the same gender class. The classes are
// scheduled one after another until the courts run out and within
// a class the teams with the closest ratings that met least often
// are paired.
func (g *generator) teamedRound(teams []*Team) []*Match {
	ensureTeams(g.stats, teams)
	courts := g.settings.Courts

	matches := make([]*Match, 0, courts)
	court := 0
	for _, gender := range teamGenders {
		genderTeams := teamsOfGender(teams, gender)
		if len(genderTeams) < 2 {
			g.log.WithField("group", gender.Label()).Debug("not enough teams in gender group")
			continue
		}

		maxTeams := min(len(genderTeams), (courts-court)*2)
		remaining := selectForRound(genderTeams, g.stats.Teams, maxTeams, g.roundIdx, g.rng)

		for len(remaining) >= 2 && court < courts {
			i, j := g.closestTeams(remaining)
			court += 1
			match := newTeamMatch(court, remaining[i], remaining[j], TeamedDoubles, g.settings.MatchFormat)
			match.SkillLevel = gender.Label()
			matches = append(matches, match)

			remaining = slices.Delete(remaining, j, j+1)
			remaining = slices.Delete(remaining, i, i+1)
		}
	}

	g.stats.updateTeamsForRound(teams, matches, g.roundIdx)
	return matches
}

// Returns the indices i < j of the two teams with the smallest
// rating difference where every previous meeting counts as
// a difference of 2
func (g *generator) closestTeams(teams []*Team) (int, int) {
	bestI, bestJ := 0, 1
	smallest := math.Inf(1)
	for i := 0; i < len(teams)-1; i++ {
		for j := i + 1; j < len(teams); j++ {
			meetings := g.stats.Teams[teams[i].ID].OpponentCount(teams[j].ID)
			diff := math.Abs(teams[i].Rating-teams[j].Rating) + float64(meetings)*2
			if diff < smallest {
				smallest = diff
				bestI, bestJ = i, j
			}
		}
	}
	return bestI, bestJ
}

func teamsOfGender(teams []*Team, gender TeamGender) []*Team {
	result := make([]*Team, 0, len(teams))
	for _, t := range teams {
		if t.Gender == gender {
			result = append(result, t)
		}
	}
	return result
}

// Creates a round of singles. The players who are most due
// are paired by closest rating.
func (g *generator) singlesRound(present []*Player) []*Match {
	ensurePlayers(g.stats, present)
	courts := g.settings.Courts

	selected := selectForRound(present, g.stats.Players, courts*2, g.roundIdx, g.rng)
	pairs := pairByRating(selected, courts)

	matches := make([]*Match, 0, len(pairs))
	for i, pair := range pairs {
		matches = append(matches, newSinglesMatch(i+1, pair[0], pair[1], g.settings.MatchFormat))
	}

	g.stats.updatePlayersForRound(present, matches, g.roundIdx)
	return matches
}

func (g *generator) logRelocations(relocations []Relocation) {
	for _, r := range relocations {
		g.log.WithFields(logrus.Fields{
			"player": r.Player.Name,
			"from":   r.From.Label,
			"to":     r.To.Label,
		}).Debug("moved player to another skill group")
	}
}

// Returns the players who are not in any of the matches
func notPlaying(players []*Player, matches []*Match) []*Player {
	playing := make(map[string]bool)
	for _, m := range matches {
		for _, p := range m.Players() {
			playing[p.ID] = true
		}
	}
	idle := make([]*Player, 0, len(players))
	for _, p := range players {
		if !playing[p.ID] {
			idle = append(idle, p)
		}
	}
	return idle
}
