package core

import (
	"cmp"
	"math"
	"math/rand"
	"slices"

	"github.com/smashboard/scheduler/internal"
)

const (
	// How many randomized constructions are tried to find
	// the best group of four
	groupAttempts = 20
	// The number of best scored candidates that the next
	// group member is randomly picked from
	groupCandidatePool = 3
)

type prioritized[P any] struct {
	participant P
	priority    float64
}

// Returns the fairness priority of a participant for the round with
// the given index. Higher priorities play first.
//
// Sitting out weighs most, followed by the number of rounds since
// the participant last played and the deficit to the average number
// of rounds played.
func fairnessPriority(stats PlayStats, average float64, roundIdx int, rng *rand.Rand) float64 {
	priority := float64(stats.RoundsSatOut) * 500

	if stats.NeverPlayed() {
		priority += 1000
	} else {
		priority += float64(roundIdx-stats.LastPlayedRound) * 200
	}

	if roundIdx == 0 {
		average = 0
	}
	priority += (average - float64(stats.RoundsPlayed)) * 100

	return priority + internal.Jitter(rng, 1)
}

// Returns the participants that get to play in the round with the
// given index when there are more of them than maxSlots. The result
// is ordered by descending fairness priority.
func selectForRound[P Participant, S playRecord](
	pool []P,
	stats map[string]S,
	maxSlots int,
	roundIdx int,
	rng *rand.Rand,
) []P {
	if len(pool) <= maxSlots {
		return slices.Clone(pool)
	}

	average := averageRoundsPlayed(stats)
	ranked := make([]prioritized[P], 0, len(pool))
	for _, p := range pool {
		priority := fairnessPriority(playRecordOf(stats, p.Id()), average, roundIdx, rng)
		ranked = append(ranked, prioritized[P]{participant: p, priority: priority})
	}
	slices.SortStableFunc(ranked, func(a, b prioritized[P]) int { return cmp.Compare(b.priority, a.priority) })

	selected := make([]P, 0, maxSlots)
	for _, r := range ranked[:max(maxSlots, 0)] {
		selected = append(selected, r.participant)
	}
	return selected
}

// Returns the participants of the pool that are not in the selection
func notSelected[P Participant](pool, selection []P) []P {
	selected := make(map[string]bool, len(selection))
	for _, p := range selection {
		selected[p.Id()] = true
	}
	rest := make([]P, 0, len(pool)-len(selection))
	for _, p := range pool {
		if !selected[p.Id()] {
			rest = append(rest, p)
		}
	}
	return rest
}

// Selects four players from the available ones that make for a
// varied and balanced match.
//
// Several groups are constructed greedily from a random starting
// player. Each further member is picked at random from the best
// scored candidates where the score favors players who were not
// often teammates with the group and who are skill compatible
// with all of it. The group with the lowest quality penalty is
// returned.
func selectBestGroupOfFour(available []*Player, stats *Stats, rng *rand.Rand) []*Player {
	if len(available) <= 4 {
		return slices.Clone(available)
	}

	var bestGroup []*Player
	bestPenalty := math.Inf(1)

	for range min(groupAttempts, len(available)) {
		candidates := slices.Clone(available)
		seed := rng.Intn(len(candidates))
		group := []*Player{candidates[seed]}
		candidates = slices.Delete(candidates, seed, seed+1)

		for len(group) < 4 && len(candidates) > 0 {
			scored := make([]prioritized[*Player], 0, len(candidates))
			for _, c := range candidates {
				scored = append(scored, prioritized[*Player]{
					participant: c,
					priority:    candidateScore(c, group, stats, rng),
				})
			}
			slices.SortStableFunc(scored, func(a, b prioritized[*Player]) int { return cmp.Compare(b.priority, a.priority) })

			chosen := scored[rng.Intn(min(groupCandidatePool, len(scored)))].participant
			group = append(group, chosen)
			candidates = slices.DeleteFunc(candidates, func(p *Player) bool { return p == chosen })
		}

		if len(group) < 4 {
			continue
		}
		penalty := evaluateGroupQuality(group, stats)
		if penalty < bestPenalty {
			bestPenalty = penalty
			bestGroup = group
		}
	}

	if bestGroup == nil {
		return slices.Clone(available[:4])
	}
	return bestGroup
}

func candidateScore(candidate *Player, group []*Player, stats *Stats, rng *rand.Rand) float64 {
	score := 0.0
	compatible := true
	for _, member := range group {
		teammateCount := stats.Players[member.ID].TeammateCount(candidate.ID)
		score += float64(max(0, 5-teammateCount))
		compatible = compatible && CanPlayTogether(member, candidate)
	}
	if compatible {
		score += 2
	}
	return score + internal.Jitter(rng, 2)
}

// Returns a penalty for the given group. Lower is better.
// Rating spread, repeated teammates and mixed skill levels
// are penalized.
func evaluateGroupQuality(group []*Player, stats *Stats) float64 {
	minRating := slices.MinFunc(group, compareRating).Rating
	maxRating := slices.MaxFunc(group, compareRating).Rating
	penalty := (maxRating - minRating) * 2

	for i, p1 := range group {
		for _, p2 := range group[i+1:] {
			penalty += float64(stats.Players[p1.ID].TeammateCount(p2.ID)) * 10
		}
	}

	minLevel, maxLevel := len(SkillLevels), -1
	for _, p := range group {
		level := LevelOf(p.Rating).index
		minLevel = min(minLevel, level)
		maxLevel = max(maxLevel, level)
	}
	switch {
	case maxLevel-minLevel > 1:
		penalty += 25
	case maxLevel-minLevel == 1:
		penalty += 5
	}

	return penalty
}

func compareRating(a, b *Player) int {
	return cmp.Compare(a.Rating, b.Rating)
}

// Splits a group of four into the two teams of a match.
//
// Of the three possible splits the one with the most even team
// ratings and the fewest repeated partnerships is chosen. Teams
// whose partners share a skill level are slightly favored.
func findBestTeamSplit(group []*Player, stats *Stats) ([]*Player, []*Player) {
	p1, p2, p3, p4 := group[0], group[1], group[2], group[3]
	splits := [][2][]*Player{
		{{p1, p2}, {p3, p4}},
		{{p1, p3}, {p2, p4}},
		{{p1, p4}, {p2, p3}},
	}

	best := splits[0]
	bestScore := math.Inf(1)
	for _, split := range splits {
		score := splitScore(split[0], split[1], stats)
		if score < bestScore {
			bestScore = score
			best = split
		}
	}
	return best[0], best[1]
}

func splitScore(team1, team2 []*Player, stats *Stats) float64 {
	score := math.Abs(averageRating(team1)-averageRating(team2)) * 10

	history := 0
	for _, team := range [][]*Player{team1, team2} {
		history += stats.Players[team[0].ID].TeammateCount(team[1].ID)
		if LevelOf(team[0].Rating) == LevelOf(team[1].Rating) {
			score -= 3
		}
	}
	return score + float64(history)*15
}

func averageRating[P Participant](participants []P) float64 {
	if len(participants) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range participants {
		sum += p.SkillRating()
	}
	return sum / float64(len(participants))
}

// Pairs the players greedily by the smallest rating gap.
// At most maxPairs pairs are formed.
func pairByRating(players []*Player, maxPairs int) [][2]*Player {
	remaining := slices.Clone(players)
	pairs := make([][2]*Player, 0, maxPairs)

	for len(pairs) < maxPairs && len(remaining) >= 2 {
		bestI, bestJ := 0, 1
		smallestDiff := math.Inf(1)
		for i := 0; i < len(remaining)-1; i++ {
			for j := i + 1; j < len(remaining); j++ {
				diff := math.Abs(remaining[i].Rating - remaining[j].Rating)
				if diff < smallestDiff {
					smallestDiff = diff
					bestI, bestJ = i, j
				}
			}
		}
		pairs = append(pairs, [2]*Player{remaining[bestI], remaining[bestJ]})
		remaining = slices.Delete(remaining, bestJ, bestJ+1)
		remaining = slices.Delete(remaining, bestI, bestI+1)
	}

	return pairs
}
