package core

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/smashboard/scheduler/internal"
	"github.com/smashboard/scheduler/pickleball"
)

const (
	// How many winners of the court below the king court move up
	// when players climb the ladder individually
	playerPromotions = 2
	// How many winning teams of the court below the king court
	// move up on a team ladder
	teamPromotions = 1
)

// A ladderCourt is a court in a king of court hierarchy
type ladderCourt struct {
	// The court number
	number int
	// The position in the hierarchy, 0 is the king court
	position int
}

func (c ladderCourt) Id() int {
	return c.number
}

// Returns the label of the hierarchy position
func CourtLevel(position int) string {
	if position == 0 {
		return KingCourtLevel
	}
	return fmt.Sprintf("Level %d", position+1)
}

// Returns the points a win is worth on the given position
// of a hierarchy with the given size
func CourtPoints(position, hierarchySize int) int {
	return (hierarchySize - position) * 2
}

// A hierarchy is the court ladder of one group of participants
type hierarchy struct {
	*internal.LadderGraph[ladderCourt]
	label string
	// The number of courts that the point values are based on.
	// This can be larger than the number of courts in the ladder
	// when there are not enough participants to fill all courts.
	size int
}

func newHierarchy(label string, firstCourt, courts, size int) *hierarchy {
	ladderCourts := make([]ladderCourt, 0, courts)
	for i := range courts {
		ladderCourts = append(ladderCourts, ladderCourt{number: firstCourt + i, position: i})
	}
	return &hierarchy{
		LadderGraph: internal.NewLadderGraph(ladderCourts),
		label:       label,
		size:        size,
	}
}

func (h *hierarchy) bottom() int {
	bottom := 0
	for court := range h.Descending() {
		bottom = court.number
	}
	return bottom
}

// The result of a participant in the previous round
type ladderResult[P Participant] struct {
	participant P
	won         bool
	lastCourt   int
	points      int
}

// Seats the participants on the courts of the hierarchy.
//
// In the first round the seats are drawn at random. Afterwards
// the winners keep their court and the losers fill up the seats.
// The king court also takes the best winners of the court below.
// Seats that are still free are backfilled in the order of the
// previous courts so that the losers of a court move down.
func seatLadder[P Participant](
	g *generator,
	h *hierarchy,
	pool []P,
	seats int,
	promotions int,
) [][]P {
	if g.previous == nil || g.roundIdx == 0 {
		shuffled := slices.Clone(pool)
		internal.Shuffle(shuffled, g.rng)
		seated := make([][]P, 0, h.Courts())
		for range h.Descending() {
			if len(shuffled) < seats {
				break
			}
			seated = append(seated, shuffled[:seats])
			shuffled = shuffled[seats:]
		}
		return seated
	}

	results := make([]ladderResult[P], 0, len(pool))
	bottom := h.bottom()
	for _, p := range pool {
		result := ladderResult[P]{participant: p, lastCourt: bottom}
		if m := g.previous.MatchOf(p.Id()); m != nil && m.IsCompleted() {
			result.lastCourt = m.Court
			result.won = m.Winner == m.SideOf(p.Id())
		}
		result.points = g.stats.KOT(p.Id()).TotalPoints
		results = append(results, result)
	}
	slices.SortStableFunc(results, func(a, b ladderResult[P]) int {
		if c := cmp.Compare(a.lastCourt, b.lastCourt); c != 0 {
			return c
		}
		if a.won != b.won {
			if a.won {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.points, a.points)
	})

	placed := make(map[string]bool, len(pool))
	seated := make([][]P, 0, h.Courts())
	for court, position := range h.Descending() {
		onCourt := make([]P, 0, seats)
		seat := func(r ladderResult[P]) bool {
			if len(onCourt) == seats || placed[r.participant.Id()] {
				return false
			}
			onCourt = append(onCourt, r.participant)
			placed[r.participant.Id()] = true
			return true
		}

		for _, r := range results {
			if r.lastCourt == court.number && r.won {
				seat(r)
			}
		}

		if position == 0 {
			if below, ok := h.Below(court); ok {
				promoted := 0
				for _, r := range results {
					if promoted < promotions && r.lastCourt == below.number && r.won && seat(r) {
						promoted += 1
					}
				}
			}
		}

		for _, r := range results {
			if r.lastCourt == court.number && !r.won {
				seat(r)
			}
		}

		for _, r := range results {
			seat(r)
		}

		if len(onCourt) < seats {
			break
		}
		seated = append(seated, onCourt)
	}

	return seated
}

// A ladderGroup is a set of participants that climb their own
// hierarchy
type ladderGroup[P Participant] struct {
	label   string
	members []P
	// The courts that may be used by the group
	courts int
	// The number of courts that the point values are based on
	// or 0 to base them on the courts the group actually uses
	size int
}

// Plays one round on the ladders of the given groups. The groups
// get consecutive court numbers starting at court 1.
//
// Each group uses as many courts as it can fill. When a group has
// more members than seats, the members with the highest fairness
// priority play and the others sit out. The build function creates
// the match for the participants seated on a court.
func playLadders[P Participant](
	g *generator,
	present []P,
	groups []ladderGroup[P],
	seats int,
	promotions int,
	build func(court int, seated []P) *Match,
) []*Match {
	for _, p := range present {
		g.stats.KOT(p.Id())
	}

	matches := make([]*Match, 0, g.settings.Courts)
	nextCourt := 1
	for _, group := range groups {
		courts := min(group.courts, len(group.members)/seats, g.settings.Courts-nextCourt+1)
		if courts < 1 {
			continue
		}

		size := group.size
		if size == 0 {
			size = courts
		}

		selected := selectForRound(group.members, g.stats.KingOfCourt, courts*seats, g.roundIdx, g.rng)
		h := newHierarchy(group.label, nextCourt, courts, size)
		g.log.WithFields(logrus.Fields{
			"group":   group.label,
			"courts":  courts,
			"playing": len(selected),
			"sitting": len(group.members) - len(selected),
		}).Debug("seating ladder")

		seated := seatLadder(g, h, selected, seats, promotions)
		for court, position := range h.Descending() {
			if position >= len(seated) {
				break
			}
			match := build(court.number, seated[position])
			match.CourtLevel = CourtLevel(position)
			match.SkillLevel = group.label
			match.PointsForWin = CourtPoints(position, h.size)
			matches = append(matches, match)

			for _, p := range seated[position] {
				stats := g.stats.KOT(p.Id())
				stats.CurrentCourt = court.number
				stats.CourtHistory = append(stats.CourtHistory, court.number)
				stats.recordPlayed(g.roundIdx)
			}
		}
		nextCourt += len(seated)
	}

	playing := make(map[string]bool)
	for _, m := range matches {
		for _, id := range m.ParticipantIDs() {
			playing[id] = true
		}
	}
	for _, p := range present {
		if !playing[p.Id()] {
			g.stats.KOT(p.Id()).recordSatOut()
		}
	}

	return matches
}

// Creates a king of court round in which the players climb
// the ladder individually. The four players of a court are
// split into the most balanced teams.
func (g *generator) kingOfCourtPlayersRound(present []*Player) []*Match {
	var groups []ladderGroup[*Player]
	if g.settings.SeparateBySkill && len(present) >= minPlayersForSeparation {
		skillGroups, relocations := SeparateBySkill(present, g.settings.MinPlayersPerLevel)
		g.logRelocations(relocations)
		for _, group := range skillGroups {
			if len(group.Players) < 4 {
				continue
			}
			groups = append(groups, ladderGroup[*Player]{
				label:   group.Level.Label,
				members: group.Players,
				courts:  len(group.Players) / 4,
			})
		}
	} else {
		groups = []ladderGroup[*Player]{{
			label:   Mixed.Label,
			members: present,
			courts:  g.settings.Courts,
			size:    g.settings.Courts,
		}}
	}

	noHistory := NewStats()
	build := func(court int, seated []*Player) *Match {
		team1, team2 := findBestTeamSplit(seated, noHistory)
		return newDoublesMatch(court, team1, team2, g.settings.MatchFormat)
	}

	return playLadders(g, present, groups, 4, playerPromotions, build)
}

// Creates a king of court round for fixed teams. With skill
// separation the teams of each gender class climb their own
// ladder.
func (g *generator) kingOfCourtTeamsRound(teams []*Team) []*Match {
	var groups []ladderGroup[*Team]
	if g.settings.SeparateBySkill && len(teams) >= 4 {
		for _, gender := range teamGenders {
			genderTeams := teamsOfGender(teams, gender)
			if len(genderTeams) < 2 {
				continue
			}
			groups = append(groups, ladderGroup[*Team]{
				label:   gender.Label(),
				members: genderTeams,
				courts:  len(genderTeams) / 2,
			})
		}
	} else {
		groups = []ladderGroup[*Team]{{
			label:   "All Teams",
			members: teams,
			courts:  g.settings.Courts,
			size:    g.settings.Courts,
		}}
	}

	build := func(court int, seated []*Team) *Match {
		return newTeamMatch(court, seated[0], seated[1], g.settings.GameFormat, g.settings.MatchFormat)
	}

	return playLadders(g, teams, groups, 2, teamPromotions, build)
}

// Credits the points of a completed ladder match to the winners.
// A previously credited result is revoked first so that
// a corrected score moves the points.
func creditLadderPoints(stats *Stats, m *Match, previousWinner pickleball.Side) {
	if previousWinner != pickleball.NoSide {
		for _, id := range m.SideIDs(previousWinner) {
			st := stats.KOT(id)
			st.TotalPoints -= m.PointsAwarded
			if m.CourtLevel == KingCourtLevel {
				st.KingCourtWins -= 1
			}
		}
		m.PointsAwarded = 0
	}

	if !m.IsCompleted() || m.PointsForWin == 0 {
		return
	}

	for _, id := range m.SideIDs(m.Winner) {
		st := stats.KOT(id)
		st.TotalPoints += m.PointsForWin
		if m.CourtLevel == KingCourtLevel {
			st.KingCourtWins += 1
		}
	}
	m.PointsAwarded = m.PointsForWin
}
