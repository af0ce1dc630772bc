package core

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
)

var (
	ErrUnknownCourt       = errors.New("unknown court")
	ErrCourtBusy          = errors.New("court is not ready")
	ErrCourtIdle          = errors.New("court has no match in play")
	ErrNotEnoughAvailable = errors.New("not enough available participants")
	ErrContinuousPlay     = errors.New("continuous play is only supported in round robin")
)

type CourtStatus string

const (
	CourtReady    CourtStatus = "ready"
	CourtPlaying  CourtStatus = "playing"
	CourtCleaning CourtStatus = "cleaning"
)

// CourtState is the state of a court in continuous play.
//
// The match stays on the court while it is cleaned, so that
// its participants can not be assigned to another court until
// the court is ready again.
type CourtState struct {
	Number       int         `json:"courtNumber"`
	Status       CourtStatus `json:"status"`
	CurrentMatch *Match      `json:"currentMatch"`
}

// Returns true when the participants of the court's match
// are unavailable for other courts
func (c *CourtState) Occupied() bool {
	return c.CurrentMatch != nil && (c.Status == CourtPlaying || c.Status == CourtCleaning)
}

// CourtFlow holds the courts of continuous play
type CourtFlow struct {
	courts []*CourtState
}

func NewCourtFlow(numCourts int) *CourtFlow {
	flow := &CourtFlow{}
	flow.resize(numCourts)
	return flow
}

// Changes the number of courts. Removed courts have to be ready.
func (f *CourtFlow) resize(numCourts int) error {
	for _, c := range f.courts[min(numCourts, len(f.courts)):] {
		if c.Status != CourtReady {
			return fmt.Errorf("%w: court %d can not be removed while %s", ErrCourtBusy, c.Number, c.Status)
		}
	}
	if numCourts <= len(f.courts) {
		f.courts = f.courts[:numCourts]
		return nil
	}
	for n := len(f.courts) + 1; n <= numCourts; n++ {
		f.courts = append(f.courts, &CourtState{Number: n, Status: CourtReady})
	}
	return nil
}

func (f *CourtFlow) reset() {
	for _, c := range f.courts {
		c.Status = CourtReady
		c.CurrentMatch = nil
	}
}

func (f *CourtFlow) Court(number int) (*CourtState, error) {
	if number < 1 || number > len(f.courts) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCourt, number)
	}
	return f.courts[number-1], nil
}

// Returns copies of the court states
func (f *CourtFlow) States() []CourtState {
	states := make([]CourtState, 0, len(f.courts))
	for _, c := range f.courts {
		states = append(states, *c)
	}
	return states
}

// Returns the IDs of all players and teams whose match occupies
// a court
func (f *CourtFlow) onCourt() map[string]bool {
	ids := make(map[string]bool)
	for _, c := range f.courts {
		if !c.Occupied() {
			continue
		}
		for _, p := range c.CurrentMatch.Players() {
			ids[p.ID] = true
		}
		for _, id := range c.CurrentMatch.TeamIDs() {
			ids[id] = true
		}
	}
	return ids
}

// Returns the participants that are not on any court
func available[P Participant](f *CourtFlow, participants []P) []P {
	onCourt := f.onCourt()
	result := make([]P, 0, len(participants))
	for _, p := range participants {
		if !onCourt[p.Id()] {
			result = append(result, p)
		}
	}
	return result
}

func (f *CourtFlow) findMatch(id string) *Match {
	for _, c := range f.courts {
		if c.CurrentMatch != nil && c.CurrentMatch.ID == id {
			return c.CurrentMatch
		}
	}
	return nil
}

// Orders the participants by who is most due to play. Fewer
// rounds played come first, then more rounds sat out.
func sortByDue[P Participant, S playRecord](participants []P, stats map[string]S) []P {
	sorted := slices.Clone(participants)
	slices.SortStableFunc(sorted, func(a, b P) int {
		statsA := playRecordOf(stats, a.Id())
		statsB := playRecordOf(stats, b.Id())
		if c := cmp.Compare(statsA.RoundsPlayed, statsB.RoundsPlayed); c != 0 {
			return c
		}
		return cmp.Compare(statsB.RoundsSatOut, statsA.RoundsSatOut)
	})
	return sorted
}

// Picks four of the available players for the next doubles match
// on a court. With skill separation the group is drawn from the
// players that are compatible with the most due player if there
// are enough of them.
func pickDoubles(availablePlayers []*Player, separate bool, stats *Stats, rng *rand.Rand) ([]*Player, []*Player) {
	sorted := sortByDue(availablePlayers, stats.Players)
	pool := sorted
	if separate {
		compatible := make([]*Player, 0, len(sorted))
		for _, p := range sorted {
			if CanPlayTogether(sorted[0], p) {
				compatible = append(compatible, p)
			}
		}
		if len(compatible) >= 4 {
			pool = compatible
		}
	}
	group := selectBestGroupOfFour(pool, stats, rng)
	return findBestTeamSplit(group, stats)
}

// Picks the two most due available players for the next singles
// match. With skill separation the opponent is the most due
// compatible player if there is one.
func pickSingles(availablePlayers []*Player, separate bool, stats *Stats) (*Player, *Player) {
	sorted := sortByDue(availablePlayers, stats.Players)
	player1 := sorted[0]
	if separate {
		for _, p := range sorted[1:] {
			if CanPlayTogether(player1, p) {
				return player1, p
			}
		}
	}
	return player1, sorted[1]
}

// Picks two available teams of the same gender class for the
// next teamed match. The classes are tried in scheduling order.
// The most due team plays the opponent with the closest rating
// that it met least often, favoring opponents who played little.
func pickTeams(availableTeams []*Team, stats *Stats) (*Team, *Team, bool) {
	for _, gender := range teamGenders {
		genderTeams := teamsOfGender(availableTeams, gender)
		if len(genderTeams) < 2 {
			continue
		}
		sorted := sortByDue(genderTeams, stats.Teams)
		team1 := sorted[0]
		if len(sorted) == 2 {
			return team1, sorted[1], true
		}

		opponentScore := func(t *Team) float64 {
			score := math.Abs(team1.Rating-t.Rating) * 10
			score += float64(stats.Teams[team1.ID].OpponentCount(t.ID)) * 20
			score -= float64(5-playRecordOf(stats.Teams, t.ID).RoundsPlayed) * 2
			return score
		}
		team2 := slices.MinFunc(sorted[1:], func(a, b *Team) int {
			return cmp.Compare(opponentScore(a), opponentScore(b))
		})
		return team1, team2, true
	}
	return nil, nil, false
}

// A QueueEntry is a participant waiting for a court
type QueueEntry struct {
	Participant  Participant `json:"-"`
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	RoundsPlayed int         `json:"roundsPlayed"`
	RoundsSatOut int         `json:"roundsSatOut"`
	Priority     int         `json:"priority"`
}

// Orders the waiting participants by sit-outs first and
// by fewest rounds played second
func nextUpQueue[P Participant, S playRecord](waiting []P, stats map[string]S) []QueueEntry {
	queue := make([]QueueEntry, 0, len(waiting))
	for _, p := range waiting {
		st := playRecordOf(stats, p.Id())
		queue = append(queue, QueueEntry{
			Participant:  p,
			ID:           p.Id(),
			Name:         fmt.Sprint(p),
			RoundsPlayed: st.RoundsPlayed,
			RoundsSatOut: st.RoundsSatOut,
			Priority:     st.RoundsSatOut*100 + (10 - st.RoundsPlayed),
		})
	}
	slices.SortStableFunc(queue, func(a, b QueueEntry) int { return cmp.Compare(b.Priority, a.Priority) })
	return queue
}
