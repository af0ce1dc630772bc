package core

import (
	"cmp"
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"
)

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Normalizes a free-form gender tag. Unknown or
// empty tags fall back to male.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "female", "woman", "w":
		return Female
	}
	return Male
}

const (
	MinRating = 2.0
	MaxRating = 5.5
)

// A Participant is either a single player or a fixed
// team of two who is scheduled as one unit.
type Participant interface {
	// Returns an ID that is unique among the participants of
	// an event
	Id() string

	// The rating that is used to balance matches
	SkillRating() float64
}

// A Player is a person on the roster.
//
// The identity never changes. Name, rating and presence are
// managed by the roster and may change between rounds.
type Player struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Rating  float64 `json:"rating"`
	Gender  Gender  `json:"gender"`
	Present bool    `json:"present"`
}

func (p *Player) Id() string {
	return p.ID
}

func (p *Player) SkillRating() float64 {
	return p.Rating
}

func (p *Player) String() string {
	return p.Name
}

func NewPlayer(name string, rating float64, gender Gender) *Player {
	return &Player{
		ID:      uuid.NewString(),
		Name:    name,
		Rating:  rating,
		Gender:  gender,
		Present: true,
	}
}

// The gender classification of a team
type TeamGender string

const (
	MaleMale     TeamGender = "male_male"
	FemaleFemale TeamGender = "female_female"
	MixedGender  TeamGender = "mixed"
)

// The order in which gender classes are scheduled
var teamGenders = []TeamGender{MaleMale, FemaleFemale, MixedGender}

func (g TeamGender) Label() string {
	switch g {
	case MaleMale:
		return "Male/Male"
	case FemaleFemale:
		return "Female/Female"
	}
	return "Mixed"
}

// A Team is a fixed pair of players. Teams are either
// formed by the organizer for teamed doubles or drafted
// automatically for king of court.
type Team struct {
	ID            string     `json:"id"`
	Player1       *Player    `json:"player1"`
	Player2       *Player    `json:"player2"`
	Gender        TeamGender `json:"gender"`
	Rating        float64    `json:"avgRating"`
	AutoGenerated bool       `json:"isAutoGenerated"`
}

func (t *Team) Id() string {
	return t.ID
}

func (t *Team) SkillRating() float64 {
	return t.Rating
}

func (t *Team) Players() []*Player {
	return []*Player{t.Player1, t.Player2}
}

// A team is present when both of its players are
func (t *Team) Present() bool {
	return t.Player1.Present && t.Player2.Present
}

func (t *Team) String() string {
	return t.Player1.Name + "/" + t.Player2.Name
}

func NewTeam(player1, player2 *Player) *Team {
	gender := MixedGender
	if player1.Gender == Male && player2.Gender == Male {
		gender = MaleMale
	} else if player1.Gender == Female && player2.Gender == Female {
		gender = FemaleFemale
	}

	return &Team{
		ID:      uuid.NewString(),
		Player1: player1,
		Player2: player2,
		Gender:  gender,
		Rating:  (player1.Rating + player2.Rating) / 2,
	}
}

// Drafts teams of two from the given players so that the team
// ratings are as even as possible.
//
// The players are sorted by rating and picked in "snaking" order:
// the strongest player is paired with the weakest, the second
// strongest with the second weakest and so on. An odd player out
// (the lowest rated) is left without a team.
func GenerateBalancedTeams(players []*Player) []*Team {
	numTeams := len(players) / 2
	if numTeams < 1 {
		return nil
	}

	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b *Player) int { return cmp.Compare(b.Rating, a.Rating) })

	firstPicks := sorted[:numTeams]
	secondPicks := sorted[numTeams : 2*numTeams]

	teams := make([]*Team, 0, numTeams)
	for i, p := range directionalSeq(secondPicks, false) {
		team := NewTeam(firstPicks[i], p)
		team.AutoGenerated = true
		teams = append(teams, team)
	}

	return teams
}

// Returns an index-value-sequence that iterates the given slice normally
// when the direction bool is true, otherwise iterates in
// reverse order. The index is ascending in both cases.
func directionalSeq[V any](slice []V, direction bool) iter.Seq2[int, V] {
	l := len(slice)
	iterator := func(yield func(int, V) bool) {
		for i := range l {
			v := i
			if !direction {
				v = l - i - 1
			}
			if !yield(i, slice[v]) {
				return
			}
		}
	}

	return iterator
}

// Returns the players that are marked present
func PresentPlayers(players []*Player) []*Player {
	present := make([]*Player, 0, len(players))
	for _, p := range players {
		if p.Present {
			present = append(present, p)
		}
	}
	return present
}

// Returns the teams whose players are both present
func PresentTeams(teams []*Team) []*Team {
	present := make([]*Team, 0, len(teams))
	for _, t := range teams {
		if t.Present() {
			present = append(present, t)
		}
	}
	return present
}

func ids[P Participant](participants []P) []string {
	result := make([]string, 0, len(participants))
	for _, p := range participants {
		result = append(result, p.Id())
	}
	return result
}
