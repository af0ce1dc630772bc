package core

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smashboard/scheduler/pickleball"
)

var (
	ErrMatchNotFound = errors.New("match not found")
)

type GameFormat string

const (
	Doubles       GameFormat = "doubles"
	TeamedDoubles GameFormat = "teamed_doubles"
	Singles       GameFormat = "singles"
)

func (f GameFormat) Valid() bool {
	return slices.Contains([]GameFormat{Doubles, TeamedDoubles, Singles}, f)
}

// Returns true when the format is played with fixed teams
func (f GameFormat) Teamed() bool {
	return f == TeamedDoubles
}

type MatchStatus string

const (
	Pending   MatchStatus = "pending"
	Completed MatchStatus = "completed"
)

// The label of the top court of a king of court ladder
const KingCourtLevel = "KING"

// A Match is played on one court by two sides.
//
// Doubles matches have the players in Team1 and Team2.
// When the sides are fixed teams, their IDs are in Team1ID
// and Team2ID. Singles matches have Player1 and Player2
// instead.
type Match struct {
	ID string `json:"id"`

	Court int `json:"court"`
	// The ladder position label of king of court matches
	CourtLevel string `json:"courtLevel,omitempty"`
	// The label of the skill group the match was created for
	SkillLevel string `json:"skillLevel,omitempty"`

	GameFormat  GameFormat             `json:"gameFormat"`
	MatchFormat pickleball.MatchFormat `json:"matchFormat"`

	Team1      []*Player  `json:"team1,omitempty"`
	Team2      []*Player  `json:"team2,omitempty"`
	Team1ID    string     `json:"team1Id,omitempty"`
	Team2ID    string     `json:"team2Id,omitempty"`
	TeamGender TeamGender `json:"teamGender,omitempty"`

	Player1 *Player `json:"player1,omitempty"`
	Player2 *Player `json:"player2,omitempty"`

	// The score or nil when no result was recorded yet
	Score  *pickleball.Score `json:"-"`
	Status MatchStatus       `json:"status"`
	// Set iff the status is completed
	Winner pickleball.Side `json:"winner"`

	// The points a win is worth on a king of court ladder
	PointsForWin int `json:"pointsForWin,omitempty"`
	// The points that were credited to the winner
	PointsAwarded int `json:"pointsAwarded,omitempty"`

	// The time the match was generated or put on court
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
}

func newMatch(court int, gameFormat GameFormat, matchFormat pickleball.MatchFormat) *Match {
	return &Match{
		ID:          uuid.NewString(),
		Court:       court,
		GameFormat:  gameFormat,
		MatchFormat: matchFormat,
		Status:      Pending,
	}
}

func newDoublesMatch(court int, team1, team2 []*Player, matchFormat pickleball.MatchFormat) *Match {
	m := newMatch(court, Doubles, matchFormat)
	m.Team1 = team1
	m.Team2 = team2
	return m
}

func newTeamMatch(court int, team1, team2 *Team, gameFormat GameFormat, matchFormat pickleball.MatchFormat) *Match {
	m := newMatch(court, gameFormat, matchFormat)
	m.Team1 = team1.Players()
	m.Team2 = team2.Players()
	m.Team1ID = team1.ID
	m.Team2ID = team2.ID
	m.TeamGender = team1.Gender
	return m
}

func newSinglesMatch(court int, player1, player2 *Player, matchFormat pickleball.MatchFormat) *Match {
	m := newMatch(court, Singles, matchFormat)
	m.Player1 = player1
	m.Player2 = player2
	return m
}

// Returns the players of the given side
func (m *Match) SidePlayers(side pickleball.Side) []*Player {
	switch side {
	case pickleball.Side1:
		if m.Player1 != nil {
			return []*Player{m.Player1}
		}
		return m.Team1
	case pickleball.Side2:
		if m.Player2 != nil {
			return []*Player{m.Player2}
		}
		return m.Team2
	}
	return nil
}

// Returns all players of the match
func (m *Match) Players() []*Player {
	return slices.Concat(m.SidePlayers(pickleball.Side1), m.SidePlayers(pickleball.Side2))
}

// Returns the team IDs of the match or nil if the
// sides are not fixed teams
func (m *Match) TeamIDs() []string {
	if m.Team1ID == "" {
		return nil
	}
	return []string{m.Team1ID, m.Team2ID}
}

// Returns the IDs of the scheduling units of the match. These are
// the team IDs for team matches and the player IDs otherwise.
func (m *Match) ParticipantIDs() []string {
	if teamIDs := m.TeamIDs(); teamIDs != nil {
		return teamIDs
	}
	return ids(m.Players())
}

// Returns the side that the given player or team is on
func (m *Match) SideOf(id string) pickleball.Side {
	if id == "" {
		return pickleball.NoSide
	}
	if id == m.Team1ID {
		return pickleball.Side1
	}
	if id == m.Team2ID {
		return pickleball.Side2
	}
	for _, side := range []pickleball.Side{pickleball.Side1, pickleball.Side2} {
		if slices.ContainsFunc(m.SidePlayers(side), func(p *Player) bool { return p.ID == id }) {
			return side
		}
	}
	return pickleball.NoSide
}

func (m *Match) Involves(id string) bool {
	return m.SideOf(id) != pickleball.NoSide
}

func (m *Match) IsCompleted() bool {
	return m.Status == Completed
}

// Returns the IDs of the winning scheduling units or
// nil if the match is not completed
func (m *Match) WinnerIDs() []string {
	if !m.IsCompleted() {
		return nil
	}
	return m.SideIDs(m.Winner)
}

// Returns the IDs of the scheduling units on the given side
func (m *Match) SideIDs(side pickleball.Side) []string {
	if side == pickleball.NoSide {
		return nil
	}
	if teamIDs := m.TeamIDs(); teamIDs != nil {
		return []string{teamIDs[int(side)-1]}
	}
	return ids(m.SidePlayers(side))
}

// Records a validated result. The winner is derived from the score
// and the end time is used to derive the duration.
func (m *Match) complete(score *pickleball.Score, end time.Time) {
	m.Score = score
	m.Winner = score.GetWinner()
	m.Status = Completed
	m.EndTime = end
	if !m.StartTime.IsZero() {
		m.DurationMinutes = durationMinutes(m.StartTime, end)
	}
}

func durationMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

// Returns the average rating difference of the two sides
func (m *Match) RatingDiff() float64 {
	return math.Abs(averageRating(m.SidePlayers(pickleball.Side1)) - averageRating(m.SidePlayers(pickleball.Side2)))
}

func (m *Match) String() string {
	side := func(players []*Player) string {
		names := make([]string, 0, len(players))
		for _, p := range players {
			names = append(names, p.Name)
		}
		return strings.Join(names, "/")
	}
	desc := fmt.Sprintf(
		"Court %d: %s vs %s",
		m.Court,
		side(m.SidePlayers(pickleball.Side1)),
		side(m.SidePlayers(pickleball.Side2)),
	)
	if m.Score != nil {
		desc += " (" + m.Score.String() + ")"
	}
	return desc
}

// A Round is the list of matches that was produced by one
// generation or that were completed on the courts in
// continuous play.
type Round struct {
	Matches []*Match `json:"matches"`
}

// Returns the match that the given player or team played
// in the round or nil
func (r *Round) MatchOf(id string) *Match {
	for _, m := range r.Matches {
		if m.Involves(id) {
			return m
		}
	}
	return nil
}

// Returns the number of distinct courts used in the round
func (r *Round) CourtsUsed() int {
	courts := make(map[int]bool)
	for _, m := range r.Matches {
		courts[m.Court] = true
	}
	return len(courts)
}
