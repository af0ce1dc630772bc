package core

import (
	"encoding/json"
	"io"
	"time"

	"github.com/smashboard/scheduler/pickleball"
)

// Results is the export of an event with one record per match
type Results struct {
	GeneratedAt      time.Time            `json:"generatedAt"`
	Players          []*Player            `json:"players"`
	Matches          []*MatchRecord       `json:"matches"`
	Meta             Settings             `json:"meta"`
	KingOfCourtStats map[string]*KOTStats `json:"kingOfCourtStats"`
}

type PlayerRecord struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// A MatchRecord is the flat representation of a match. Score
// fields of games that were not played are null.
type MatchRecord struct {
	Round       int                    `json:"round"`
	Court       int                    `json:"court"`
	CourtLevel  *string                `json:"courtLevel"`
	GameFormat  GameFormat             `json:"gameFormat"`
	MatchFormat pickleball.MatchFormat `json:"matchFormat"`
	Team1       []PlayerRecord         `json:"team1"`
	Team2       []PlayerRecord         `json:"team2"`

	// Points of a single match or games won in best of 3
	Score1 int `json:"score1"`
	Score2 int `json:"score2"`

	Game1Score1 *int `json:"game1Score1"`
	Game1Score2 *int `json:"game1Score2"`
	Game2Score1 *int `json:"game2Score1"`
	Game2Score2 *int `json:"game2Score2"`
	Game3Score1 *int `json:"game3Score1"`
	Game3Score2 *int `json:"game3Score2"`

	Status          MatchStatus `json:"status"`
	Winner          *string     `json:"winner"`
	PointsAwarded   *int        `json:"pointsAwarded"`
	StartTime       *time.Time  `json:"startTime"`
	EndTime         *time.Time  `json:"endTime"`
	DurationMinutes *int        `json:"durationMinutes"`
}

func marshalPlayers(players []*Player) []PlayerRecord {
	records := make([]PlayerRecord, 0, len(players))
	for _, p := range players {
		records = append(records, PlayerRecord{ID: p.ID, Name: p.Name, Rating: p.Rating})
	}
	return records
}

func marshalMatch(roundIdx int, m *Match) *MatchRecord {
	record := &MatchRecord{
		Round:       roundIdx + 1,
		Court:       m.Court,
		GameFormat:  m.GameFormat,
		MatchFormat: m.MatchFormat,
		Team1:       marshalPlayers(m.SidePlayers(pickleball.Side1)),
		Team2:       marshalPlayers(m.SidePlayers(pickleball.Side2)),
		Status:      m.Status,
	}
	if m.CourtLevel != "" {
		record.CourtLevel = &m.CourtLevel
	}

	if m.Score != nil {
		points1, points2 := m.Score.Points1(), m.Score.Points2()
		if m.MatchFormat == pickleball.BestOf3 {
			record.Score1, record.Score2 = m.Score.GamesWon()
		} else {
			record.Score1, record.Score2 = points1[0], points2[0]
		}

		games := [][2]**int{
			{&record.Game1Score1, &record.Game1Score2},
			{&record.Game2Score1, &record.Game2Score2},
			{&record.Game3Score1, &record.Game3Score2},
		}
		for i := range points1 {
			*games[i][0] = &points1[i]
			*games[i][1] = &points2[i]
		}
	}

	if m.IsCompleted() {
		winner := m.Winner.String()
		record.Winner = &winner
		if m.PointsAwarded > 0 {
			record.PointsAwarded = &m.PointsAwarded
		}
		if !m.StartTime.IsZero() {
			record.DurationMinutes = &m.DurationMinutes
		}
		record.EndTime = &m.EndTime
	}
	if !m.StartTime.IsZero() {
		record.StartTime = &m.StartTime
	}

	return record
}

// Returns the export of the event. The time of the export is
// passed in so that the export of an unchanged event is always
// the same.
func (t *Tournament) Results(generatedAt time.Time) *Results {
	matches := make([]*MatchRecord, 0, 8*len(t.rounds))
	for i, r := range t.rounds {
		for _, m := range r.Matches {
			matches = append(matches, marshalMatch(i, m))
		}
	}

	results := &Results{
		GeneratedAt: generatedAt,
		Players:     t.players,
		Matches:     matches,
		Meta:        t.settings,
	}
	if t.settings.TournamentType == KingOfCourt {
		results.KingOfCourtStats = t.stats.Clone().KingOfCourt
	}
	return results
}

// Writes the results as indented JSON
func (r *Results) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
