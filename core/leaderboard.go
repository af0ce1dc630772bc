package core

import (
	"cmp"
	"slices"
)

// A Standing is one line of the leaderboard
type Standing struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	// True when the line is for a team
	Team bool `json:"isTeam"`

	RoundsPlayed     int `json:"roundsPlayed"`
	RoundsSatOut     int `json:"roundsSatOut"`
	TotalPlayMinutes int `json:"totalPlayMinutes"`

	TotalPoints   int `json:"totalPoints"`
	KingCourtWins int `json:"kingCourtWins"`
	CurrentCourt  int `json:"currentCourt"`

	Wins            int `json:"wins"`
	Losses          int `json:"losses"`
	PointDifference int `json:"pointDifference"`
}

func newStanding[P Participant](p P, stats PlayStats, metrics *MatchMetrics) Standing {
	if metrics == nil {
		metrics = &MatchMetrics{}
	}
	_, isTeam := any(p).(*Team)
	return Standing{
		ID:               p.Id(),
		Name:             nameOf(p),
		Rating:           p.SkillRating(),
		Team:             isTeam,
		RoundsPlayed:     stats.RoundsPlayed,
		RoundsSatOut:     stats.RoundsSatOut,
		TotalPlayMinutes: stats.TotalPlayMinutes,
		Wins:             metrics.Wins,
		Losses:           metrics.Losses,
		PointDifference:  metrics.PointDifference,
	}
}

func nameOf(p Participant) string {
	switch p := p.(type) {
	case *Player:
		return p.Name
	case *Team:
		return p.String()
	}
	return p.Id()
}

// Returns the leaderboard of the event.
//
// On a king of court ladder the standings are ordered by points,
// king court wins and point difference. In round robin the
// participants who sat out least and played most come first.
func (t *Tournament) Leaderboard() []Standing {
	metrics := matchMetrics(t.rounds)

	if t.settings.TournamentType == KingOfCourt {
		standings := kingOfCourtStandings(t.kingOfCourtParticipants(), t.stats, metrics)
		slices.SortStableFunc(standings, func(a, b Standing) int {
			if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
				return c
			}
			if c := cmp.Compare(b.KingCourtWins, a.KingCourtWins); c != 0 {
				return c
			}
			if c := cmp.Compare(b.PointDifference, a.PointDifference); c != 0 {
				return c
			}
			return cmp.Compare(a.Name, b.Name)
		})
		return standings
	}

	var standings []Standing
	if t.settings.GameFormat == TeamedDoubles {
		standings = roundRobinStandings(t.teams, t.stats.Teams, metrics)
	} else {
		standings = roundRobinStandings(PresentPlayers(t.players), t.stats.Players, metrics)
	}
	slices.SortStableFunc(standings, func(a, b Standing) int {
		if c := cmp.Compare(a.RoundsSatOut, b.RoundsSatOut); c != 0 {
			return c
		}
		if c := cmp.Compare(b.RoundsPlayed, a.RoundsPlayed); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return standings
}

func (t *Tournament) kingOfCourtParticipants() []Participant {
	participants := make([]Participant, 0, len(t.players))
	switch {
	case t.settings.GameFormat == TeamedDoubles:
		for _, team := range t.teams {
			participants = append(participants, team)
		}
	case t.playsAutoTeams():
		for _, team := range t.autoTeams {
			participants = append(participants, team)
		}
	default:
		for _, p := range t.players {
			participants = append(participants, p)
		}
	}
	return participants
}

func kingOfCourtStandings(participants []Participant, stats *Stats, metrics map[string]*MatchMetrics) []Standing {
	standings := make([]Standing, 0, len(participants))
	for _, p := range participants {
		st, ok := stats.KingOfCourt[p.Id()]
		if !ok {
			continue
		}
		standing := newStanding(p, st.PlayStats, metrics[p.Id()])
		standing.TotalPoints = st.TotalPoints
		standing.KingCourtWins = st.KingCourtWins
		standing.CurrentCourt = st.CurrentCourt
		standings = append(standings, standing)
	}
	return standings
}

func roundRobinStandings[P Participant, S playRecord](
	participants []P,
	stats map[string]S,
	metrics map[string]*MatchMetrics,
) []Standing {
	standings := make([]Standing, 0, len(participants))
	for _, p := range participants {
		standings = append(standings, newStanding(p, playRecordOf(stats, p.Id()), metrics[p.Id()]))
	}
	return standings
}
