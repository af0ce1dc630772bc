package core

import "github.com/smashboard/scheduler/pickleball"

// MatchMetrics are the results of a player or team over
// the completed matches of an event
type MatchMetrics struct {
	NumMatches int `json:"numMatches"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`

	NumGames   int `json:"numGames"`
	GameWins   int `json:"gameWins"`
	GameLosses int `json:"gameLosses"`

	PointWins   int `json:"pointWins"`
	PointLosses int `json:"pointLosses"`

	PointDifference int `json:"pointDifference"`
}

func (m *MatchMetrics) UpdateDifference() {
	m.PointDifference = m.PointWins - m.PointLosses
}

// Add the other match metrics to this one
func (m *MatchMetrics) Add(other *MatchMetrics) {
	m.NumMatches += other.NumMatches
	m.Wins += other.Wins
	m.Losses += other.Losses

	m.NumGames += other.NumGames
	m.GameWins += other.GameWins
	m.GameLosses += other.GameLosses

	m.PointWins += other.PointWins
	m.PointLosses += other.PointLosses

	m.UpdateDifference()
}

// Creates a MatchMetrics struct for each scheduling unit of the
// completed matches in the rounds. The metrics are keyed by the
// team ID for team matches and by the player ID otherwise.
func matchMetrics(rounds []*Round) map[string]*MatchMetrics {
	metrics := make(map[string]*MatchMetrics)
	for _, r := range rounds {
		for _, m := range r.Matches {
			extractMatchMetrics(m, metrics)
		}
	}

	for _, m := range metrics {
		m.UpdateDifference()
	}
	return metrics
}

func extractMatchMetrics(match *Match, metrics map[string]*MatchMetrics) {
	if !match.IsCompleted() || match.Score == nil {
		return
	}

	for _, side := range []pickleball.Side{pickleball.Side1, pickleball.Side2} {
		own, other := match.Score.Points1(), match.Score.Points2()
		if side == pickleball.Side2 {
			own, other = other, own
		}

		for _, id := range match.SideIDs(side) {
			m, ok := metrics[id]
			if !ok {
				m = &MatchMetrics{}
				metrics[id] = m
			}

			m.NumMatches += 1
			if match.Winner == side {
				m.Wins += 1
			} else {
				m.Losses += 1
			}

			for i := range own {
				m.NumGames += 1
				m.PointWins += own[i]
				m.PointLosses += other[i]
				if own[i] > other[i] {
					m.GameWins += 1
				} else {
					m.GameLosses += 1
				}
			}
		}
	}
}
