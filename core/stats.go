package core

import "maps"

// PlayStats is the play history that the fairness decisions
// are based on. It is kept for players and teams alike.
type PlayStats struct {
	RoundsPlayed int `json:"roundsPlayed"`
	RoundsSatOut int `json:"roundsSatOut"`
	// The index of the last round played or -1
	// if the participant never played
	LastPlayedRound  int `json:"lastPlayedRound"`
	TotalPlayMinutes int `json:"totalPlayMinutes"`
}

func newPlayStats() PlayStats {
	return PlayStats{LastPlayedRound: -1}
}

func (s *PlayStats) play() *PlayStats {
	return s
}

func (s *PlayStats) recordPlayed(roundIdx int) {
	s.RoundsPlayed += 1
	s.LastPlayedRound = roundIdx
}

func (s *PlayStats) recordSatOut() {
	s.RoundsSatOut += 1
}

// Returns true when the participant never played
func (s *PlayStats) NeverPlayed() bool {
	return s.LastPlayedRound < 0
}

type playRecord interface {
	play() *PlayStats
}

type PlayerStats struct {
	PlayStats
	// How often the player was partnered with each other player
	Teammates map[string]int `json:"teammateCounts"`
	// How often the player faced each other player
	Opponents map[string]int `json:"opponentCounts"`
}

func (s *PlayerStats) TeammateCount(id string) int {
	if s == nil {
		return 0
	}
	return s.Teammates[id]
}

type TeamStats struct {
	PlayStats
	Opponents map[string]int `json:"opponentCounts"`
}

func (s *TeamStats) OpponentCount(id string) int {
	if s == nil {
		return 0
	}
	return s.Opponents[id]
}

// KOTStats is the king of court record of a player or a team
type KOTStats struct {
	PlayStats
	TotalPoints   int `json:"totalPoints"`
	KingCourtWins int `json:"kingCourtWins"`
	// The court of the latest round or 0 before the first round
	CurrentCourt int   `json:"currentCourt"`
	CourtHistory []int `json:"courtHistory"`
}

// Stats holds all play histories of an event keyed by player or
// team ID. Entries are created on first sight and are never removed,
// so the history of a player who leaves the roster is preserved.
type Stats struct {
	Players     map[string]*PlayerStats `json:"players"`
	Teams       map[string]*TeamStats   `json:"teams"`
	KingOfCourt map[string]*KOTStats    `json:"kingOfCourt"`
}

func NewStats() *Stats {
	return &Stats{
		Players:     make(map[string]*PlayerStats),
		Teams:       make(map[string]*TeamStats),
		KingOfCourt: make(map[string]*KOTStats),
	}
}

// Returns the stats of the player, creating them when missing
func (s *Stats) Player(id string) *PlayerStats {
	stats, ok := s.Players[id]
	if !ok {
		stats = &PlayerStats{
			PlayStats: newPlayStats(),
			Teammates: make(map[string]int),
			Opponents: make(map[string]int),
		}
		s.Players[id] = stats
	}
	return stats
}

// Returns the stats of the team, creating them when missing
func (s *Stats) Team(id string) *TeamStats {
	stats, ok := s.Teams[id]
	if !ok {
		stats = &TeamStats{
			PlayStats: newPlayStats(),
			Opponents: make(map[string]int),
		}
		s.Teams[id] = stats
	}
	return stats
}

// Returns the king of court stats of the player or team,
// creating them when missing
func (s *Stats) KOT(id string) *KOTStats {
	stats, ok := s.KingOfCourt[id]
	if !ok {
		stats = &KOTStats{
			PlayStats:    newPlayStats(),
			CourtHistory: make([]int, 0, 8),
		}
		s.KingOfCourt[id] = stats
	}
	return stats
}

// Returns a deep copy that can be mutated without
// affecting the original
func (s *Stats) Clone() *Stats {
	clone := NewStats()
	for id, st := range s.Players {
		c := *st
		c.Teammates = maps.Clone(st.Teammates)
		c.Opponents = maps.Clone(st.Opponents)
		clone.Players[id] = &c
	}
	for id, st := range s.Teams {
		c := *st
		c.Opponents = maps.Clone(st.Opponents)
		clone.Teams[id] = &c
	}
	for id, st := range s.KingOfCourt {
		c := *st
		c.CourtHistory = append(make([]int, 0, len(st.CourtHistory)), st.CourtHistory...)
		clone.KingOfCourt[id] = &c
	}
	return clone
}

func ensurePlayers(stats *Stats, players []*Player) {
	for _, p := range players {
		stats.Player(p.ID)
	}
}

func ensureTeams(stats *Stats, teams []*Team) {
	for _, t := range teams {
		stats.Team(t.ID)
	}
}

func playRecordOf[S playRecord](stats map[string]S, id string) PlayStats {
	st, ok := stats[id]
	if !ok {
		return newPlayStats()
	}
	return *st.play()
}

// Returns the average number of rounds played over all
// recorded participants
func averageRoundsPlayed[S playRecord](stats map[string]S) float64 {
	if len(stats) == 0 {
		return 0
	}
	sum := 0
	for _, st := range stats {
		sum += st.play().RoundsPlayed
	}
	return float64(sum) / float64(len(stats))
}

func (s *Stats) recordTeammates(p1, p2 *Player) {
	s.Player(p1.ID).Teammates[p2.ID] += 1
	s.Player(p2.ID).Teammates[p1.ID] += 1
}

func (s *Stats) recordOpponents(side1, side2 []*Player) {
	for _, p1 := range side1 {
		for _, p2 := range side2 {
			s.Player(p1.ID).Opponents[p2.ID] += 1
			s.Player(p2.ID).Opponents[p1.ID] += 1
		}
	}
}

func (s *Stats) recordTeamOpponents(team1, team2 string) {
	s.Team(team1).Opponents[team2] += 1
	s.Team(team2).Opponents[team1] += 1
}

// Records the co-occurrences of the match participants
func (s *Stats) recordPairings(m *Match) {
	if m.GameFormat == Singles {
		s.recordOpponents([]*Player{m.Player1}, []*Player{m.Player2})
		return
	}

	if m.Team1ID != "" && m.Team2ID != "" {
		s.recordTeamOpponents(m.Team1ID, m.Team2ID)
		return
	}

	for _, team := range [][]*Player{m.Team1, m.Team2} {
		if len(team) == 2 {
			s.recordTeammates(team[0], team[1])
		}
	}
	s.recordOpponents(m.Team1, m.Team2)
}

// Updates the player stats after a round was generated.
// Every present player either played or sat out.
func (s *Stats) updatePlayersForRound(present []*Player, matches []*Match, roundIdx int) {
	playing := make(map[string]bool)
	for _, m := range matches {
		for _, p := range m.Players() {
			playing[p.ID] = true
		}
	}

	for _, p := range present {
		stats := s.Player(p.ID)
		if playing[p.ID] {
			stats.recordPlayed(roundIdx)
		} else {
			stats.recordSatOut()
		}
	}

	for _, m := range matches {
		s.recordPairings(m)
	}
}

// Updates the team stats after a round was generated
func (s *Stats) updateTeamsForRound(teams []*Team, matches []*Match, roundIdx int) {
	playing := make(map[string]bool)
	for _, m := range matches {
		playing[m.Team1ID] = true
		playing[m.Team2ID] = true
	}

	for _, t := range teams {
		stats := s.Team(t.ID)
		if playing[t.ID] {
			stats.recordPlayed(roundIdx)
		} else {
			stats.recordSatOut()
		}
	}

	for _, m := range matches {
		s.recordPairings(m)
	}
}

// Updates the stats of the participants of a match that was
// played on a court in continuous play. Sit-outs are not counted
// because no round boundary exists.
func (s *Stats) updateForCompletion(m *Match, roundIdx int, minutes int) {
	if m.GameFormat.Teamed() {
		for _, id := range []string{m.Team1ID, m.Team2ID} {
			stats := s.Team(id)
			stats.recordPlayed(roundIdx)
			stats.TotalPlayMinutes += minutes
		}
	} else {
		for _, p := range m.Players() {
			stats := s.Player(p.ID)
			stats.recordPlayed(roundIdx)
			stats.TotalPlayMinutes += minutes
		}
	}

	s.recordPairings(m)
}
