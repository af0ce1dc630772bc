package core

import (
	"errors"
	"fmt"
	"slices"

	"github.com/smashboard/scheduler/pickleball"
)

var (
	ErrInvalidSettings = errors.New("invalid settings")
)

type TournamentType string

const (
	RoundRobin  TournamentType = "round_robin"
	KingOfCourt TournamentType = "king_of_court"
)

func (t TournamentType) Valid() bool {
	return slices.Contains([]TournamentType{RoundRobin, KingOfCourt}, t)
}

const (
	// Skill groups are only formed when at least this
	// many players are present
	minPlayersForSeparation   = 8
	defaultMinPlayersPerLevel = 4
)

// Settings configure how rounds are generated
type Settings struct {
	Courts          int                    `json:"courts"`
	TournamentType  TournamentType         `json:"tournamentType"`
	GameFormat      GameFormat             `json:"gameFormat"`
	MatchFormat     pickleball.MatchFormat `json:"matchFormat"`
	SeparateBySkill bool                   `json:"separateBySkill"`

	// The minimum size of a skill group
	MinPlayersPerLevel int `json:"minPlayersPerLevel"`

	// Whether king of court doubles is played with fixed
	// partners that are drafted in the first round. Without
	// fixed partners the players climb the ladder individually.
	FixedPartners bool `json:"fixedPartners"`

	// The seed of the random source or 0 to seed from the clock
	Seed int64 `json:"-"`
}

func DefaultSettings() Settings {
	return Settings{
		Courts:             4,
		TournamentType:     RoundRobin,
		GameFormat:         Doubles,
		MatchFormat:        pickleball.SingleMatch,
		SeparateBySkill:    true,
		MinPlayersPerLevel: defaultMinPlayersPerLevel,
		FixedPartners:      true,
	}
}

func (s *Settings) Validate() error {
	if s.Courts < 1 {
		return fmt.Errorf("%w: court count must be at least 1, got %d", ErrInvalidSettings, s.Courts)
	}
	if !s.TournamentType.Valid() {
		return fmt.Errorf("%w: unknown tournament type %q", ErrInvalidSettings, s.TournamentType)
	}
	if !s.GameFormat.Valid() {
		return fmt.Errorf("%w: unknown game format %q", ErrInvalidSettings, s.GameFormat)
	}
	if !s.MatchFormat.Valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidSettings, pickleball.ErrUnknownFormat, s.MatchFormat)
	}
	if s.TournamentType == KingOfCourt && s.GameFormat == Singles {
		return fmt.Errorf("%w: king of court is not played in singles", ErrInvalidSettings)
	}
	if s.MinPlayersPerLevel < 1 {
		return fmt.Errorf("%w: minimum players per level must be at least 1, got %d", ErrInvalidSettings, s.MinPlayersPerLevel)
	}
	return nil
}
