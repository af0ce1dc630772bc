// Package config loads the configuration of an event from TOML.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/smashboard/scheduler/core"
	"github.com/smashboard/scheduler/pickleball"
)

// Internal representation
type conf struct {
	Event struct {
		Courts      int    `toml:"courts"`
		Type        string `toml:"type"`
		GameFormat  string `toml:"game_format"`
		MatchFormat string `toml:"match_format"`
		Rounds      int    `toml:"rounds"`
		Roster      string `toml:"roster"`
		Seed        int64  `toml:"seed"`
	} `toml:"event"`
	Skill struct {
		Separate           bool `toml:"separate"`
		MinPlayersPerLevel int  `toml:"min_players_per_level"`
	} `toml:"skill"`
	KingOfCourt struct {
		FixedPartners bool `toml:"fixed_partners"`
	} `toml:"king_of_court"`
	Log struct {
		Debug bool   `toml:"debug"`
		Level string `toml:"level"`
	} `toml:"log"`
}

// Conf is the configuration of an event
type Conf struct {
	Settings core.Settings

	// The number of rounds the CLI generates
	Rounds int
	// Path to the roster file
	Roster string

	LogLevel logrus.Level
}

// Configuration used for everything the file does not set
var defaultConfig = Conf{
	Settings: core.DefaultSettings(),
	Rounds:   6,
	Roster:   "roster.csv",
	LogLevel: logrus.InfoLevel,
}

func Default() *Conf {
	c := defaultConfig
	return &c
}

// Parses a configuration from r. Keys that are not present keep
// their default value.
func Load(r io.Reader) (*Conf, error) {
	var data conf
	meta, err := toml.NewDecoder(r).Decode(&data)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown configuration key %q", undecoded[0].String())
	}

	c := defaultConfig
	s := &c.Settings

	if meta.IsDefined("event", "courts") {
		s.Courts = data.Event.Courts
	}
	if meta.IsDefined("event", "type") {
		s.TournamentType = core.TournamentType(data.Event.Type)
	}
	if meta.IsDefined("event", "game_format") {
		s.GameFormat = core.GameFormat(data.Event.GameFormat)
	}
	if meta.IsDefined("event", "match_format") {
		s.MatchFormat = pickleball.MatchFormat(data.Event.MatchFormat)
	}
	if meta.IsDefined("event", "seed") {
		s.Seed = data.Event.Seed
	}
	if meta.IsDefined("event", "rounds") {
		c.Rounds = data.Event.Rounds
	}
	if meta.IsDefined("event", "roster") {
		c.Roster = data.Event.Roster
	}

	if meta.IsDefined("skill", "separate") {
		s.SeparateBySkill = data.Skill.Separate
	}
	if meta.IsDefined("skill", "min_players_per_level") {
		s.MinPlayersPerLevel = data.Skill.MinPlayersPerLevel
	}
	if meta.IsDefined("king_of_court", "fixed_partners") {
		s.FixedPartners = data.KingOfCourt.FixedPartners
	}

	if data.Log.Level != "" {
		c.LogLevel, err = logrus.ParseLevel(data.Log.Level)
		if err != nil {
			return nil, err
		}
	}
	if data.Log.Debug {
		c.LogLevel = logrus.DebugLevel
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	if c.Rounds < 1 {
		return nil, fmt.Errorf("%w: at least 1 round, got %d", core.ErrInvalidSettings, c.Rounds)
	}

	return &c, nil
}

// Opens a configuration file and loads it
func Open(name string) (*Conf, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	c, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}
