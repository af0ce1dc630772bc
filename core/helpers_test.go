package core

import (
	"fmt"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smashboard/scheduler/pickleball"
)

// Creates players with the given ratings. The genders alternate
// starting with male.
func PlayerSlice(ratings ...float64) []*Player {
	players := make([]*Player, 0, len(ratings))
	for i, r := range ratings {
		gender := Male
		if i%2 == 1 {
			gender = Female
		}
		players = append(players, NewPlayer(fmt.Sprintf("Player%d", i+1), r, gender))
	}
	return players
}

// Creates num players with ratings spread over all skill levels
func RandomPlayerSlice(num int, rng *rand.Rand) []*Player {
	ratings := make([]float64, 0, num)
	for range num {
		ratings = append(ratings, MinRating+float64(rng.Intn(36))/10)
	}
	return PlayerSlice(ratings...)
}

func EvenPlayerSlice(num int) []*Player {
	ratings := make([]float64, 0, num)
	for range num {
		ratings = append(ratings, 3.5)
	}
	return PlayerSlice(ratings...)
}

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

// A clock that only moves when advanced
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func newTestTournament(t *testing.T, settings Settings, players []*Player, opts ...Option) *Tournament {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewSource(7))), WithLogger(quietLogger())}, opts...)
	tournament, err := NewTournament(settings, opts...)
	if err != nil {
		t.Fatal("the settings were not accepted: ", err)
	}
	if err := tournament.SetRoster(players); err != nil {
		t.Fatal("the roster was not accepted: ", err)
	}
	return tournament
}

func roundRobinSettings(courts int, format GameFormat, separate bool) Settings {
	settings := DefaultSettings()
	settings.Courts = courts
	settings.GameFormat = format
	settings.SeparateBySkill = separate
	return settings
}

func kingOfCourtSettings(courts int, format GameFormat, fixedPartners bool) Settings {
	settings := DefaultSettings()
	settings.TournamentType = KingOfCourt
	settings.Courts = courts
	settings.GameFormat = format
	settings.SeparateBySkill = false
	settings.FixedPartners = fixedPartners
	return settings
}

// Records a win of the given side with a plain 11-5 score
func winMatch(t *testing.T, tournament *Tournament, m *Match, side pickleball.Side) {
	t.Helper()
	points1, points2 := []int{11}, []int{5}
	if side == pickleball.Side2 {
		points1, points2 = points2, points1
	}
	if m.MatchFormat == pickleball.BestOf3 {
		points1, points2 = append(points1, points1[0]), append(points2, points2[0])
	}
	if err := tournament.RecordResult(m.ID, points1, points2, side); err != nil {
		t.Fatal("the result could not be recorded: ", err)
	}
}

// Fails when a player appears in more than one match of the round
// or twice in one match
func assertDistinctPlayers(t *testing.T, round *Round, perMatch int) {
	t.Helper()
	seen := make(map[string]bool)
	for _, m := range round.Matches {
		players := m.Players()
		if len(players) != perMatch {
			t.Fatalf("a match has %d players instead of %d", len(players), perMatch)
		}
		for _, p := range players {
			if seen[p.ID] {
				t.Fatal("a player was scheduled twice in the same round")
			}
			seen[p.ID] = true
		}
	}
}
