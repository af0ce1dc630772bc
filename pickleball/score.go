package pickleball

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownFormat = errors.New("unknown match format")
	ErrNoSelection   = errors.New("no winner selected")

	ErrEmpty          = errors.New("empty score")
	ErrIncomplete     = errors.New("score is incomplete")
	ErrUnequalGames   = errors.New("opponents have unequal number of games")
	ErrTooManyGames   = errors.New("too many games")
	ErrNegativePoints = errors.New("negative points")
	ErrTiedGame       = errors.New("a game has equal points")
	ErrUnneededGame   = errors.New("score contains an unneeded game 3")

	ErrDecidingGameRequired = fmt.Errorf("%w: match is tied 1-1, game 3 is required", ErrIncomplete)
)

// The format of a match. A single match is decided by one
// game, best of 3 by the first side to win two games.
type MatchFormat string

const (
	SingleMatch MatchFormat = "single_match"
	BestOf3     MatchFormat = "best_of_3"
)

func (f MatchFormat) Valid() bool {
	return f == SingleMatch || f == BestOf3
}

// One of the two sides of a match. For doubles a side is a
// team, for singles a single player.
type Side int

const (
	NoSide Side = iota
	Side1
	Side2
)

func (s Side) String() string {
	switch s {
	case Side1:
		return "team1"
	case Side2:
		return "team2"
	}
	return ""
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Other returns the opposing side
func (s Side) Other() Side {
	switch s {
	case Side1:
		return Side2
	case Side2:
		return Side1
	}
	return NoSide
}

// WinnerMismatchError is returned when the selected winner
// contradicts the entered scores.
type WinnerMismatchError struct {
	Selected Side
	Actual   Side
	// The score that decided the match, either the points of a
	// single match or the games won in best of 3
	Result string
}

func (e *WinnerMismatchError) Error() string {
	return fmt.Sprintf(
		"score validation failed: the score %s indicates %s won, not %s",
		e.Result, e.Actual, e.Selected,
	)
}

// The result of a match. Each slice holds the points of
// one side per game.
type Score struct {
	a, b   []int
	format MatchFormat
}

func (s *Score) Points1() []int {
	return s.a
}

func (s *Score) Points2() []int {
	return s.b
}

func (s *Score) Format() MatchFormat {
	return s.format
}

// Returns the number of games won by each side
func (s *Score) GamesWon() (int, int) {
	won1, won2 := 0, 0
	for i := range len(s.a) {
		if s.a[i] > s.b[i] {
			won1 += 1
		}
		if s.b[i] > s.a[i] {
			won2 += 1
		}
	}
	return won1, won2
}

func (s *Score) GetWinner() Side {
	won1, won2 := s.GamesWon()
	if won1 > won2 {
		return Side1
	}
	if won2 > won1 {
		return Side2
	}
	return NoSide
}

func (s *Score) Invert() *Score {
	return &Score{a: s.b, b: s.a, format: s.format}
}

// Returns the deciding result as seen from the given side,
// e.g. "11-9" for a single match or "2-1" for best of 3.
func (s *Score) result(side Side) string {
	var x, y int
	if s.format == SingleMatch {
		x, y = s.a[0], s.b[0]
	} else {
		x, y = s.GamesWon()
	}
	if side == Side2 {
		x, y = y, x
	}
	return fmt.Sprintf("%d-%d", x, y)
}

func (s *Score) String() string {
	var sb strings.Builder
	for i := range len(s.a) {
		if i > 0 {
			sb.WriteRune(' ')
		}
		fmt.Fprintf(&sb, "%d-%d", s.a[i], s.b[i])
	}
	return sb.String()
}

// Creates a Score from the game points of both sides.
//
// A single match needs exactly one game. Best of 3 needs
// games 1 and 2, a third game only when the first two were
// split. No game may be tied.
func NewScore(format MatchFormat, a, b []int) (*Score, error) {
	switch format {
	case SingleMatch:
		return newSingleMatchScore(a, b)
	case BestOf3:
		return newBestOf3Score(a, b)
	}
	return nil, ErrUnknownFormat
}

func newSingleMatchScore(a, b []int) (*Score, error) {
	switch {
	case len(a) == 0 || len(b) == 0:
		return nil, ErrEmpty
	case len(a) != len(b):
		return nil, ErrUnequalGames
	case len(a) > 1:
		return nil, ErrTooManyGames
	case a[0] < 0 || b[0] < 0:
		return nil, ErrNegativePoints
	case a[0] == b[0]:
		return nil, ErrTiedGame
	}
	return &Score{a: a, b: b, format: SingleMatch}, nil
}

func newBestOf3Score(a, b []int) (*Score, error) {
	switch {
	case len(a) == 0 && len(b) == 0:
		return nil, ErrEmpty
	case len(a) < 2 || len(b) < 2:
		return nil, fmt.Errorf("%w: game 1 and game 2 are required", ErrIncomplete)
	case len(a) != len(b):
		return nil, ErrUnequalGames
	case len(a) > 3:
		return nil, ErrTooManyGames
	}

	won1, won2 := 0, 0
	for i := range len(a) {
		switch {
		case i == 2 && (won1 == 2 || won2 == 2):
			return nil, ErrUnneededGame
		case a[i] < 0 || b[i] < 0:
			return nil, ErrNegativePoints
		case a[i] == b[i]:
			return nil, fmt.Errorf("%w: game %d", ErrTiedGame, i+1)
		}

		if a[i] > b[i] {
			won1 += 1
		} else {
			won2 += 1
		}
	}

	if won1 == won2 {
		return nil, ErrDecidingGameRequired
	}

	return &Score{a: a, b: b, format: BestOf3}, nil
}

// Validates the score and confirms that it agrees with the
// selected winner. The selection guards against recording
// the wrong side by accident.
func Confirm(format MatchFormat, a, b []int, selected Side) (*Score, error) {
	if selected != Side1 && selected != Side2 {
		return nil, ErrNoSelection
	}

	score, err := NewScore(format, a, b)
	if err != nil {
		return nil, err
	}

	actual := score.GetWinner()
	if actual != selected {
		return nil, &WinnerMismatchError{
			Selected: selected,
			Actual:   actual,
			Result:   score.result(actual),
		}
	}

	return score, nil
}
