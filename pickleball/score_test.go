package pickleball

import (
	"errors"
	"reflect"
	"testing"
)

func TestScoreInterface(t *testing.T) {
	a := []int{11, 6, 11}
	b := []int{8, 11, 9}
	score, err := NewScore(BestOf3, a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, score.Points1()) || !reflect.DeepEqual(b, score.Points2()) {
		t.Fatal("score did not reproduce the given points")
	}

	inverted := score.Invert()
	if !reflect.DeepEqual(a, inverted.Points2()) || !reflect.DeepEqual(b, inverted.Points1()) {
		t.Fatal("score did not invert the given points")
	}
	if inverted.GetWinner() != score.GetWinner().Other() || inverted.Format() != BestOf3 {
		t.Fatal("the inverted score does not have the other winner")
	}

	won1, won2 := score.GamesWon()
	if won1 != 2 || won2 != 1 {
		t.Fatal("games won were not counted per game")
	}
	if score.String() != "11-8 6-11 11-9" {
		t.Fatalf("unexpected score string %q", score.String())
	}
}

func TestSingleMatchErrors(t *testing.T) {
	_, err := NewScore(SingleMatch, []int{}, []int{})
	if err != ErrEmpty {
		t.Fatal("empty score did not error")
	}

	_, err = NewScore(SingleMatch, []int{11}, []int{})
	if err != ErrEmpty {
		t.Fatal("one-sided score did not error")
	}

	_, err = NewScore(SingleMatch, []int{11, 11}, []int{9, 9})
	if err != ErrTooManyGames {
		t.Fatal("two games in a single match did not error")
	}

	_, err = NewScore(SingleMatch, []int{11}, []int{11})
	if err != ErrTiedGame {
		t.Fatal("tied score did not error")
	}

	_, err = NewScore(SingleMatch, []int{11}, []int{-2})
	if err != ErrNegativePoints {
		t.Fatal("negative points did not error")
	}

	_, err = NewScore("rally", []int{11}, []int{2})
	if err != ErrUnknownFormat {
		t.Fatal("unknown format did not error")
	}
}

func TestBestOf3Errors(t *testing.T) {
	_, err := NewScore(BestOf3, nil, nil)
	if err != ErrEmpty {
		t.Fatal("empty score did not error")
	}

	_, err = NewScore(BestOf3, []int{11}, []int{8})
	if !errors.Is(err, ErrIncomplete) {
		t.Fatal("missing game 2 did not error")
	}

	_, err = NewScore(BestOf3, []int{11, 11, 4}, []int{8, 9})
	if err != ErrUnequalGames {
		t.Fatal("unequal games did not error")
	}

	_, err = NewScore(BestOf3, []int{11, 10}, []int{8, 10})
	if !errors.Is(err, ErrTiedGame) {
		t.Fatal("tied game 2 did not error")
	}

	_, err = NewScore(BestOf3, []int{11, 11, 11}, []int{8, 9, 2})
	if err != ErrUnneededGame {
		t.Fatal("game 3 after a 2-0 did not error")
	}

	_, err = NewScore(BestOf3, []int{11, 9}, []int{8, 11})
	if !errors.Is(err, ErrDecidingGameRequired) || !errors.Is(err, ErrIncomplete) {
		t.Fatal("a 1-1 split without game 3 did not error as incomplete")
	}

	_, err = NewScore(BestOf3, []int{11, 9, 10}, []int{8, 11, 10})
	if !errors.Is(err, ErrTiedGame) {
		t.Fatal("tied game 3 did not error")
	}

	_, err = NewScore(BestOf3, []int{11, 9, 11, 11}, []int{8, 11, 5, 2})
	if err != ErrTooManyGames {
		t.Fatal("four games did not error")
	}
}

func TestBestOf3Winner(t *testing.T) {
	score, err := NewScore(BestOf3, []int{11, 6, 11}, []int{8, 11, 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.GetWinner() != Side1 {
		t.Fatal("side 1 won two games but was not the winner")
	}

	score, err = NewScore(BestOf3, []int{3, 5}, []int{11, 11})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.GetWinner() != Side2 {
		t.Fatal("side 2 won 2-0 but was not the winner")
	}
}

func TestConfirm(t *testing.T) {
	_, err := Confirm(SingleMatch, []int{11}, []int{9}, Side2)
	var mismatch *WinnerMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatal("selecting the losing side was not rejected")
	}
	if mismatch.Actual != Side1 || mismatch.Result != "11-9" {
		t.Fatalf("mismatch error carries the wrong result: %v", mismatch)
	}

	score, err := Confirm(SingleMatch, []int{9}, []int{11}, Side2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.GetWinner() != Side2 {
		t.Fatal("confirmed score has the wrong winner")
	}

	_, err = Confirm(BestOf3, []int{11, 6, 11}, []int{8, 11, 9}, Side2)
	if !errors.As(err, &mismatch) || mismatch.Result != "2-1" {
		t.Fatal("best of 3 mismatch was not reported with the games won")
	}

	_, err = Confirm(SingleMatch, []int{11}, []int{9}, NoSide)
	if err != ErrNoSelection {
		t.Fatal("missing selection did not error")
	}

	_, err = Confirm(BestOf3, []int{11, 9}, []int{8, 11}, Side1)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatal("confirm guessed a winner for an incomplete best of 3")
	}
}
