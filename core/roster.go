package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrEmptyRoster   = errors.New("nothing to add, use: Name, Rating, Gender")
	ErrInvalidRating = fmt.Errorf("rating must be between %.1f and %.1f", MinRating, MaxRating)
)

// Parses a bulk roster with one "Name, Rating, Gender" line per
// player. Lines without a name or with an unreadable rating are
// skipped. The gender column is optional.
func ParseRoster(r io.Reader) ([]*Player, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	players := make([]*Player, 0, 16)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 2 {
			continue
		}

		name := strings.TrimSpace(record[0])
		rating, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if name == "" || err != nil {
			continue
		}

		gender := ""
		if len(record) > 2 {
			gender = record[2]
		}

		players = append(players, NewPlayer(name, rating, ParseGender(gender)))
	}

	if len(players) == 0 {
		return nil, ErrEmptyRoster
	}

	return players, nil
}

// Checks that every player carries a rating in the supported range
func ValidateRoster(players []*Player) error {
	for _, p := range players {
		if p.Rating < MinRating || p.Rating > MaxRating {
			return fmt.Errorf("%w: %s has %.2f", ErrInvalidRating, p.Name, p.Rating)
		}
	}
	return nil
}
