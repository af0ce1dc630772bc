// Command smashboard runs a pickleball event from a roster file
// and prints the leaderboard.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/smashboard/scheduler/config"
	"github.com/smashboard/scheduler/core"
	"github.com/smashboard/scheduler/internal"
	"github.com/smashboard/scheduler/pickleball"
)

// Default file name for the configuration file
const defconf = "smashboard.toml"

func main() {
	var (
		confFile = flag.String("conf", defconf, "Name of configuration file")
		roster   = flag.String("roster", "", "Roster file with one \"Name, Rating, Gender\" line per player")
		rounds   = flag.Int("rounds", 0, "Number of rounds to generate")
		simulate = flag.Bool("simulate", false, "Enter random results for the generated matches")
		output   = flag.String("output", "", "Write the results as JSON to this file")
	)

	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Too many arguments passed to %s.\nUsage:\n",
			os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	conf, err := config.Open(*confFile)
	if errors.Is(err, os.ErrNotExist) && *confFile == defconf {
		conf = config.Default()
	} else if err != nil {
		logrus.Fatal(err)
	}

	logrus.SetLevel(conf.LogLevel)
	if level, ok := os.LookupEnv("SMASHBOARD_LOG_LEVEL"); ok {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			logrus.Fatal(err)
		}
		logrus.SetLevel(parsed)
	}

	if *roster != "" {
		conf.Roster = *roster
	}
	if *rounds > 0 {
		conf.Rounds = *rounds
	}

	players, err := readRoster(conf.Roster)
	if err != nil {
		logrus.WithField("roster", conf.Roster).Fatal(err)
	}

	rng := internal.NewRand(conf.Settings.Seed)
	tournament, err := core.NewTournament(conf.Settings, core.WithRand(rng))
	if err != nil {
		logrus.Fatal(err)
	}
	if err := tournament.SetRoster(players); err != nil {
		logrus.Fatal(err)
	}

	for range conf.Rounds {
		round, err := tournament.GenerateNextRound()
		if err != nil {
			logrus.Fatal(err)
		}
		for _, m := range round.Matches {
			fmt.Println(m)
			if *simulate {
				if err := simulateResult(tournament, m, rng); err != nil {
					logrus.Fatal(err)
				}
			}
		}
		fmt.Println()
	}

	printLeaderboard(tournament.Leaderboard())

	if *output != "" {
		if err := writeResults(tournament, *output); err != nil {
			logrus.Fatal(err)
		}
	}
}

func readRoster(name string) ([]*core.Player, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return core.ParseRoster(file)
}

// Enters a random result that the winner takes 11 to something
func simulateResult(tournament *core.Tournament, m *core.Match, rng *rand.Rand) error {
	winner := pickleball.Side1
	if rng.Intn(2) == 1 {
		winner = pickleball.Side2
	}

	games := 1
	if m.MatchFormat == pickleball.BestOf3 {
		games = 2
	}
	won, lost := make([]int, 0, games), make([]int, 0, games)
	for range games {
		won = append(won, 11)
		lost = append(lost, rng.Intn(10))
	}

	if winner == pickleball.Side1 {
		return tournament.RecordResult(m.ID, won, lost, winner)
	}
	return tournament.RecordResult(m.ID, lost, won, winner)
}

func printLeaderboard(standings []core.Standing) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tName\tRating\tPlayed\tSat out\tW-L\t+/-\tPoints\tKing wins")
	for i, s := range standings {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%d\t%d-%d\t%+d\t%d\t%d\n",
			i+1, s.Name, s.Rating, s.RoundsPlayed, s.RoundsSatOut,
			s.Wins, s.Losses, s.PointDifference, s.TotalPoints, s.KingCourtWins)
	}
	w.Flush()
}

func writeResults(tournament *core.Tournament, name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return tournament.Results(time.Now()).Write(file)
}
