package core

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smashboard/scheduler/internal"
	"github.com/smashboard/scheduler/pickleball"
)

var (
	ErrTooFewEntries     = errors.New("not enough entries for this tournament mode")
	ErrNoMatches         = errors.New("no match could be formed")
	ErrDuplicatePlayer   = errors.New("player is on more than one team")
	ErrUnknownTeamPlayer = errors.New("team player is not on the roster")
)

// A Tournament is the state of one event: the roster, the
// generated rounds, the play statistics and the courts.
//
// Every operation either completes or returns an error and
// leaves the state untouched. A Tournament is not safe for
// concurrent use.
type Tournament struct {
	settings Settings

	players []*Player
	// The teams of teamed doubles
	teams []*Team
	// The fixed partnerships drafted for king of court doubles
	autoTeams []*Team

	stats  *Stats
	rounds []*Round
	// The index of the round that completed court matches are
	// added to in continuous play
	currentRound int
	courts       *CourtFlow

	rng *rand.Rand
	log *logrus.Entry
	now func() time.Time

	lastFairness *FairnessReport
}

type Option func(*Tournament)

// Sets the random source for all random decisions
func WithRand(rng *rand.Rand) Option {
	return func(t *Tournament) {
		t.rng = rng
	}
}

func WithLogger(log *logrus.Entry) Option {
	return func(t *Tournament) {
		t.log = log
	}
}

// Sets the clock used for match start and end times
func WithClock(now func() time.Time) Option {
	return func(t *Tournament) {
		t.now = now
	}
}

func NewTournament(settings Settings, opts ...Option) (*Tournament, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	t := &Tournament{
		settings: settings,
		stats:    NewStats(),
		rounds:   make([]*Round, 0, 16),
		courts:   NewCourtFlow(settings.Courts),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = internal.NewRand(settings.Seed)
	}
	if t.log == nil {
		t.log = logrus.NewEntry(logrus.StandardLogger())
	}

	return t, nil
}

func (t *Tournament) Settings() Settings {
	return t.settings
}

// Applies new settings. Changing the tournament type or the game
// format discards the teams.
func (t *Tournament) Configure(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := t.courts.resize(settings.Courts); err != nil {
		return err
	}

	if settings.TournamentType != t.settings.TournamentType || settings.GameFormat != t.settings.GameFormat {
		t.teams = nil
		t.autoTeams = nil
	}
	t.settings = settings
	return nil
}

func (t *Tournament) Players() []*Player {
	return t.players
}

// Replaces the roster. Stats of players who left the
// roster are kept.
func (t *Tournament) SetRoster(players []*Player) error {
	if err := ValidateRoster(players); err != nil {
		return err
	}
	t.players = players
	return nil
}

// Returns the teams of the current format. These are the
// drafted partnerships in king of court doubles.
func (t *Tournament) Teams() []*Team {
	if t.playsAutoTeams() {
		return t.autoTeams
	}
	return t.teams
}

// Replaces the teams of teamed doubles. All team players
// have to be on the roster and on one team only.
func (t *Tournament) SetTeams(teams []*Team) error {
	onRoster := make(map[string]bool, len(t.players))
	for _, p := range t.players {
		onRoster[p.ID] = true
	}
	onTeam := make(map[string]bool, len(teams)*2)
	for _, team := range teams {
		for _, p := range team.Players() {
			if !onRoster[p.ID] {
				return fmt.Errorf("%w: %s", ErrUnknownTeamPlayer, p.Name)
			}
			if onTeam[p.ID] {
				return fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.Name)
			}
			onTeam[p.ID] = true
		}
	}
	t.teams = teams
	return nil
}

func (t *Tournament) playsAutoTeams() bool {
	return t.settings.TournamentType == KingOfCourt &&
		t.settings.GameFormat == Doubles &&
		t.settings.FixedPartners
}

func (t *Tournament) Rounds() []*Round {
	return t.rounds
}

func (t *Tournament) CurrentRound() int {
	return t.currentRound
}

// Returns a copy of the play statistics
func (t *Tournament) Stats() *Stats {
	return t.stats.Clone()
}

func (t *Tournament) Courts() []CourtState {
	return t.courts.States()
}

// Returns the fairness report of the latest round robin round
// or nil
func (t *Tournament) Fairness() *FairnessReport {
	return t.lastFairness
}

// Generates the next round for the present players or teams
// and updates the statistics.
func (t *Tournament) GenerateNextRound() (*Round, error) {
	if err := t.settings.Validate(); err != nil {
		return nil, err
	}

	roundIdx := len(t.rounds)
	g := &generator{
		settings: t.settings,
		stats:    t.stats.Clone(),
		rng:      t.rng,
		roundIdx: roundIdx,
		log: t.log.WithFields(logrus.Fields{
			"round":  roundIdx + 1,
			"format": t.settings.GameFormat,
		}),
	}
	if roundIdx > 0 {
		g.previous = t.rounds[roundIdx-1]
	}

	present := PresentPlayers(t.players)
	autoTeams := t.autoTeams
	var matches []*Match
	var report *FairnessReport

	switch {
	case t.settings.TournamentType == RoundRobin && t.settings.GameFormat == Singles:
		if err := requireEntries(len(present), 2, "present players"); err != nil {
			return nil, err
		}
		matches = g.singlesRound(present)
		report = checkFairness(present, g.stats.Players, roundIdx)

	case t.settings.TournamentType == RoundRobin && t.settings.GameFormat == TeamedDoubles:
		teams := PresentTeams(t.teams)
		if err := requireEntries(len(teams), 2, "teams"); err != nil {
			return nil, err
		}
		matches = g.teamedRound(teams)
		report = checkFairness(teams, g.stats.Teams, roundIdx)

	case t.settings.TournamentType == RoundRobin:
		if err := requireEntries(len(present), 4, "present players"); err != nil {
			return nil, err
		}
		matches = g.doublesRound(present)
		report = checkFairness(present, g.stats.Players, roundIdx)

	case t.settings.GameFormat == TeamedDoubles:
		teams := PresentTeams(t.teams)
		if err := requireEntries(len(teams), 2, "teams"); err != nil {
			return nil, err
		}
		matches = g.kingOfCourtTeamsRound(teams)

	case t.settings.FixedPartners:
		if len(autoTeams) == 0 {
			autoTeams = GenerateBalancedTeams(present)
			g.log.WithField("teams", len(autoTeams)).Debug("drafted fixed partnerships")
		}
		teams := PresentTeams(autoTeams)
		if err := requireEntries(len(teams), 2, "teams"); err != nil {
			return nil, err
		}
		matches = g.kingOfCourtTeamsRound(teams)

	default:
		if err := requireEntries(len(present), 4, "present players"); err != nil {
			return nil, err
		}
		matches = g.kingOfCourtPlayersRound(present)
	}

	if len(matches) == 0 {
		return nil, ErrNoMatches
	}

	start := t.now()
	for _, m := range matches {
		m.StartTime = start
	}

	round := &Round{Matches: matches}
	t.stats = g.stats
	t.autoTeams = autoTeams
	t.rounds = append(t.rounds, round)
	t.currentRound = len(t.rounds)
	if report != nil {
		report.log(g.log)
		t.lastFairness = report
	}

	g.log.WithFields(logrus.Fields{
		"courts":    len(matches),
		"requested": t.settings.Courts,
	}).Debug("generated round")
	if len(matches) < t.settings.Courts {
		g.log.WithField("courts", len(matches)).Debug("not all courts are used")
	}

	return round, nil
}

func requireEntries(have, need int, what string) error {
	if have < need {
		return fmt.Errorf("%w: need at least %d %s, have %d", ErrTooFewEntries, need, what, have)
	}
	return nil
}

// Returns the match with the given ID from the rounds or
// from the courts
func (t *Tournament) Match(id string) (*Match, error) {
	for _, r := range t.rounds {
		for _, m := range r.Matches {
			if m.ID == id {
				return m, nil
			}
		}
	}
	if m := t.courts.findMatch(id); m != nil {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
}

// Records the result of a match. The scores are given per game
// for each side and have to agree with the selected winner.
//
// The result of a completed match can be corrected. On a king of
// court ladder the points then move to the new winner.
func (t *Tournament) RecordResult(matchID string, points1, points2 []int, winner pickleball.Side) error {
	m, err := t.Match(matchID)
	if err != nil {
		return err
	}

	score, err := pickleball.Confirm(m.MatchFormat, points1, points2, winner)
	if err != nil {
		return err
	}

	previousWinner := pickleball.NoSide
	if m.IsCompleted() {
		previousWinner = m.Winner
	}
	m.complete(score, t.now())

	if m.PointsForWin > 0 {
		creditLadderPoints(t.stats, m, previousWinner)
	}

	t.log.WithFields(logrus.Fields{
		"court":  m.Court,
		"score":  score.String(),
		"winner": m.Winner.String(),
	}).Debug("recorded result")
	return nil
}

// Puts the next match on a ready court in continuous play. The
// match is formed from the present players or teams that are not
// on any other court.
func (t *Tournament) AssignCourt(number int) (*Match, error) {
	if t.settings.TournamentType != RoundRobin {
		return nil, ErrContinuousPlay
	}
	court, err := t.courts.Court(number)
	if err != nil {
		return nil, err
	}
	if court.Status != CourtReady {
		return nil, fmt.Errorf("%w: court %d is %s", ErrCourtBusy, number, court.Status)
	}

	present := PresentPlayers(t.players)
	separate := t.settings.SeparateBySkill && len(present) >= minPlayersForSeparation

	var match *Match
	switch t.settings.GameFormat {
	case Singles:
		players := available(t.courts, present)
		if err := requireAvailable(len(players), 2, "players"); err != nil {
			return nil, err
		}
		player1, player2 := pickSingles(players, separate, t.stats)
		match = newSinglesMatch(number, player1, player2, t.settings.MatchFormat)
		ensurePlayers(t.stats, []*Player{player1, player2})

	case TeamedDoubles:
		teams := available(t.courts, PresentTeams(t.teams))
		if err := requireAvailable(len(teams), 2, "teams"); err != nil {
			return nil, err
		}
		team1, team2, ok := pickTeams(teams, t.stats)
		if !ok {
			return nil, fmt.Errorf("%w: need 2 teams of the same gender class", ErrNotEnoughAvailable)
		}
		match = newTeamMatch(number, team1, team2, TeamedDoubles, t.settings.MatchFormat)
		match.SkillLevel = team1.Gender.Label()
		ensureTeams(t.stats, []*Team{team1, team2})

	default:
		players := available(t.courts, present)
		if err := requireAvailable(len(players), 4, "players"); err != nil {
			return nil, err
		}
		team1, team2 := pickDoubles(players, separate, t.stats, t.rng)
		match = newDoublesMatch(number, team1, team2, t.settings.MatchFormat)
		ensurePlayers(t.stats, match.Players())
	}

	match.StartTime = t.now()
	court.Status = CourtPlaying
	court.CurrentMatch = match

	t.log.WithFields(logrus.Fields{
		"court": number,
		"match": match.String(),
	}).Debug("assigned match to court")
	return match, nil
}

func requireAvailable(have, need int, what string) error {
	if have < need {
		return fmt.Errorf("%w: need at least %d %s that are not on a court, have %d", ErrNotEnoughAvailable, need, what, have)
	}
	return nil
}

// Finishes the match on a court in continuous play. The match is
// added to the current round and the stats of its participants
// are updated. The court is either ready right away or needs to be
// cleaned first. While it is cleaned, the participants stay
// unavailable.
func (t *Tournament) CompleteCourt(number int, cleaning bool) (*Match, error) {
	court, err := t.courts.Court(number)
	if err != nil {
		return nil, err
	}
	if court.Status != CourtPlaying || court.CurrentMatch == nil {
		return nil, fmt.Errorf("%w: court %d", ErrCourtIdle, number)
	}

	m := court.CurrentMatch
	minutes := m.DurationMinutes
	if !m.IsCompleted() && !m.StartTime.IsZero() {
		minutes = durationMinutes(m.StartTime, t.now())
	}

	if len(t.rounds) <= t.currentRound {
		t.rounds = append(t.rounds, &Round{})
	}
	round := t.rounds[t.currentRound]
	round.Matches = append(round.Matches, m)
	t.stats.updateForCompletion(m, t.currentRound, minutes)

	if cleaning {
		court.Status = CourtCleaning
	} else {
		court.Status = CourtReady
		court.CurrentMatch = nil
	}

	t.log.WithFields(logrus.Fields{
		"court":   number,
		"round":   t.currentRound + 1,
		"minutes": minutes,
	}).Debug("completed court match")
	return m, nil
}

// Marks a cleaned court as ready for the next match
func (t *Tournament) MarkCourtReady(number int) error {
	court, err := t.courts.Court(number)
	if err != nil {
		return err
	}
	switch court.Status {
	case CourtPlaying:
		return fmt.Errorf("%w: court %d has a match in play", ErrCourtBusy, number)
	case CourtCleaning:
		court.Status = CourtReady
		court.CurrentMatch = nil
	}
	return nil
}

// Returns the participants waiting for a court in continuous
// play ordered by who should play next
func (t *Tournament) NextUp() []QueueEntry {
	if t.settings.TournamentType != RoundRobin {
		return nil
	}
	if t.settings.GameFormat == TeamedDoubles {
		return nextUpQueue(available(t.courts, PresentTeams(t.teams)), t.stats.Teams)
	}
	return nextUpQueue(available(t.courts, PresentPlayers(t.players)), t.stats.Players)
}

// Discards all rounds, statistics, court states and drafted
// partnerships. The roster and the teams are kept.
func (t *Tournament) ClearAllRounds() {
	t.rounds = make([]*Round, 0, 16)
	t.currentRound = 0
	t.stats = NewStats()
	t.autoTeams = nil
	t.lastFairness = nil
	t.courts.reset()
	t.log.Debug("cleared all rounds")
}
