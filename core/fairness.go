package core

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	// The largest tolerated difference of sit-outs between
	// two participants
	maxSatOutSpread = 2
	// From this round index on a participant who never
	// played is a critical issue
	criticalRound = 2
)

// A FairnessReport summarizes how evenly the play time is
// distributed after a round. It is advisory and never
// blocks the generation of rounds.
type FairnessReport struct {
	Round     int `json:"round"`
	MinSatOut int `json:"minSatOut"`
	MaxSatOut int `json:"maxSatOut"`
	// The names of the participants who did not play yet
	NeverPlayed []string `json:"neverPlayed"`
}

func (r *FairnessReport) Spread() int {
	return r.MaxSatOut - r.MinSatOut
}

// Returns true when the sit-outs are spread too far apart
func (r *FairnessReport) Imbalanced() bool {
	return r.Spread() > maxSatOutSpread
}

// Returns true when participants are still waiting for their
// first match after several rounds
func (r *FairnessReport) Critical() bool {
	return len(r.NeverPlayed) > 0 && r.Round >= criticalRound
}

// Returns true when the sit-outs differ by at most one
func (r *FairnessReport) Fair() bool {
	return r.Spread() <= 1
}

func checkFairness[P Participant, S playRecord](present []P, stats map[string]S, roundIdx int) *FairnessReport {
	report := &FairnessReport{Round: roundIdx, NeverPlayed: make([]string, 0)}
	for i, p := range present {
		st := playRecordOf(stats, p.Id())
		if i == 0 {
			report.MinSatOut = st.RoundsSatOut
			report.MaxSatOut = st.RoundsSatOut
		}
		report.MinSatOut = min(report.MinSatOut, st.RoundsSatOut)
		report.MaxSatOut = max(report.MaxSatOut, st.RoundsSatOut)
		if st.RoundsPlayed == 0 {
			report.NeverPlayed = append(report.NeverPlayed, fmt.Sprint(p))
		}
	}
	return report
}

func (r *FairnessReport) log(log *logrus.Entry) {
	if r.Round == 0 {
		return
	}
	if r.Critical() {
		log.WithFields(logrus.Fields{
			"round":       r.Round + 1,
			"neverPlayed": r.NeverPlayed,
		}).Error("participants have not played any match")
	}
	if r.Imbalanced() {
		log.WithFields(logrus.Fields{
			"round":     r.Round + 1,
			"minSatOut": r.MinSatOut,
			"maxSatOut": r.MaxSatOut,
		}).Warn("sit-outs are unevenly distributed")
	}
}
