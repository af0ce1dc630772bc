package core

import (
	"cmp"
	"math"
	"slices"
)

// A SkillLevel is one of the fixed rating bands that players
// are separated into.
type SkillLevel struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	// Inclusive lower bound of the band
	Min float64 `json:"min"`
	// Nominal upper bound of the band. A rating belongs to
	// the band when it is below the Min of the next band.
	Max float64 `json:"max"`
	index int
}

// The index of the level in the band order. The Mixed
// fallback level has index -1.
func (l *SkillLevel) Index() int {
	return l.index
}

var (
	Beginner             = &SkillLevel{Key: "BEGINNER", Label: "Beginner", Min: 2.0, Max: 2.9, index: 0}
	AdvancedBeginner     = &SkillLevel{Key: "ADVANCED_BEGINNER", Label: "Advanced Beginner", Min: 3.0, Max: 3.4, index: 1}
	Intermediate         = &SkillLevel{Key: "INTERMEDIATE", Label: "Intermediate", Min: 3.5, Max: 3.9, index: 2}
	AdvancedIntermediate = &SkillLevel{Key: "ADVANCED_INTERMEDIATE", Label: "Advanced Intermediate", Min: 4.0, Max: 4.4, index: 3}
	Advanced             = &SkillLevel{Key: "ADVANCED", Label: "Advanced", Min: 4.5, Max: 4.9, index: 4}
	Expert               = &SkillLevel{Key: "EXPERT", Label: "Expert", Min: 5.0, Max: 5.4, index: 5}
	ExpertPro            = &SkillLevel{Key: "EXPERT_PRO", Label: "Expert Pro", Min: 5.5, Max: 6.0, index: 6}

	// The level of the last resort group that holds every player
	Mixed = &SkillLevel{Key: "MIXED", Label: "Mixed", index: -1}

	// The level of the group that pools idle players of all
	// groups when courts are left over
	MixedOverflow = &SkillLevel{Key: "MIXED", Label: "Mixed (Overflow)", index: -1}
)

// The skill bands in ascending order
var SkillLevels = []*SkillLevel{
	Beginner,
	AdvancedBeginner,
	Intermediate,
	AdvancedIntermediate,
	Advanced,
	Expert,
	ExpertPro,
}

// Returns the band of the given rating. Ratings below the
// lowest band count as beginners, ratings above the highest
// band count as the highest band.
func LevelOf(rating float64) *SkillLevel {
	for i := len(SkillLevels) - 1; i > 0; i-- {
		if rating >= SkillLevels[i].Min {
			return SkillLevels[i]
		}
	}
	return SkillLevels[0]
}

// Two players can play together when their bands are
// the same or adjacent.
func CanPlayTogether(p1, p2 Participant) bool {
	return levelDistance(p1, p2) <= 1
}

func levelDistance(p1, p2 Participant) int {
	i1 := LevelOf(p1.SkillRating()).index
	i2 := LevelOf(p2.SkillRating()).index
	if i1 > i2 {
		return i1 - i2
	}
	return i2 - i1
}

// A SkillGroup is a set of players who are scheduled
// separately from the other groups.
type SkillGroup struct {
	Level     *SkillLevel
	Players   []*Player
	MinRating float64
	MaxRating float64
}

func newSkillGroup(level *SkillLevel, players []*Player) *SkillGroup {
	group := &SkillGroup{Level: level}
	for _, p := range players {
		group.add(p)
	}
	return group
}

func (g *SkillGroup) add(p *Player) {
	if len(g.Players) == 0 {
		g.MinRating = p.Rating
		g.MaxRating = p.Rating
	}
	g.Players = append(g.Players, p)
	g.MinRating = min(g.MinRating, p.Rating)
	g.MaxRating = max(g.MaxRating, p.Rating)
}

func (g *SkillGroup) averageRating() float64 {
	if len(g.Players) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range g.Players {
		sum += p.Rating
	}
	return sum / float64(len(g.Players))
}

// A Relocation records that a player was moved out of their
// native band to keep the groups large enough.
type Relocation struct {
	Player *Player
	From   *SkillLevel
	To     *SkillLevel
}

// Partitions the players into skill groups of at least
// minPerLevel players each.
//
// Every player is first put into their native band.
// Undersized bands are then merged into the next nonempty
// higher band and in a second pass into the next nonempty
// lower band. Players of bands that are still undersized
// join the group with the closest average rating. When no
// group reaches the minimum size, all players form a single
// Mixed group.
func SeparateBySkill(players []*Player, minPerLevel int) ([]*SkillGroup, []Relocation) {
	if len(players) == 0 {
		return nil, nil
	}
	minPerLevel = max(minPerLevel, 1)

	bands := make([][]*Player, len(SkillLevels))
	for _, p := range players {
		level := LevelOf(p.Rating)
		bands[level.index] = append(bands[level.index], p)
	}

	relocations := make([]Relocation, 0)
	bump := func(from, to int) {
		for _, p := range bands[from] {
			relocations = append(relocations, Relocation{Player: p, From: SkillLevels[from], To: SkillLevels[to]})
		}
		bands[to] = append(bands[to], bands[from]...)
		bands[from] = nil
	}
	undersized := func(i int) bool {
		return len(bands[i]) > 0 && len(bands[i]) < minPerLevel
	}

	for i := range bands {
		if !undersized(i) {
			continue
		}
		target := i + 1
		for target < len(bands) && len(bands[target]) == 0 {
			target += 1
		}
		if target < len(bands) {
			bump(i, target)
		}
	}

	for i := len(bands) - 1; i >= 0; i-- {
		if !undersized(i) {
			continue
		}
		target := i - 1
		for target >= 0 && len(bands[target]) == 0 {
			target -= 1
		}
		if target >= 0 {
			bump(i, target)
		}
	}

	groups := make([]*SkillGroup, 0, len(bands))
	orphans := make([]*Player, 0)
	for i, band := range bands {
		if len(band) >= minPerLevel {
			groups = append(groups, newSkillGroup(SkillLevels[i], band))
		} else {
			orphans = append(orphans, band...)
		}
	}

	if len(orphans) == 0 {
		return groups, relocations
	}

	if len(groups) == 0 {
		return []*SkillGroup{newSkillGroup(Mixed, players)}, relocations
	}

	for _, orphan := range orphans {
		closest := slices.MinFunc(groups, func(a, b *SkillGroup) int {
			return cmp.Compare(
				math.Abs(orphan.Rating-a.averageRating()),
				math.Abs(orphan.Rating-b.averageRating()),
			)
		})
		closest.add(orphan)
		relocations = append(relocations, Relocation{Player: orphan, From: LevelOf(orphan.Rating), To: closest.Level})
	}

	return groups, relocations
}
