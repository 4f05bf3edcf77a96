package align

// Profile carries the semantic reading of one row's demographic answers
// as far as they have been assigned. Fields are only consulted when their
// Has flag is set.
type Profile struct {
	HasAge bool
	Age    int

	HasOccupation bool
	Occupation    Occupation

	HasIncome bool
	Income    int

	HasEducation bool
	Education    int
}

// Scorer rates how plausible a joint demographic profile is. Larger is
// better. Implementations must be pure so greedy assignment stays
// reproducible under a fixed rng.
type Scorer interface {
	Score(p Profile) float64
}

// Rule weights. Hard penalties effectively veto a combination; the
// smaller bonuses nudge the greedy pass toward coherent pairings.
const (
	hardPenalty = -10000
	softPenalty = -1500
	strongBonus = 5000
	midBonus    = 2500
	softBonus   = 1000
)

// RuleScorer is the default additive rule table covering the pairwise
// age/occupation/income/education interactions.
type RuleScorer struct{}

func (RuleScorer) Score(p Profile) float64 {
	s := 0.0

	if p.HasAge && p.HasOccupation {
		switch {
		case p.Age < 18 && (p.Occupation == OccEmployed || p.Occupation == OccBusiness):
			s += hardPenalty
		case p.Age < 18 && p.Occupation == OccStudent:
			s += strongBonus
		case p.Age > 60 && p.Occupation == OccRetired:
			s += midBonus
		case p.Age < 40 && p.Occupation == OccRetired:
			s += hardPenalty
		case p.Age >= 35 && p.Occupation == OccStudent:
			s += hardPenalty
		}
	}

	if p.HasAge && p.HasIncome && p.Income >= 0 {
		switch {
		case p.Age < 18 && p.Income > 20000:
			s += hardPenalty
		case p.Age < 18 && p.Income == 0:
			s += midBonus
		case p.Age > 30 && p.Income == 0:
			s += softPenalty
		case p.Age >= 25 && p.Age <= 45 && p.Income > 20000:
			s += softBonus
		}
	}

	if p.HasOccupation && p.HasIncome && p.Income >= 0 {
		working := p.Occupation == OccEmployed || p.Occupation == OccBusiness
		switch {
		case p.Occupation == OccStudent && p.Income > 30000:
			s += hardPenalty
		case p.Occupation == OccStudent && p.Income == 0:
			s += midBonus
		case p.Occupation == OccUnemployed && p.Income > 10000:
			s += hardPenalty
		case working && p.Income > 0:
			s += midBonus
		case working && p.Income == 0:
			s += hardPenalty
		}
	}

	if p.HasAge && p.HasEducation {
		switch {
		case p.Age < 18 && p.Education > 12:
			s += hardPenalty
		case p.Age < 21 && p.Education > 15:
			s += hardPenalty
		case p.Age > 24 && p.Education > 12:
			s += softBonus
		}
	}

	if p.HasOccupation && p.HasEducation {
		if (p.Occupation == OccStudent || p.Occupation == OccUnemployed) && p.Education > 15 {
			s += softPenalty
		}
	}

	return s
}
