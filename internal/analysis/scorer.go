package analysis

import "sort"

// Scorer computes the four behavioral dimensions. Every score lands in [0, 100].
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes all dimensions. ai is the commit analysis of the same signals.
func (s *Scorer) Score(sig ProfileSignals, ai AIAnalysis) DimensionScores {
	return DimensionScores{
		Activity:       s.Activity(sig),
		Collaboration:  s.Collaboration(sig),
		StackDiversity: s.StackDiversity(sig),
		AISavviness:    s.AISavviness(ai),
	}
}

func (s *Scorer) Activity(sig ProfileSignals) float64 {
	c := s.cfg.Activity
	score := c.CommitWeight*LogScale(float64(sig.CommitCount), c.CommitCap) +
		c.ActiveDaysWeight*LogScale(float64(sig.ActiveDays), c.ActiveDaysCap) +
		c.StreakWeight*LogScale(float64(sig.StreakDays), c.StreakCap)

	// recency only means something once there is a commit to be recent
	if sig.CommitCount > 0 {
		score += c.RecencyWeight * 100 * TimeDecayWeight(sig.LastCommitAgeDays, c.RecencyHalfLifeDays)
	}
	return clip(score, 0, 100)
}

func (s *Scorer) Collaboration(sig ProfileSignals) float64 {
	c := s.cfg.Collaboration
	prs := float64(sig.PROpened) + float64(sig.PRMerged)

	score := c.PRWeight*LogScale(prs, c.PRCap) +
		c.ReviewWeight*LogScale(float64(sig.ReviewsGiven), c.ReviewCap) +
		c.ForkWeight*LogScale(float64(sig.ForksReceived), c.ForkCap)

	if sig.OrgCount > 0 {
		score += clip(float64(sig.OrgCount)*c.OrgBonusPerOrg, 0, c.OrgBonusMax)
	}
	return clip(score, 0, 100)
}

func (s *Scorer) StackDiversity(sig ProfileSignals) float64 {
	c := s.cfg.Diversity
	langs := normalizeLanguages(sig.Languages)

	// map iteration order must not leak into the float sum
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Strings(names)
	shares := make([]float64, 0, len(names))
	for _, name := range names {
		shares = append(shares, float64(langs[name]))
	}

	tags := normalizeTopics(sig.Topics)
	score := c.EntropyWeight*Entropy(shares, c.MaxLanguageCategories) +
		c.TagWeight*LogScale(float64(len(tags)), c.TagCap)
	return clip(score, 0, 100)
}

// AISavviness is the commit-derived indicator plus the config-file bonus, so
// it equals the composite the AI bucket is taken from.
func (s *Scorer) AISavviness(ai AIAnalysis) float64 {
	return clip(ai.Indicator+s.cfg.AI.configBonus(len(ai.ConfigFilesDetected)), 0, 100)
}
