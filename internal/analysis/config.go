package analysis

import (
	"errors"
	"fmt"
	"math"
)

// Config validation errors.
var (
	ErrInvalidWeights    = errors.New("blend weights must be non-negative and sum to 1")
	ErrInvalidCap        = errors.New("saturation caps must be positive")
	ErrInvalidThresholds = errors.New("thresholds out of order or out of range")
)

const weightTolerance = 1e-9

// Config holds every tunable constant of the engine. It is the public
// configuration surface: shells load it from file, tests pass it directly.
type Config struct {
	Activity      ActivityConfig      `json:"activity" mapstructure:"activity" yaml:"activity"`
	Collaboration CollaborationConfig `json:"collaboration" mapstructure:"collaboration" yaml:"collaboration"`
	Diversity     DiversityConfig     `json:"diversity" mapstructure:"diversity" yaml:"diversity"`
	AI            AIConfig            `json:"ai" mapstructure:"ai" yaml:"ai"`
	Classifier    ClassifierConfig    `json:"classifier" mapstructure:"classifier" yaml:"classifier"`
	Tags          TagConfig           `json:"tags" mapstructure:"tags" yaml:"tags"`
}

type ActivityConfig struct {
	CommitCap           float64 `json:"commit_cap" mapstructure:"commit_cap" yaml:"commit_cap"`
	ActiveDaysCap       float64 `json:"active_days_cap" mapstructure:"active_days_cap" yaml:"active_days_cap"`
	StreakCap           float64 `json:"streak_cap" mapstructure:"streak_cap" yaml:"streak_cap"`
	RecencyHalfLifeDays float64 `json:"recency_half_life_days" mapstructure:"recency_half_life_days" yaml:"recency_half_life_days"`
	CommitWeight        float64 `json:"commit_weight" mapstructure:"commit_weight" yaml:"commit_weight"`
	ActiveDaysWeight    float64 `json:"active_days_weight" mapstructure:"active_days_weight" yaml:"active_days_weight"`
	StreakWeight        float64 `json:"streak_weight" mapstructure:"streak_weight" yaml:"streak_weight"`
	RecencyWeight       float64 `json:"recency_weight" mapstructure:"recency_weight" yaml:"recency_weight"`
}

type CollaborationConfig struct {
	PRCap          float64 `json:"pr_cap" mapstructure:"pr_cap" yaml:"pr_cap"`
	ReviewCap      float64 `json:"review_cap" mapstructure:"review_cap" yaml:"review_cap"`
	ForkCap        float64 `json:"fork_cap" mapstructure:"fork_cap" yaml:"fork_cap"`
	PRWeight       float64 `json:"pr_weight" mapstructure:"pr_weight" yaml:"pr_weight"`
	ReviewWeight   float64 `json:"review_weight" mapstructure:"review_weight" yaml:"review_weight"`
	ForkWeight     float64 `json:"fork_weight" mapstructure:"fork_weight" yaml:"fork_weight"`
	OrgBonusPerOrg float64 `json:"org_bonus_per_org" mapstructure:"org_bonus_per_org" yaml:"org_bonus_per_org"`
	OrgBonusMax    float64 `json:"org_bonus_max" mapstructure:"org_bonus_max" yaml:"org_bonus_max"`
}

type DiversityConfig struct {
	MaxLanguageCategories int     `json:"max_language_categories" mapstructure:"max_language_categories" yaml:"max_language_categories"`
	TagCap                float64 `json:"tag_cap" mapstructure:"tag_cap" yaml:"tag_cap"`
	EntropyWeight         float64 `json:"entropy_weight" mapstructure:"entropy_weight" yaml:"entropy_weight"`
	TagWeight             float64 `json:"tag_weight" mapstructure:"tag_weight" yaml:"tag_weight"`
}

type AIConfig struct {
	ToolWeight         float64 `json:"tool_weight" mapstructure:"tool_weight" yaml:"tool_weight"`
	BurstWeight        float64 `json:"burst_weight" mapstructure:"burst_weight" yaml:"burst_weight"`
	BurstGapSeconds    float64 `json:"burst_gap_seconds" mapstructure:"burst_gap_seconds" yaml:"burst_gap_seconds"`
	BurstMinRun        int     `json:"burst_min_run" mapstructure:"burst_min_run" yaml:"burst_min_run"`
	ConfigFileBonus    float64 `json:"config_file_bonus" mapstructure:"config_file_bonus" yaml:"config_file_bonus"`
	ConfigFileBonusMax float64 `json:"config_file_bonus_max" mapstructure:"config_file_bonus_max" yaml:"config_file_bonus_max"`
	BucketLight        float64 `json:"bucket_light" mapstructure:"bucket_light" yaml:"bucket_light"`
	BucketModerate     float64 `json:"bucket_moderate" mapstructure:"bucket_moderate" yaml:"bucket_moderate"`
	BucketHeavy        float64 `json:"bucket_heavy" mapstructure:"bucket_heavy" yaml:"bucket_heavy"`
	StrongToolDensity  float64 `json:"strong_tool_density" mapstructure:"strong_tool_density" yaml:"strong_tool_density"`
	StrongBurstScore   float64 `json:"strong_burst_score" mapstructure:"strong_burst_score" yaml:"strong_burst_score"`
	StrongConfigFiles  int     `json:"strong_config_files" mapstructure:"strong_config_files" yaml:"strong_config_files"`

	// HeuristicCommitScore is the per-commit heuristic (0..1) at which a
	// commit counts as an AI-signal commit.
	HeuristicCommitScore float64 `json:"heuristic_commit_score" mapstructure:"heuristic_commit_score" yaml:"heuristic_commit_score"`
	// HeuristicEvidenceScore is the window heuristic score (0..100) at which
	// message style counts as a weak evidence kind.
	HeuristicEvidenceScore float64          `json:"heuristic_evidence_score" mapstructure:"heuristic_evidence_score" yaml:"heuristic_evidence_score"`
	PrefixRunes            int              `json:"prefix_runes" mapstructure:"prefix_runes" yaml:"prefix_runes"`
	PrefixMinRun           int              `json:"prefix_min_run" mapstructure:"prefix_min_run" yaml:"prefix_min_run"`
	Heuristics             HeuristicWeights `json:"heuristics" mapstructure:"heuristics" yaml:"heuristics"`
}

// HeuristicWeights scores commit message styles common in generated
// messages. A commit's heuristic is the sum of its matches, capped at 1.
type HeuristicWeights struct {
	GenericAction   float64 `json:"generic_action" mapstructure:"generic_action" yaml:"generic_action"`
	VerboseSubject  float64 `json:"verbose_subject" mapstructure:"verbose_subject" yaml:"verbose_subject"`
	DetailedScope   float64 `json:"detailed_scope" mapstructure:"detailed_scope" yaml:"detailed_scope"`
	ImplementPrefix float64 `json:"implement_prefix" mapstructure:"implement_prefix" yaml:"implement_prefix"`
	ArticlePrefix   float64 `json:"article_prefix" mapstructure:"article_prefix" yaml:"article_prefix"`
}

type ClassifierConfig struct {
	AffinityFloor         float64 `json:"affinity_floor" mapstructure:"affinity_floor" yaml:"affinity_floor"`
	CloseThreshold        float64 `json:"close_threshold" mapstructure:"close_threshold" yaml:"close_threshold"`
	MaxAlternatives       int     `json:"max_alternatives" mapstructure:"max_alternatives" yaml:"max_alternatives"`
	ConfidenceBase        float64 `json:"confidence_base" mapstructure:"confidence_base" yaml:"confidence_base"`
	ConfidenceMarginScale float64 `json:"confidence_margin_scale" mapstructure:"confidence_margin_scale" yaml:"confidence_margin_scale"`
	FallbackConfidence    float64 `json:"fallback_confidence" mapstructure:"fallback_confidence" yaml:"fallback_confidence"`
	BonusCap              float64 `json:"bonus_cap" mapstructure:"bonus_cap" yaml:"bonus_cap"`
}

type TagConfig struct {
	YoungAccountDays   float64 `json:"young_account_days" mapstructure:"young_account_days" yaml:"young_account_days"`
	VeteranAccountDays float64 `json:"veteran_account_days" mapstructure:"veteran_account_days" yaml:"veteran_account_days"`
}

// DefaultConfig returns the documented default constants.
func DefaultConfig() Config {
	return Config{
		Activity: ActivityConfig{
			CommitCap:           1000, // commits in the observed window
			ActiveDaysCap:       365,
			StreakCap:           60,
			RecencyHalfLifeDays: 30,
			CommitWeight:        0.35,
			ActiveDaysWeight:    0.25,
			StreakWeight:        0.15,
			RecencyWeight:       0.25,
		},
		Collaboration: CollaborationConfig{
			PRCap:          200, // opened + merged
			ReviewCap:      150,
			ForkCap:        100,
			PRWeight:       0.40,
			ReviewWeight:   0.30,
			ForkWeight:     0.30,
			OrgBonusPerOrg: 4,
			OrgBonusMax:    10,
		},
		Diversity: DiversityConfig{
			MaxLanguageCategories: 10,
			TagCap:                20,
			EntropyWeight:         0.6,
			TagWeight:             0.4,
		},
		AI: AIConfig{
			ToolWeight:         0.7,
			BurstWeight:        0.3,
			BurstGapSeconds:    120,
			BurstMinRun:        3,
			ConfigFileBonus:    8,
			ConfigFileBonusMax: 24,
			BucketLight:        10,
			BucketModerate:     30,
			BucketHeavy:        60,
			StrongToolDensity:  0.2,
			StrongBurstScore:   50,
			StrongConfigFiles:  2,

			HeuristicCommitScore:   0.25,
			HeuristicEvidenceScore: 30,
			PrefixRunes:            20,
			PrefixMinRun:           3,
			Heuristics: HeuristicWeights{
				GenericAction:   0.1,
				VerboseSubject:  0.15,
				DetailedScope:   0.05,
				ImplementPrefix: 0.1,
				ArticlePrefix:   0.2,
			},
		},
		Classifier: ClassifierConfig{
			AffinityFloor:         15,
			CloseThreshold:        5,
			MaxAlternatives:       2,
			ConfidenceBase:        0.5,
			ConfidenceMarginScale: 10,
			FallbackConfidence:    0,
			BonusCap:              25,
		},
		Tags: TagConfig{
			YoungAccountDays:   365,
			VeteranAccountDays: 5 * 365,
		},
	}
}

// Validate checks the internal consistency of the constants.
func (c Config) Validate() error {
	if err := checkWeights("activity",
		c.Activity.CommitWeight, c.Activity.ActiveDaysWeight, c.Activity.StreakWeight, c.Activity.RecencyWeight); err != nil {
		return err
	}
	if err := checkWeights("collaboration",
		c.Collaboration.PRWeight, c.Collaboration.ReviewWeight, c.Collaboration.ForkWeight); err != nil {
		return err
	}
	if err := checkWeights("diversity", c.Diversity.EntropyWeight, c.Diversity.TagWeight); err != nil {
		return err
	}
	if err := checkWeights("ai", c.AI.ToolWeight, c.AI.BurstWeight); err != nil {
		return err
	}

	caps := map[string]float64{
		"activity.commit_cap":          c.Activity.CommitCap,
		"activity.active_days_cap":     c.Activity.ActiveDaysCap,
		"activity.streak_cap":          c.Activity.StreakCap,
		"activity.recency_half_life":   c.Activity.RecencyHalfLifeDays,
		"collaboration.pr_cap":         c.Collaboration.PRCap,
		"collaboration.review_cap":     c.Collaboration.ReviewCap,
		"collaboration.fork_cap":       c.Collaboration.ForkCap,
		"diversity.tag_cap":            c.Diversity.TagCap,
		"ai.burst_gap_seconds":         c.AI.BurstGapSeconds,
		"classifier.confidence_margin": c.Classifier.ConfidenceMarginScale,
	}
	for name, v := range caps {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s", ErrInvalidCap, name)
		}
	}
	if c.Diversity.MaxLanguageCategories < 2 {
		return fmt.Errorf("%w: diversity.max_language_categories", ErrInvalidCap)
	}
	if c.AI.BurstMinRun < 2 {
		return fmt.Errorf("%w: ai.burst_min_run", ErrInvalidThresholds)
	}

	if !(0 <= c.AI.BucketLight && c.AI.BucketLight <= c.AI.BucketModerate &&
		c.AI.BucketModerate <= c.AI.BucketHeavy && c.AI.BucketHeavy <= 100) {
		return fmt.Errorf("%w: ai buckets", ErrInvalidThresholds)
	}
	h := c.AI.Heuristics
	if h.GenericAction < 0 || h.VerboseSubject < 0 || h.DetailedScope < 0 || h.ImplementPrefix < 0 || h.ArticlePrefix < 0 {
		return fmt.Errorf("%w: ai.heuristics", ErrInvalidWeights)
	}
	if !(c.AI.HeuristicCommitScore > 0 && c.AI.HeuristicCommitScore <= 1) ||
		!(c.AI.HeuristicEvidenceScore > 0 && c.AI.HeuristicEvidenceScore <= 100) {
		return fmt.Errorf("%w: ai heuristic thresholds", ErrInvalidThresholds)
	}
	if c.AI.PrefixRunes < 1 || c.AI.PrefixMinRun < 2 {
		return fmt.Errorf("%w: ai prefix run", ErrInvalidThresholds)
	}
	if c.Collaboration.OrgBonusPerOrg < 0 || c.Collaboration.OrgBonusMax < 0 ||
		c.AI.ConfigFileBonus < 0 || c.AI.ConfigFileBonusMax < 0 {
		return fmt.Errorf("%w: bonuses must be non-negative", ErrInvalidThresholds)
	}

	cl := c.Classifier
	if cl.MaxAlternatives < 0 || cl.MaxAlternatives > 2 {
		return fmt.Errorf("%w: classifier.max_alternatives", ErrInvalidThresholds)
	}
	if cl.ConfidenceBase < 0 || cl.ConfidenceBase > 1 || cl.FallbackConfidence < 0 || cl.FallbackConfidence > 1 {
		return fmt.Errorf("%w: classifier confidence", ErrInvalidThresholds)
	}
	if cl.CloseThreshold < 0 || cl.AffinityFloor < 0 || cl.BonusCap < 0 {
		return fmt.Errorf("%w: classifier", ErrInvalidThresholds)
	}
	if c.Tags.YoungAccountDays <= 0 || c.Tags.VeteranAccountDays < c.Tags.YoungAccountDays {
		return fmt.Errorf("%w: tags", ErrInvalidThresholds)
	}

	return nil
}

func checkWeights(group string, weights ...float64) error {
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: %s", ErrInvalidWeights, group)
		}
		total += w
	}
	if math.Abs(total-1) > weightTolerance {
		return fmt.Errorf("%w: %s", ErrInvalidWeights, group)
	}
	return nil
}
