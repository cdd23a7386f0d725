package analysis

import (
	"math"
	"sort"
)

// ArchetypeID identifies one of the fixed behavioral archetypes.
type ArchetypeID string

const (
	ArchetypeAIIndieHacker        ArchetypeID = "ai_indie_hacker"
	ArchetypeOpenSourceMaintainer ArchetypeID = "open_source_maintainer"
	ArchetypeFullStackPolyglot    ArchetypeID = "full_stack_polyglot"
	ArchetypeBackendArchitect     ArchetypeID = "backend_architect"
	ArchetypeFrontendCraftsman    ArchetypeID = "frontend_craftsman"
	ArchetypeDevOpsSpecialist     ArchetypeID = "devops_specialist"
	ArchetypeDataScientist        ArchetypeID = "data_scientist"
	ArchetypeSecuritySentinel     ArchetypeID = "security_sentinel"
	ArchetypeRisingDeveloper      ArchetypeID = "rising_developer"
	ArchetypeCodeExplorer         ArchetypeID = "code_explorer"
)

// FallbackArchetype is returned when no archetype clears the affinity floor.
const FallbackArchetype = ArchetypeCodeExplorer

type dimensionWeights struct {
	Activity       float64
	Collaboration  float64
	StackDiversity float64
	AISavviness    float64
}

func (w dimensionWeights) apply(s DimensionScores) float64 {
	return w.Activity*s.Activity +
		w.Collaboration*s.Collaboration +
		w.StackDiversity*s.StackDiversity +
		w.AISavviness*s.AISavviness
}

type bonusRule struct {
	match func(Tags) bool
	delta float64
}

type archetypeDef struct {
	ID          ArchetypeID
	Name        string
	Description string
	Weights     dimensionWeights
	Bonuses     []bonusRule
}

func ecosystemIs(eco ...Ecosystem) func(Tags) bool {
	return func(t Tags) bool {
		for _, e := range eco {
			if t.Ecosystem == e {
				return true
			}
		}
		return false
	}
}

func negate(f func(Tags) bool) func(Tags) bool {
	return func(t Tags) bool { return !f(t) }
}

func ageIs(a AgeBucket) func(Tags) bool {
	return func(t Tags) bool { return t.Age == a }
}

var (
	hasSecurity = func(t Tags) bool { return t.Security }
	hasDevOps   = func(t Tags) bool { return t.DevOps }
)

// archetypeTable is in priority order: on equal affinity the earlier entry wins.
var archetypeTable = []archetypeDef{
	{
		ID:          ArchetypeAIIndieHacker,
		Name:        "AI-Driven Indie Hacker",
		Description: "High AI usage, high activity, low collaboration",
		Weights:     dimensionWeights{AISavviness: 0.45, Activity: 0.40, StackDiversity: 0.15, Collaboration: -0.25},
	},
	{
		ID:          ArchetypeOpenSourceMaintainer,
		Name:        "Open Source Maintainer",
		Description: "High collaboration, high activity, community-focused developer",
		Weights:     dimensionWeights{Collaboration: 0.45, Activity: 0.35, StackDiversity: 0.10, AISavviness: 0.10},
	},
	{
		ID:          ArchetypeFullStackPolyglot,
		Name:        "Full-Stack Polyglot",
		Description: "High stack diversity, well-rounded skills across many technologies",
		Weights:     dimensionWeights{StackDiversity: 0.50, Activity: 0.25, Collaboration: 0.15, AISavviness: 0.10},
		Bonuses: []bonusRule{
			{match: ecosystemIs(EcosystemFullStack), delta: 10},
		},
	},
	{
		ID:          ArchetypeBackendArchitect,
		Name:        "Backend Architect",
		Description: "Systems-focused with strong backend and infrastructure skills",
		Weights:     dimensionWeights{Activity: 0.35, Collaboration: 0.25, StackDiversity: 0.25, AISavviness: 0.15},
		Bonuses: []bonusRule{
			{match: ecosystemIs(EcosystemBackend), delta: 12},
			{match: negate(ecosystemIs(EcosystemBackend, EcosystemFullStack)), delta: -20},
		},
	},
	{
		ID:          ArchetypeFrontendCraftsman,
		Name:        "Frontend Craftsman",
		Description: "UI/UX focused developer with modern frontend framework expertise",
		Weights:     dimensionWeights{StackDiversity: 0.35, Activity: 0.35, Collaboration: 0.15, AISavviness: 0.15},
		Bonuses: []bonusRule{
			{match: ecosystemIs(EcosystemFrontend), delta: 12},
			{match: ecosystemIs(EcosystemFullStack), delta: 6},
			{match: negate(ecosystemIs(EcosystemFrontend, EcosystemFullStack)), delta: -20},
		},
	},
	{
		ID:          ArchetypeDevOpsSpecialist,
		Name:        "DevOps & Infrastructure Expert",
		Description: "Infrastructure-focused with CI/CD, cloud, and containerization expertise",
		Weights:     dimensionWeights{Activity: 0.35, StackDiversity: 0.30, Collaboration: 0.20, AISavviness: 0.15},
		Bonuses: []bonusRule{
			{match: hasDevOps, delta: 12},
			{match: negate(hasDevOps), delta: -20},
		},
	},
	{
		ID:          ArchetypeDataScientist,
		Name:        "Data Science Specialist",
		Description: "Python/R focused with ML/AI framework usage",
		Weights:     dimensionWeights{AISavviness: 0.35, StackDiversity: 0.25, Activity: 0.25, Collaboration: 0.15},
		Bonuses: []bonusRule{
			{match: ecosystemIs(EcosystemDataScience), delta: 12},
			{match: negate(ecosystemIs(EcosystemDataScience)), delta: -20},
		},
	},
	{
		ID:          ArchetypeSecuritySentinel,
		Name:        "Security Sentinel",
		Description: "Security-focused developer with vulnerability research or security tooling",
		Weights:     dimensionWeights{Activity: 0.35, Collaboration: 0.25, StackDiversity: 0.25, AISavviness: 0.15},
		Bonuses: []bonusRule{
			{match: hasSecurity, delta: 15},
			{match: negate(hasSecurity), delta: -25},
		},
	},
	{
		ID:          ArchetypeRisingDeveloper,
		Name:        "Rising Developer",
		Description: "Growing activity, learning phase, building momentum",
		Weights:     dimensionWeights{Activity: 0.50, StackDiversity: 0.20, AISavviness: 0.20, Collaboration: 0.10},
		Bonuses: []bonusRule{
			{match: ageIs(AgeYoung), delta: 15},
			{match: ageIs(AgeVeteran), delta: -10},
		},
	},
	{
		ID:          ArchetypeCodeExplorer,
		Name:        "Code Explorer",
		Description: "Diverse interests, experimental approach, exploring the ecosystem",
		Weights:     dimensionWeights{StackDiversity: 0.35, Activity: 0.35, AISavviness: 0.15, Collaboration: 0.15},
	},
}

// ArchetypeInfo is the public catalogue entry of one archetype.
type ArchetypeInfo struct {
	ID          ArchetypeID `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
}

// Archetypes returns the catalogue in priority order.
func Archetypes() []ArchetypeInfo {
	out := make([]ArchetypeInfo, 0, len(archetypeTable))
	for _, a := range archetypeTable {
		out = append(out, ArchetypeInfo{ID: a.ID, Name: a.Name, Description: a.Description})
	}
	return out
}

func archetypeIndex(id ArchetypeID) int {
	for i, a := range archetypeTable {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// Classifier maps dimension scores and tags onto one archetype.
type Classifier struct {
	cfg ClassifierConfig
}

func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify scores every archetype and selects the primary plus close alternatives.
func (c *Classifier) Classify(scores DimensionScores, tags Tags) ArchetypeResult {
	return c.selectArchetype(c.affinities(scores, tags))
}

// affinities returns one affinity per archetypeTable entry, in table order.
func (c *Classifier) affinities(scores DimensionScores, tags Tags) []float64 {
	out := make([]float64, len(archetypeTable))
	for i, a := range archetypeTable {
		bonus := 0.0
		for _, rule := range a.Bonuses {
			if rule.match(tags) {
				bonus += rule.delta
			}
		}
		base := a.Weights.apply(scores)
		bonus = clip(bonus, -c.cfg.BonusCap, c.cfg.BonusCap)
		// A bonus can at most double the dimension evidence, so tags alone
		// never clear the affinity floor.
		if bonus > 0 {
			bonus = math.Min(bonus, math.Max(base, 0))
		}
		out[i] = clip(base+bonus, 0, 100)
	}
	return out
}

type rankedArchetype struct {
	index    int
	affinity float64
}

func (c *Classifier) selectArchetype(affinities []float64) ArchetypeResult {
	ranked := make([]rankedArchetype, len(affinities))
	for i, a := range affinities {
		ranked[i] = rankedArchetype{index: i, affinity: a}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].affinity > ranked[j].affinity
	})

	if len(ranked) == 0 || !(ranked[0].affinity >= c.cfg.AffinityFloor) {
		return newArchetypeResult(archetypeIndex(FallbackArchetype), c.cfg.FallbackConfidence, []ArchetypeID{})
	}

	top := ranked[0]
	margin := top.affinity
	if len(ranked) > 1 {
		margin = top.affinity - ranked[1].affinity
	}
	base := c.cfg.ConfidenceBase
	confidence := base + (1-base)*(1-math.Exp(-margin/c.cfg.ConfidenceMarginScale))

	alternatives := make([]ArchetypeID, 0, c.cfg.MaxAlternatives)
	for _, r := range ranked[1:] {
		if len(alternatives) >= c.cfg.MaxAlternatives {
			break
		}
		if r.affinity < c.cfg.AffinityFloor || top.affinity-r.affinity > c.cfg.CloseThreshold {
			break
		}
		alternatives = append(alternatives, archetypeTable[r.index].ID)
	}

	return newArchetypeResult(top.index, clip(confidence, 0, 1), alternatives)
}

func newArchetypeResult(index int, confidence float64, alternatives []ArchetypeID) ArchetypeResult {
	a := archetypeTable[index]
	return ArchetypeResult{
		ID:           a.ID,
		Name:         a.Name,
		Description:  a.Description,
		Confidence:   confidence,
		Alternatives: alternatives,
	}
}
