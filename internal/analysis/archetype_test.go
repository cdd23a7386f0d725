package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// affinitiesWith returns table-length affinities with the given overrides.
func affinitiesWith(overrides map[ArchetypeID]float64) []float64 {
	out := make([]float64, len(archetypeTable))
	for id, v := range overrides {
		out[archetypeIndex(id)] = v
	}
	return out
}

func TestArchetypeTableShape(t *testing.T) {
	require.Len(t, archetypeTable, 10)
	assert.Equal(t, ArchetypeAIIndieHacker, archetypeTable[0].ID)
	assert.Equal(t, ArchetypeCodeExplorer, archetypeTable[len(archetypeTable)-1].ID)

	seen := make(map[ArchetypeID]bool)
	for _, a := range archetypeTable {
		assert.False(t, seen[a.ID], "duplicate archetype %s", a.ID)
		seen[a.ID] = true

		positive := 0.0
		for _, w := range []float64{a.Weights.Activity, a.Weights.Collaboration, a.Weights.StackDiversity, a.Weights.AISavviness} {
			if w > 0 {
				positive += w
			}
		}
		assert.InDelta(t, 1.0, positive, 1e-9, "positive weights of %s", a.ID)
		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.Description)
	}
}

func TestSelectArchetype(t *testing.T) {
	c := NewClassifier(DefaultConfig().Classifier)

	tests := []struct {
		name         string
		affinities   []float64
		expectedID   ArchetypeID
		alternatives []ArchetypeID
		confidence   float64
	}{
		{
			name: "close runner-up is an alternative",
			affinities: affinitiesWith(map[ArchetypeID]float64{
				ArchetypeBackendArchitect:     81.0,
				ArchetypeOpenSourceMaintainer: 80.9,
			}),
			expectedID:   ArchetypeBackendArchitect,
			alternatives: []ArchetypeID{ArchetypeOpenSourceMaintainer},
			confidence:   0.5 + 0.5*(1-0.99004983374916811),
		},
		{
			name: "distant runner-up is not",
			affinities: affinitiesWith(map[ArchetypeID]float64{
				ArchetypeDataScientist:  90,
				ArchetypeRisingDeveloper: 40,
			}),
			expectedID:   ArchetypeDataScientist,
			alternatives: []ArchetypeID{},
			confidence:   0.5 + 0.5*(1-0.006737946999085467),
		},
		{
			name: "ties resolve by table order",
			affinities: affinitiesWith(map[ArchetypeID]float64{
				ArchetypeCodeExplorer:      50,
				ArchetypeFullStackPolyglot: 50,
			}),
			expectedID:   ArchetypeFullStackPolyglot,
			alternatives: []ArchetypeID{ArchetypeCodeExplorer},
			confidence:   0.5,
		},
		{
			name: "at most two alternatives",
			affinities: affinitiesWith(map[ArchetypeID]float64{
				ArchetypeSecuritySentinel:     60,
				ArchetypeDevOpsSpecialist:     59,
				ArchetypeBackendArchitect:     58,
				ArchetypeOpenSourceMaintainer: 57,
			}),
			expectedID:   ArchetypeSecuritySentinel,
			alternatives: []ArchetypeID{ArchetypeDevOpsSpecialist, ArchetypeBackendArchitect},
			confidence:   0.5 + 0.5*(1-0.9048374180359595),
		},
		{
			name: "alternatives must clear the floor",
			affinities: affinitiesWith(map[ArchetypeID]float64{
				ArchetypeRisingDeveloper: 16,
				ArchetypeCodeExplorer:    14,
			}),
			expectedID:   ArchetypeRisingDeveloper,
			alternatives: []ArchetypeID{},
			confidence:   0.5 + 0.5*(1-0.8187307530779818),
		},
		{
			name:         "below floor falls back",
			affinities:   affinitiesWith(map[ArchetypeID]float64{ArchetypeAIIndieHacker: 14.9}),
			expectedID:   FallbackArchetype,
			alternatives: []ArchetypeID{},
			confidence:   0,
		},
		{
			name:         "all zero falls back",
			affinities:   affinitiesWith(nil),
			expectedID:   FallbackArchetype,
			alternatives: []ArchetypeID{},
			confidence:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.selectArchetype(tt.affinities)
			assert.Equal(t, tt.expectedID, got.ID)
			assert.Equal(t, tt.alternatives, got.Alternatives)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
			assert.NotContains(t, got.Alternatives, got.ID)
			assert.NotEmpty(t, got.Name)
		})
	}
}

func TestClassifyBackendProfile(t *testing.T) {
	c := NewClassifier(DefaultConfig().Classifier)
	scores := DimensionScores{Activity: 60, Collaboration: 40, StackDiversity: 40, AISavviness: 10}

	got := c.Classify(scores, Tags{Ecosystem: EcosystemBackend, Age: AgeUnknown})

	assert.Equal(t, ArchetypeBackendArchitect, got.ID)
	assert.Empty(t, got.Alternatives)
	assert.InDelta(t, 0.5+0.5*(1-0.34993774911115527), got.Confidence, 1e-9)
}

func TestAffinitiesApplyBonuses(t *testing.T) {
	scores := DimensionScores{Activity: 60, Collaboration: 40, StackDiversity: 40, AISavviness: 10}
	backend := archetypeIndex(ArchetypeBackendArchitect)
	frontend := archetypeIndex(ArchetypeFrontendCraftsman)
	rising := archetypeIndex(ArchetypeRisingDeveloper)

	t.Run("ecosystem bonus and penalty", func(t *testing.T) {
		c := NewClassifier(DefaultConfig().Classifier)
		aff := c.affinities(scores, Tags{Ecosystem: EcosystemBackend})
		assert.InDelta(t, 54.5, aff[backend], 1e-9)
		assert.InDelta(t, 22.5, aff[frontend], 1e-9)
	})

	t.Run("bonus cap", func(t *testing.T) {
		cfg := DefaultConfig().Classifier
		cfg.BonusCap = 5
		c := NewClassifier(cfg)
		aff := c.affinities(scores, Tags{Ecosystem: EcosystemBackend})
		assert.InDelta(t, 47.5, aff[backend], 1e-9)
		assert.InDelta(t, 37.5, aff[frontend], 1e-9)
	})

	t.Run("account age", func(t *testing.T) {
		c := NewClassifier(DefaultConfig().Classifier)
		young := c.affinities(scores, Tags{Age: AgeYoung})
		veteran := c.affinities(scores, Tags{Age: AgeVeteran})
		assert.InDelta(t, 59.0, young[rising], 1e-9)
		assert.InDelta(t, 34.0, veteran[rising], 1e-9)
	})

	t.Run("bonus limited by dimension evidence", func(t *testing.T) {
		c := NewClassifier(DefaultConfig().Classifier)
		zero := c.affinities(DimensionScores{}, Tags{Ecosystem: EcosystemBackend, Age: AgeYoung, Security: true, DevOps: true})
		for _, a := range zero {
			assert.Equal(t, 0.0, a)
		}

		weak := c.affinities(DimensionScores{Activity: 10}, Tags{Age: AgeYoung})
		base := archetypeTable[rising].Weights.Activity * 10
		assert.InDelta(t, 2*base, weak[rising], 1e-9)
	})

	t.Run("affinities stay in bounds", func(t *testing.T) {
		c := NewClassifier(DefaultConfig().Classifier)
		top := DimensionScores{Activity: 100, Collaboration: 100, StackDiversity: 100, AISavviness: 100}
		for _, tags := range []Tags{{}, {Ecosystem: EcosystemFullStack, Age: AgeYoung, Security: true, DevOps: true}} {
			for _, a := range c.affinities(top, tags) {
				assert.GreaterOrEqual(t, a, 0.0)
				assert.LessOrEqual(t, a, 100.0)
			}
			for _, a := range c.affinities(DimensionScores{}, tags) {
				assert.GreaterOrEqual(t, a, 0.0)
			}
		}
	})
}

func TestClassifyTagsAloneFallBack(t *testing.T) {
	c := NewClassifier(DefaultConfig().Classifier)

	got := c.Classify(DimensionScores{}, Tags{Ecosystem: EcosystemFullStack, Age: AgeYoung, Security: true, DevOps: true})

	assert.Equal(t, FallbackArchetype, got.ID)
	assert.Equal(t, 0.0, got.Confidence)
	assert.Empty(t, got.Alternatives)
}

func TestArchetypesCatalogue(t *testing.T) {
	catalogue := Archetypes()
	require.Len(t, catalogue, len(archetypeTable))
	for i, a := range catalogue {
		assert.Equal(t, archetypeTable[i].ID, a.ID)
	}
	assert.Equal(t, -1, archetypeIndex("wizard"))
}
