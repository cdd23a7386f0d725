package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignals(t *testing.T) {
	tests := []struct {
		name    string
		signals ProfileSignals
		field   string
	}{
		{name: "zero value is valid", signals: ProfileSignals{}},
		{name: "negative commits", signals: ProfileSignals{CommitCount: -1}, field: "commit_count"},
		{name: "negative reviews", signals: ProfileSignals{ReviewsGiven: -3}, field: "reviews_given"},
		{name: "negative age", signals: ProfileSignals{LastCommitAgeDays: -0.5}, field: "last_commit_age_days"},
		{name: "NaN age", signals: ProfileSignals{LastCommitAgeDays: math.NaN()}, field: "last_commit_age_days"},
		{name: "infinite account age", signals: ProfileSignals{AccountAgeDays: math.Inf(1)}, field: "account_age_days"},
		{name: "negative language bytes", signals: ProfileSignals{Languages: map[string]int64{"secret-lang": -10}}, field: "languages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSignals(tt.signals)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var invalid *InvalidSignalError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
			assert.NotContains(t, err.Error(), "secret-lang")
		})
	}
}

func TestDecodeSignals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
		valid bool
	}{
		{name: "minimal document", input: `{}`, valid: true},
		{name: "missing fields default to zero", input: `{"commit_count": 5}`, valid: true},
		{name: "string for count", input: `{"commit_count": "many"}`, field: "commit_count"},
		{name: "fractional count", input: `{"pr_opened": 1.5}`, field: "pr_opened"},
		{name: "language value wrong type", input: `{"languages": {"Go": "lots"}}`, field: "languages"},
		{name: "commit timestamp wrong type", input: `{"commits": [{"timestamp": 12, "message": "hidden text"}]}`, valid: true},
		{name: "commits not a list", input: `{"commits": {"message": "hidden text"}}`, field: "commits"},
		{name: "commits a string", input: `{"commits": "hidden text"}`, field: "commits"},
		{name: "truncated document", input: `{"commit_count": `},
		{name: "empty body", input: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSignals([]byte(tt.input))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var invalid *InvalidSignalError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
			assert.NotContains(t, err.Error(), "hidden text")
			assert.NotContains(t, err.Error(), "lots")
		})
	}
}

func TestDecodeSignalsLenientCommits(t *testing.T) {
	input := `{"commits": [
		{"timestamp": "2025-03-01T09:00:00Z", "message": "wire auth", "co_authors": ["Claude <noreply@anthropic.com>", 7]},
		{"timestamp": 1700000000, "message": "fix"},
		"not an object",
		null,
		{"Message": "tidy", "co_authors": "Copilot <copilot@github.com>"},
		{"timestamp": "2025-03-01T10:00:00Z", "message": ["x"], "co_authors": {"name": "x"}}
	]}`

	sig, err := DecodeSignals([]byte(input))
	require.NoError(t, err)

	want := []CommitRecord{
		{Timestamp: "2025-03-01T09:00:00Z", Message: "wire auth", CoAuthors: []string{"Claude <noreply@anthropic.com>"}},
		{Message: "fix"},
		{},
		{},
		{Message: "tidy", CoAuthors: []string{"Copilot <copilot@github.com>"}},
		{Timestamp: "2025-03-01T10:00:00Z"},
	}
	assert.Equal(t, want, sig.Commits)
}

func TestCheckResultRejectsOutOfBounds(t *testing.T) {
	e := NewDefaultEngine()
	valid, err := e.Analyze(ProfileSignals{})
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(r *Result)
		field  string
	}{
		{name: "activity above 100", mutate: func(r *Result) { r.Scores.Activity = 100.5 }, field: "scores.activity"},
		{name: "NaN burst", mutate: func(r *Result) { r.AIAnalysis.BurstScore = math.NaN() }, field: "ai_analysis.burst_score"},
		{name: "unknown tool", mutate: func(r *Result) { r.AIAnalysis.DetectedTools = []string{"skynet"} }, field: "ai_analysis.detected_tools"},
		{name: "heuristic above 100", mutate: func(r *Result) { r.AIAnalysis.HeuristicScore = 101 }, field: "ai_analysis.heuristic_score"},
		{
			name:   "tool mentions exceed commits",
			mutate: func(r *Result) { r.AIAnalysis.ToolMentions = map[string]int{"claude": 1} },
			field:  "ai_analysis.tool_mentions",
		},
		{
			name:   "unknown bot",
			mutate: func(r *Result) { r.AIAnalysis.CommitsAnalyzed, r.AIAnalysis.CoAuthorBots = 1, map[string]int{"hal": 1} },
			field:  "ai_analysis.co_author_bots",
		},
		{
			name:   "prefix run exceeds commits",
			mutate: func(r *Result) { r.AIAnalysis.RepetitivePrefixCommits = 3 },
			field:  "ai_analysis.repetitive_prefix_commits",
		},
		{name: "confidence above 1", mutate: func(r *Result) { r.Archetype.Confidence = 1.2 }, field: "archetype.confidence"},
		{
			name:   "primary repeated as alternative",
			mutate: func(r *Result) { r.Archetype.Alternatives = []ArchetypeID{r.Archetype.ID} },
			field:  "archetype.alternatives",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			var inv *InvariantError
			require.True(t, errors.As(e.checkResult(r), &inv))
			assert.Equal(t, tt.field, inv.Field)
		})
	}
}
