package analysis

import "sort"

const maxTeamLanguages = 10

type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// TeamSummary aggregates member results without identifying any member.
type TeamSummary struct {
	TeamSize              int                 `json:"team_size"`
	AverageScores         DimensionScores     `json:"average_scores"`
	ArchetypeDistribution map[ArchetypeID]int `json:"archetype_distribution"`
	AIAdoptionRate        float64             `json:"ai_adoption_rate"`
	AIToolUsage           map[string]int      `json:"ai_tool_usage"`
	TopLanguages          []LanguageCount     `json:"top_languages"`
}

// SummarizeTeam folds member results into one TeamSummary. Languages are
// counted once per member from each member's tech profile.
func SummarizeTeam(results []Result) TeamSummary {
	summary := TeamSummary{
		ArchetypeDistribution: make(map[ArchetypeID]int),
		AIToolUsage:           make(map[string]int),
		TopLanguages:          []LanguageCount{},
	}
	if len(results) == 0 {
		return summary
	}

	var sum DimensionScores
	languages := make(map[string]int)
	aiUsers := 0

	for _, r := range results {
		sum.Activity += r.Scores.Activity
		sum.Collaboration += r.Scores.Collaboration
		sum.StackDiversity += r.Scores.StackDiversity
		sum.AISavviness += r.Scores.AISavviness

		summary.ArchetypeDistribution[r.Archetype.ID]++

		for _, tool := range r.AIAnalysis.DetectedTools {
			summary.AIToolUsage[tool]++
		}
		if len(r.AIAnalysis.DetectedTools) > 0 {
			aiUsers++
		}

		for _, lang := range r.TechProfile.Languages {
			languages[lang]++
		}
	}

	n := float64(len(results))
	summary.TeamSize = len(results)
	summary.AverageScores = DimensionScores{
		Activity:       sum.Activity / n,
		Collaboration:  sum.Collaboration / n,
		StackDiversity: sum.StackDiversity / n,
		AISavviness:    sum.AISavviness / n,
	}
	summary.AIAdoptionRate = 100 * float64(aiUsers) / n

	for lang, count := range languages {
		summary.TopLanguages = append(summary.TopLanguages, LanguageCount{Language: lang, Count: count})
	}
	sort.Slice(summary.TopLanguages, func(i, j int) bool {
		a, b := summary.TopLanguages[i], summary.TopLanguages[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Language < b.Language
	})
	if len(summary.TopLanguages) > maxTeamLanguages {
		summary.TopLanguages = summary.TopLanguages[:maxTeamLanguages]
	}

	return summary
}
