package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// InvalidSignalError reports a malformed input field. Field is the top-level
// signal name only; offending values are never carried.
type InvalidSignalError struct {
	Field string
}

func (e *InvalidSignalError) Error() string {
	if e.Field == "" {
		return "invalid profile signals: malformed document"
	}
	return fmt.Sprintf("invalid profile signals: field %q", e.Field)
}

// InvariantError reports an output that left its documented bounds. It is a
// defect in the engine, not a caller error.
type InvariantError struct {
	Field string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("output invariant violated: %s", e.Field)
}

// DecodeSignals parses a ProfileSignals JSON document. Type mismatches are
// reported as *InvalidSignalError naming the top-level field. Individual
// commit entries never fail decoding; see CommitRecord.UnmarshalJSON.
func DecodeSignals(data []byte) (ProfileSignals, error) {
	var sig ProfileSignals
	if len(bytes.TrimSpace(data)) == 0 {
		return sig, &InvalidSignalError{}
	}
	if err := json.Unmarshal(data, &sig); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return ProfileSignals{}, &InvalidSignalError{Field: topLevelField(typeErr.Field)}
		}
		return ProfileSignals{}, &InvalidSignalError{}
	}
	return sig, nil
}

// UnmarshalJSON decodes one commit leniently. A field of the wrong type is
// left empty and an entry that is not an object becomes an empty record, so
// a malformed commit still counts toward the window but never fails the call.
// A single co-author string is accepted as a one-element list.
func (c *CommitRecord) UnmarshalJSON(data []byte) error {
	*c = CommitRecord{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	for key, raw := range fields {
		switch strings.ToLower(key) {
		case "timestamp":
			c.Timestamp = lenientString(raw)
		case "message":
			c.Message = lenientString(raw)
		case "co_authors":
			c.CoAuthors = lenientStrings(raw)
		}
	}
	return nil
}

func lenientString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func lenientStrings(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := lenientString(raw); s != "" {
			return []string{s}
		}
		return nil
	}
	var out []string
	for _, item := range items {
		if s := lenientString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func topLevelField(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

func validateSignals(s ProfileSignals) error {
	counts := []struct {
		field string
		value int
	}{
		{"commit_count", s.CommitCount},
		{"active_days", s.ActiveDays},
		{"streak_days", s.StreakDays},
		{"repo_count", s.RepoCount},
		{"pr_opened", s.PROpened},
		{"pr_merged", s.PRMerged},
		{"issues_opened", s.IssuesOpened},
		{"reviews_given", s.ReviewsGiven},
		{"forks_received", s.ForksReceived},
		{"org_count", s.OrgCount},
	}
	for _, c := range counts {
		if c.value < 0 {
			return &InvalidSignalError{Field: c.field}
		}
	}

	if !validAge(s.LastCommitAgeDays) {
		return &InvalidSignalError{Field: "last_commit_age_days"}
	}
	if !validAge(s.AccountAgeDays) {
		return &InvalidSignalError{Field: "account_age_days"}
	}
	for _, b := range s.Languages {
		if b < 0 {
			return &InvalidSignalError{Field: "languages"}
		}
	}
	return nil
}

func validAge(days float64) bool {
	return !math.IsNaN(days) && !math.IsInf(days, 0) && days >= 0
}

var (
	knownToolIDs    = toolIDSet()
	knownConfigFile = stringSet(aiConfigFiles...)
)

func toolIDSet() map[string]struct{} {
	ids := make(map[string]struct{}, len(aiTools))
	for _, t := range aiTools {
		ids[t.ID] = struct{}{}
	}
	return ids
}

// checkResult verifies every output bound. A failure here is a bug.
func (e *Engine) checkResult(r Result) error {
	scores := []struct {
		field string
		value float64
	}{
		{"scores.activity", r.Scores.Activity},
		{"scores.collaboration", r.Scores.Collaboration},
		{"scores.stack_diversity", r.Scores.StackDiversity},
		{"scores.ai_savviness", r.Scores.AISavviness},
		{"ai_analysis.burst_score", r.AIAnalysis.BurstScore},
		{"ai_analysis.indicator", r.AIAnalysis.Indicator},
		{"ai_analysis.composite", r.AIAnalysis.Composite},
		{"ai_analysis.ai_percentage", r.AIAnalysis.AIPercentage},
		{"ai_analysis.heuristic_score", r.AIAnalysis.HeuristicScore},
	}
	for _, s := range scores {
		if !inRange(s.value, 0, 100) {
			return &InvariantError{Field: s.field}
		}
	}

	for _, id := range r.AIAnalysis.DetectedTools {
		if _, ok := knownToolIDs[id]; !ok {
			return &InvariantError{Field: "ai_analysis.detected_tools"}
		}
	}
	analyzed := r.AIAnalysis.CommitsAnalyzed
	for id, n := range r.AIAnalysis.ToolMentions {
		if _, ok := knownToolIDs[id]; !ok || n < 1 || n > analyzed {
			return &InvariantError{Field: "ai_analysis.tool_mentions"}
		}
	}
	for id, n := range r.AIAnalysis.CoAuthorBots {
		if !isKnownBot(id) || n < 1 || n > analyzed {
			return &InvariantError{Field: "ai_analysis.co_author_bots"}
		}
	}
	if p := r.AIAnalysis.RepetitivePrefixCommits; p < 0 || p > analyzed {
		return &InvariantError{Field: "ai_analysis.repetitive_prefix_commits"}
	}
	for _, f := range r.AIAnalysis.ConfigFilesDetected {
		if _, ok := knownConfigFile[f]; !ok {
			return &InvariantError{Field: "ai_analysis.config_files_detected"}
		}
	}

	a := r.Archetype
	if archetypeIndex(a.ID) < 0 {
		return &InvariantError{Field: "archetype.id"}
	}
	if !inRange(a.Confidence, 0, 1) {
		return &InvariantError{Field: "archetype.confidence"}
	}
	if len(a.Alternatives) > e.cfg.Classifier.MaxAlternatives {
		return &InvariantError{Field: "archetype.alternatives"}
	}
	for _, alt := range a.Alternatives {
		if alt == a.ID || archetypeIndex(alt) < 0 {
			return &InvariantError{Field: "archetype.alternatives"}
		}
	}
	return nil
}
