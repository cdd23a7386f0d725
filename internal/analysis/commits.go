package analysis

import (
	"math"
	"sort"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// CommitAnalyzer scans a commit window for AI-tool indicators and abnormal
// commit-burst timing. Malformed entries are excluded from timing, never fatal.
type CommitAnalyzer struct {
	cfg AIConfig
}

// NewCommitAnalyzer creates an analyzer bound to the given thresholds.
func NewCommitAnalyzer(cfg AIConfig) *CommitAnalyzer {
	return &CommitAnalyzer{cfg: cfg}
}

// Analyze builds the AIAnalysis for one commit window plus the repository
// file paths observed upstream.
func (a *CommitAnalyzer) Analyze(commits []CommitRecord, configFiles []string) AIAnalysis {
	total := len(commits)
	scan := a.scanCommits(commits)
	inBursts := a.detectBursts(commits)

	res := AIAnalysis{
		DetectedTools:           scan.tools,
		ConfigFilesDetected:     matchConfigFiles(configFiles),
		CommitsAnalyzed:         total,
		AISignalCommits:         scan.signalCommits,
		CommitsInBursts:         inBursts,
		ToolMentions:            scan.mentions,
		CoAuthorBots:            scan.bots,
		CoAuthors:               scan.coAuthors,
		RepetitivePrefixCommits: a.repetitivePrefixRun(commits),
	}

	density := 0.0
	if total > 0 {
		density = float64(scan.toolCommits) / float64(total)
		res.AIPercentage = clip(100*float64(scan.signalCommits)/float64(total), 0, 100)
		res.BurstScore = LogScale(100*float64(inBursts)/float64(total), 100)
		res.HeuristicScore = clip(100*scan.heuristicTotal/float64(total), 0, 100)
	}

	res.Indicator = clip(a.cfg.ToolWeight*LogScale(100*density, 100)+a.cfg.BurstWeight*res.BurstScore, 0, 100)
	res.Composite = clip(res.Indicator+a.cfg.configBonus(len(res.ConfigFilesDetected)), 0, 100)
	res.OverallBucket = a.bucketFor(res.Composite)

	styled := res.HeuristicScore >= a.cfg.HeuristicEvidenceScore || res.RepetitivePrefixCommits > 0
	res.Confidence = a.confidenceFor(density, res.BurstScore, len(res.ConfigFilesDetected), styled)

	return res
}

// commitScan tallies the message and co-author evidence of a commit window.
type commitScan struct {
	tools          []string
	mentions       map[string]int
	bots           map[string]int
	coAuthors      []CoAuthor
	toolCommits    int
	signalCommits  int
	heuristicTotal float64
}

// scanCommits matches every commit's message and co-authors against the
// tool and bot vocabularies and scores its message style. A commit carries
// an AI signal when it names a tool, uses a generic AI phrase, or its
// message heuristic reaches HeuristicCommitScore.
func (a *CommitAnalyzer) scanCommits(commits []CommitRecord) commitScan {
	scan := commitScan{
		mentions:  make(map[string]int),
		bots:      make(map[string]int),
		coAuthors: make([]CoAuthor, 0),
	}
	seen := make(map[CoAuthor]struct{})

	for _, c := range commits {
		authors := commitCoAuthors(c)

		hasTool := false
		for _, tool := range aiTools {
			if mentionsTool(c.Message, authors, tool) {
				scan.mentions[tool.ID]++
				hasTool = true
			}
		}
		for id := range botsAmong(authors) {
			scan.bots[id]++
		}
		for _, ca := range authors {
			if _, dup := seen[ca]; !dup {
				seen[ca] = struct{}{}
				scan.coAuthors = append(scan.coAuthors, ca)
			}
		}

		h := a.heuristicScore(c.Message)
		scan.heuristicTotal += h

		if hasTool {
			scan.toolCommits++
		}
		if hasTool || genericAIPattern.MatchString(c.Message) || h >= a.cfg.HeuristicCommitScore {
			scan.signalCommits++
		}
	}

	scan.tools = make([]string, 0, len(scan.mentions))
	for id := range scan.mentions {
		scan.tools = append(scan.tools, id)
	}
	sort.Strings(scan.tools)
	return scan
}

func mentionsTool(message string, authors []CoAuthor, tool aiTool) bool {
	if tool.Pattern.MatchString(message) {
		return true
	}
	for _, ca := range authors {
		if tool.Pattern.MatchString(ca.String()) {
			return true
		}
	}
	return false
}

// commitCoAuthors returns the declared co-authors followed by those named in
// Co-authored-by trailers, in order of appearance.
func commitCoAuthors(c CommitRecord) []CoAuthor {
	out := make([]CoAuthor, 0, len(c.CoAuthors))
	for _, raw := range c.CoAuthors {
		if ca, ok := parseCoAuthor(raw); ok {
			out = append(out, ca)
		}
	}
	for _, m := range coAuthorTrailer.FindAllStringSubmatch(c.Message, -1) {
		ca := CoAuthor{Name: strings.TrimSpace(m[1]), Email: strings.TrimSpace(m[2])}
		if ca != (CoAuthor{}) {
			out = append(out, ca)
		}
	}
	return out
}

func parseCoAuthor(raw string) (CoAuthor, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CoAuthor{}, false
	}
	if m := coAuthorIdentity.FindStringSubmatch(raw); m != nil {
		ca := CoAuthor{Name: strings.TrimSpace(m[1]), Email: strings.TrimSpace(m[2])}
		return ca, ca != (CoAuthor{})
	}
	return CoAuthor{Name: raw}, true
}

// botsAmong returns the distinct bot IDs among one commit's co-authors.
func botsAmong(authors []CoAuthor) map[string]struct{} {
	found := make(map[string]struct{})
	for _, ca := range authors {
		s := ca.String()
		for _, bot := range coAuthorBots {
			if bot.Pattern.MatchString(s) {
				found[bot.ID] = struct{}{}
				break
			}
		}
	}
	return found
}

// heuristicScore sums the weights of the message styles a commit matches,
// capped at 1.
func (a *CommitAnalyzer) heuristicScore(message string) float64 {
	score := 0.0
	for _, h := range messageHeuristics {
		if h.Pattern.MatchString(message) {
			score += h.Weight(a.cfg.Heuristics)
		}
	}
	return math.Min(score, 1)
}

// repetitivePrefixRun returns the size of the largest group of commits whose
// subject lines share their first PrefixRunes characters, or 0 when that
// group is smaller than PrefixMinRun. Shorter subjects are ignored.
func (a *CommitAnalyzer) repetitivePrefixRun(commits []CommitRecord) int {
	counts := make(map[string]int)
	best := 0
	for _, c := range commits {
		subject, _, _ := strings.Cut(c.Message, "\n")
		runes := []rune(strings.ToLower(subject))
		if len(runes) < a.cfg.PrefixRunes {
			continue
		}
		prefix := string(runes[:a.cfg.PrefixRunes])
		counts[prefix]++
		if counts[prefix] > best {
			best = counts[prefix]
		}
	}
	if best < a.cfg.PrefixMinRun {
		return 0
	}
	return best
}

// detectBursts counts the commits that sit inside burst runs: maximal runs of
// time-sorted commits whose consecutive gaps are all below the burst gap and
// whose length reaches the minimum run size.
func (a *CommitAnalyzer) detectBursts(commits []CommitRecord) int {
	stamps := make([]time.Time, 0, len(commits))
	for _, c := range commits {
		if ts, ok := parseTimestamp(c.Timestamp); ok {
			stamps = append(stamps, ts)
		}
	}
	if len(stamps) < 2 {
		return 0
	}

	sort.SliceStable(stamps, func(i, j int) bool {
		return stamps[i].Before(stamps[j])
	})

	gap := time.Duration(a.cfg.BurstGapSeconds * float64(time.Second))
	inBursts := 0
	run := 1
	closeRun := func() {
		if run >= a.cfg.BurstMinRun {
			inBursts += run
		}
		run = 1
	}

	for i := 1; i < len(stamps); i++ {
		if stamps[i].Sub(stamps[i-1]) < gap {
			run++
			continue
		}
		closeRun()
	}
	closeRun()

	return inBursts
}

func (a *CommitAnalyzer) bucketFor(composite float64) Bucket {
	switch {
	case composite >= a.cfg.BucketHeavy:
		return BucketHeavy
	case composite >= a.cfg.BucketModerate:
		return BucketModerate
	case composite >= a.cfg.BucketLight:
		return BucketLight
	default:
		return BucketNone
	}
}

// confidenceFor counts independent evidence kinds and how many of them are
// strong. Message style is a weak kind: it is never strong on its own.
func (a *CommitAnalyzer) confidenceFor(toolDensity, burstScore float64, configFiles int, styled bool) Confidence {
	kinds, strong := 0, 0
	tally := func(present, isStrong bool) {
		if !present {
			return
		}
		kinds++
		if isStrong {
			strong++
		}
	}
	tally(toolDensity > 0, toolDensity >= a.cfg.StrongToolDensity)
	tally(burstScore > 0, burstScore >= a.cfg.StrongBurstScore)
	tally(configFiles > 0, configFiles >= a.cfg.StrongConfigFiles)
	tally(styled, false)

	switch {
	case kinds == 0:
		return ConfidenceLow
	case kinds == 1:
		if strong == 1 {
			return ConfidenceMedium
		}
		return ConfidenceLow
	case kinds == 2:
		if strong == 2 {
			return ConfidenceHigh
		}
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

func (c AIConfig) configBonus(files int) float64 {
	if files <= 0 {
		return 0
	}
	return clip(float64(files)*c.ConfigFileBonus, 0, c.ConfigFileBonusMax)
}
