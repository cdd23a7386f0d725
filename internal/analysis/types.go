package analysis

// ProfileSignals is the normalized, already-fetched input for one engine call.
// Missing numeric fields are zero.
type ProfileSignals struct {
	CommitCount       int              `json:"commit_count"`
	ActiveDays        int              `json:"active_days"`
	StreakDays        int              `json:"streak_days"`
	LastCommitAgeDays float64          `json:"last_commit_age_days"`
	RepoCount         int              `json:"repo_count"`
	PROpened          int              `json:"pr_opened"`
	PRMerged          int              `json:"pr_merged"`
	IssuesOpened      int              `json:"issues_opened"`
	ReviewsGiven      int              `json:"reviews_given"`
	ForksReceived     int              `json:"forks_received"`
	OrgCount          int              `json:"org_count"`
	AccountAgeDays    float64          `json:"account_age_days"`
	Languages         map[string]int64 `json:"languages"`
	Topics            []string         `json:"topics"`
	ConfigFiles       []string         `json:"config_files"`
	Commits           []CommitRecord   `json:"commits"`
}

// CommitRecord is one commit's metadata. Timestamp is kept as text so that
// unparseable values can be excluded from timing without failing the call.
type CommitRecord struct {
	Timestamp string   `json:"timestamp"`
	Message   string   `json:"message"`
	CoAuthors []string `json:"co_authors"`
}

type DimensionScores struct {
	Activity       float64 `json:"activity"`
	Collaboration  float64 `json:"collaboration"`
	StackDiversity float64 `json:"stack_diversity"`
	AISavviness    float64 `json:"ai_savviness"`
}

// Bucket is a discretized AI-usage intensity band.
type Bucket string

const (
	BucketNone     Bucket = "none"
	BucketLight    Bucket = "light"
	BucketModerate Bucket = "moderate"
	BucketHeavy    Bucket = "heavy"
)

// Confidence is the evidence level behind an AI-usage estimate.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

type AIAnalysis struct {
	OverallBucket       Bucket     `json:"overall_bucket"`
	DetectedTools       []string   `json:"detected_tools"`
	Confidence          Confidence `json:"confidence"`
	BurstScore          float64    `json:"burst_score"`
	ConfigFilesDetected []string   `json:"config_files_detected"`

	// Indicator is the commit-only composite (tool density and bursts).
	Indicator float64 `json:"indicator"`
	// Composite is Indicator plus the config-file bonus; it is what gets bucketed.
	Composite       float64 `json:"composite"`
	CommitsAnalyzed int     `json:"commits_analyzed"`
	AISignalCommits int     `json:"ai_signal_commits"`
	AIPercentage    float64 `json:"ai_percentage"`
	CommitsInBursts int     `json:"commits_in_bursts"`

	// ToolMentions counts, per detected tool ID, the commits naming it.
	ToolMentions map[string]int `json:"tool_mentions"`
	// CoAuthorBots counts, per automation bot ID, the commits it co-authored.
	CoAuthorBots map[string]int `json:"co_author_bots"`
	CoAuthors    []CoAuthor     `json:"co_authors"`
	// HeuristicScore is the mean per-commit message heuristic, scaled to [0,100].
	HeuristicScore          float64 `json:"heuristic_score"`
	RepetitivePrefixCommits int     `json:"repetitive_prefix_commits"`
}

// CoAuthor is one co-author identity, declared on the commit or parsed from a
// Co-authored-by trailer. Email is empty when none was given.
type CoAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (c CoAuthor) String() string {
	switch {
	case c.Email == "":
		return c.Name
	case c.Name == "":
		return "<" + c.Email + ">"
	default:
		return c.Name + " <" + c.Email + ">"
	}
}

type ArchetypeResult struct {
	ID           ArchetypeID   `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Confidence   float64       `json:"confidence"`
	Alternatives []ArchetypeID `json:"alternatives"`
}

type TechProfile struct {
	Languages        []string  `json:"languages"`
	Frameworks       []string  `json:"frameworks"`
	PrimaryEcosystem Ecosystem `json:"primary_ecosystem"`
}

// Result is the composite output of one engine call.
type Result struct {
	Scores      DimensionScores `json:"scores"`
	AIAnalysis  AIAnalysis      `json:"ai_analysis"`
	Archetype   ArchetypeResult `json:"archetype"`
	TechProfile TechProfile     `json:"tech_profile"`
}
