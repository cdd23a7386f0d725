package analysis

// Engine orchestrates the full analysis pipeline. It holds only immutable
// configuration, so one Engine may serve any number of concurrent calls.
type Engine struct {
	cfg        Config
	scorer     *Scorer
	commits    *CommitAnalyzer
	classifier *Classifier
}

// NewEngine creates an engine after validating cfg.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:        cfg,
		scorer:     NewScorer(cfg),
		commits:    NewCommitAnalyzer(cfg.AI),
		classifier: NewClassifier(cfg.Classifier),
	}, nil
}

// NewDefaultEngine creates an engine with DefaultConfig.
func NewDefaultEngine() *Engine {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		panic("analysis: default config is invalid: " + err.Error())
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Analyze runs validate, commit analysis, scoring, tagging and classification
// over one profile. The same input always yields the same Result.
func (e *Engine) Analyze(sig ProfileSignals) (Result, error) {
	if err := validateSignals(sig); err != nil {
		return Result{}, err
	}

	ai := e.commits.Analyze(sig.Commits, sig.ConfigFiles)
	scores := e.scorer.Score(sig, ai)
	tags := inferTags(sig, e.cfg.Tags)

	res := Result{
		Scores:      scores,
		AIAnalysis:  ai,
		Archetype:   e.classifier.Classify(scores, tags),
		TechProfile: buildTechProfile(sig, tags),
	}
	if err := e.checkResult(res); err != nil {
		return Result{}, err
	}
	return res, nil
}

// AnalyzeJSON decodes a ProfileSignals document and analyzes it.
func (e *Engine) AnalyzeJSON(data []byte) (Result, error) {
	sig, err := DecodeSignals(data)
	if err != nil {
		return Result{}, err
	}
	return e.Analyze(sig)
}
