package analysis

import (
	"math"
	"strings"

	"github.com/src-d/enry/v2"
)

// Ecosystem is the coarse technology ecosystem inferred from languages and topics.
type Ecosystem string

const (
	EcosystemDataScience Ecosystem = "data-science"
	EcosystemFullStack   Ecosystem = "full-stack"
	EcosystemFrontend    Ecosystem = "frontend"
	EcosystemBackend     Ecosystem = "backend"
	EcosystemDevOps      Ecosystem = "devops"
	EcosystemGeneral     Ecosystem = "general"
)

// AgeBucket is the account-age band used by the classifier bonuses.
type AgeBucket string

const (
	AgeUnknown     AgeBucket = "unknown"
	AgeYoung       AgeBucket = "young"
	AgeEstablished AgeBucket = "established"
	AgeVeteran     AgeBucket = "veteran"
)

// Tags are the categorical features derived from signals, consumed by
// archetype bonus rules.
type Tags struct {
	Ecosystem Ecosystem
	Age       AgeBucket
	Security  bool
	DevOps    bool
}

// normalizeLanguage maps a language name or alias onto its linguist name,
// falling back to the trimmed input for names enry does not know.
func normalizeLanguage(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	alias := strings.ToLower(name)
	for _, candidate := range []string{alias, strings.ReplaceAll(alias, " ", "_")} {
		if lang, ok := enry.GetLanguageByAlias(candidate); ok {
			return lang
		}
	}
	return name
}

// normalizeLanguages folds byte counts of aliases of the same language
// together. Non-positive counts are dropped and sums saturate.
func normalizeLanguages(langs map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(langs))
	for name, bytes := range langs {
		if bytes <= 0 {
			continue
		}
		if n := normalizeLanguage(name); n != "" {
			out[n] = saturatingAdd(out[n], bytes)
		}
	}
	return out
}

// saturatingAdd sums two non-negative counts, pinning at math.MaxInt64.
func saturatingAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// normalizeTopics lower-cases, trims and de-duplicates topic tags.
func normalizeTopics(topics []string) map[string]struct{} {
	out := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out[t] = struct{}{}
		}
	}
	return out
}

func inferTags(s ProfileSignals, cfg TagConfig) Tags {
	langs := make(map[string]struct{})
	for name := range normalizeLanguages(s.Languages) {
		langs[name] = struct{}{}
	}
	topics := normalizeTopics(s.Topics)

	return Tags{
		Ecosystem: detectEcosystem(langs, topics),
		Age:       ageBucket(s.AccountAgeDays, cfg),
		Security:  intersects(topics, securityTopics),
		DevOps:    intersects(topics, devopsTopics),
	}
}

// detectEcosystem applies the ordered rules: ML frameworks or data-science
// languages first, then framework families, then language families.
func detectEcosystem(langs, topics map[string]struct{}) Ecosystem {
	web := intersects(topics, webFrameworks)
	backend := intersects(topics, backendFrameworks)

	switch {
	case intersects(topics, mlFrameworks) || intersects(langs, dataScienceLanguages):
		return EcosystemDataScience
	case web && backend:
		return EcosystemFullStack
	case web:
		return EcosystemFrontend
	case backend:
		return EcosystemBackend
	case intersects(topics, devopsTopics):
		return EcosystemDevOps
	case intersects(langs, backendLanguages):
		return EcosystemBackend
	case intersects(langs, frontendLanguages):
		return EcosystemFrontend
	default:
		return EcosystemGeneral
	}
}

func ageBucket(days float64, cfg TagConfig) AgeBucket {
	switch {
	case !(days > 0):
		return AgeUnknown
	case days < cfg.YoungAccountDays:
		return AgeYoung
	case days >= cfg.VeteranAccountDays:
		return AgeVeteran
	default:
		return AgeEstablished
	}
}
