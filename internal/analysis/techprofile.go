package analysis

import "sort"

const (
	maxProfileLanguages  = 10
	maxProfileFrameworks = 15
)

func buildTechProfile(sig ProfileSignals, tags Tags) TechProfile {
	langs := normalizeLanguages(sig.Languages)
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > maxProfileLanguages {
		names = names[:maxProfileLanguages]
	}

	frameworks := make([]string, 0)
	for _, t := range sortedKeys(normalizeTopics(sig.Topics)) {
		if _, ok := knownFrameworks[t]; ok {
			frameworks = append(frameworks, t)
		}
	}
	if len(frameworks) > maxProfileFrameworks {
		frameworks = frameworks[:maxProfileFrameworks]
	}

	return TechProfile{
		Languages:        names,
		Frameworks:       frameworks,
		PrimaryEcosystem: tags.Ecosystem,
	}
}
