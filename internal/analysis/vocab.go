package analysis

import (
	"path"
	"regexp"
	"sort"
	"strings"
)

// aiTool is one entry of the fixed AI-tool vocabulary. Only IDs from this
// table can ever appear in AIAnalysis.DetectedTools.
type aiTool struct {
	ID      string
	Name    string
	Pattern *regexp.Regexp
}

var aiTools = []aiTool{
	{ID: "github_copilot", Name: "GitHub Copilot", Pattern: regexp.MustCompile(`(?i)\bcopilot\b`)},
	{ID: "chatgpt", Name: "ChatGPT/OpenAI", Pattern: regexp.MustCompile(`(?i)\bchat-?gpt\b|\bgpt-?4o?\b|\bgpt-?3\.?5\b|\bopenai\b|\bcodex\b`)},
	{ID: "gemini", Name: "Google Gemini", Pattern: regexp.MustCompile(`(?i)\bgemini\b`)},
	{ID: "claude", Name: "Claude", Pattern: regexp.MustCompile(`(?i)\bclaude\b|\banthropic\b`)},
	{ID: "cursor", Name: "Cursor", Pattern: regexp.MustCompile(`(?i)\bcursor[ -]?(?:agent|ai|ide)\b|\bcursor\.(?:com|sh)\b`)},
	{ID: "codeium", Name: "Codeium", Pattern: regexp.MustCompile(`(?i)\bcodeium\b`)},
	{ID: "tabnine", Name: "Tabnine", Pattern: regexp.MustCompile(`(?i)\btabnine\b`)},
	{ID: "sourcegraph_cody", Name: "Sourcegraph Cody", Pattern: regexp.MustCompile(`(?i)\bsourcegraph\b|\bcody[ -]ai\b`)},
	{ID: "supermaven", Name: "Supermaven", Pattern: regexp.MustCompile(`(?i)\bsupermaven\b`)},
	{ID: "windsurf", Name: "Windsurf", Pattern: regexp.MustCompile(`(?i)\bwindsurf\b`)},
	{ID: "aider", Name: "Aider", Pattern: regexp.MustCompile(`(?i)\baider\b`)},
}

// genericAIPattern flags a commit as AI-assisted without naming a tool.
var genericAIPattern = regexp.MustCompile(
	`(?i)\bai[- ](?:generated|assisted|powered)\b|\bgenerated\s+(?:by|with|using)\s+(?:an?\s+)?ai\b|\bllm\b`)

// coAuthorTrailer matches Co-authored-by trailers carrying an email.
var coAuthorTrailer = regexp.MustCompile(`(?im)co-authored-by:[ \t]*([^<\r\n]*?)[ \t]*<([^<>\r\n]+)>`)

// coAuthorIdentity splits a declared "Name <email>" string.
var coAuthorIdentity = regexp.MustCompile(`^(.*?)\s*<([^<>]*)>$`)

// coAuthorBot is an automation identity seen in co-author strings. Bots are
// reported but are not AI-tool evidence.
type coAuthorBot struct {
	ID      string
	Pattern *regexp.Regexp
}

// coAuthorBots is matched in order; the first match names the bot.
var coAuthorBots = []coAuthorBot{
	{ID: "dependabot", Pattern: regexp.MustCompile(`(?i)\bdependabot\b`)},
	{ID: "renovate", Pattern: regexp.MustCompile(`(?i)\brenovate\b`)},
	{ID: "snyk", Pattern: regexp.MustCompile(`(?i)\bsnyk\b`)},
	{ID: "github_actions", Pattern: regexp.MustCompile(`(?i)\bgithub-actions\b`)},
	{ID: "deepsource", Pattern: regexp.MustCompile(`(?i)\bdeepsource\b`)},
	{ID: "bot", Pattern: regexp.MustCompile(`(?i)\[bot\]`)},
}

// messageHeuristic is one commit-message style rule. Patterns apply to the
// whole message, so the single-line rules only match one-line messages.
type messageHeuristic struct {
	Name    string
	Pattern *regexp.Regexp
	Weight  func(HeuristicWeights) float64
}

var messageHeuristics = []messageHeuristic{
	{
		Name:    "generic_action",
		Pattern: regexp.MustCompile(`(?i)^(?:update|fix|refactor|improve|add|remove|clean)\s+\w+$`),
		Weight:  func(w HeuristicWeights) float64 { return w.GenericAction },
	},
	{
		Name:    "verbose_subject",
		Pattern: regexp.MustCompile(`^.{150,}$`),
		Weight:  func(w HeuristicWeights) float64 { return w.VerboseSubject },
	},
	{
		Name:    "detailed_scope",
		Pattern: regexp.MustCompile(`(?i)^(?:feat|fix|docs|style|refactor|test|chore)\(.{30,}\):`),
		Weight:  func(w HeuristicWeights) float64 { return w.DetailedScope },
	},
	{
		Name:    "implement_prefix",
		Pattern: regexp.MustCompile(`(?i)^implement(?:ed|s|ing)?\s`),
		Weight:  func(w HeuristicWeights) float64 { return w.ImplementPrefix },
	},
	{
		Name:    "article_prefix",
		Pattern: regexp.MustCompile(`(?i)^(?:this|the|a|an)\s+(?:commit|change|update|patch|pr|pull request)\s`),
		Weight:  func(w HeuristicWeights) float64 { return w.ArticlePrefix },
	},
}

// KnownTools returns the tool vocabulary as id -> display name.
func KnownTools() map[string]string {
	out := make(map[string]string, len(aiTools))
	for _, t := range aiTools {
		out[t.ID] = t.Name
	}
	return out
}

func isKnownBot(id string) bool {
	for _, b := range coAuthorBots {
		if b.ID == id {
			return true
		}
	}
	return false
}

// KnownBots returns the co-author bot IDs.
func KnownBots() []string {
	out := make([]string, 0, len(coAuthorBots))
	for _, b := range coAuthorBots {
		out = append(out, b.ID)
	}
	return out
}

// aiConfigFiles is the recognized AI-assistant configuration vocabulary.
// Entries with a slash match as a path suffix, bare names match the base name.
var aiConfigFiles = []string{
	".github/copilot-instructions.md",
	".cursorrules",
	".cursorignore",
	".aider.conf.yml",
	".aiderignore",
	".codeiumignore",
	".tabnine",
	".continue/config.json",
	".windsurfrules",
	".clinerules",
	"CLAUDE.md",
	"AGENTS.md",
	"GEMINI.md",
}

// matchConfigFiles returns the sorted, de-duplicated vocabulary entries
// present among paths.
func matchConfigFiles(paths []string) []string {
	found := make(map[string]struct{})
	for _, raw := range paths {
		p := normalizePath(raw)
		if p == "" {
			continue
		}
		base := path.Base(p)
		for _, entry := range aiConfigFiles {
			e := strings.ToLower(entry)
			if strings.Contains(e, "/") {
				if p == e || strings.HasSuffix(p, "/"+e) {
					found[entry] = struct{}{}
				}
				continue
			}
			if base == e {
				found[entry] = struct{}{}
			}
		}
	}
	return sortedKeys(found)
}

func normalizePath(raw string) string {
	p := strings.TrimSpace(strings.ReplaceAll(raw, `\`, "/"))
	if p == "" {
		return ""
	}
	p = strings.TrimLeft(path.Clean(p), "/")
	p = strings.TrimPrefix(p, "./")
	if p == "." {
		return ""
	}
	return strings.ToLower(p)
}

var knownFrameworks = stringSet(
	"react", "nextjs", "vue", "angular", "svelte", "fastapi", "django", "flask",
	"express", "nestjs", "pytorch", "tensorflow", "langchain", "docker", "kubernetes",
	"tailwindcss", "graphql", "postgres", "mongodb", "spring", "rails", "laravel",
	"gin", "actix", "rocket", "deno", "bun", "remix", "nuxt", "astro", "solidjs",
	"htmx", "prisma", "drizzle", "supabase", "firebase", "vercel", "aws", "gcp", "azure",
)

var (
	webFrameworks     = stringSet("react", "nextjs", "vue", "angular", "svelte", "remix", "nuxt", "astro", "solidjs")
	backendFrameworks = stringSet("fastapi", "django", "flask", "express", "nestjs", "spring", "rails", "laravel", "gin", "actix", "rocket")
	mlFrameworks      = stringSet("pytorch", "tensorflow", "langchain", "scikit-learn", "huggingface", "jax")
	devopsTopics      = stringSet(
		"docker", "kubernetes", "terraform", "ansible", "ci-cd", "devops", "aws", "gcp",
		"azure", "helm", "jenkins", "github-actions",
	)
	securityTopics = stringSet(
		"security", "vulnerability", "pentest", "ctf", "exploit", "cybersecurity",
		"infosec", "cryptography", "owasp",
	)

	dataScienceLanguages = stringSet("Jupyter Notebook", "R", "Julia")
	backendLanguages     = stringSet("Python", "Java", "Go", "Rust", "C++", "C#", "Ruby", "PHP", "Kotlin", "Scala", "Elixir")
	frontendLanguages    = stringSet("TypeScript", "JavaScript", "CSS", "HTML", "Svelte", "Vue", "Dart")
)

func stringSet(items ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func intersects(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
