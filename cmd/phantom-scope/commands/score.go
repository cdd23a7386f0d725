package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/phantom-scope/internal/analysis"
)

const stdinArg = "-"

// NewScoreCommand creates the score subcommand.
func NewScoreCommand() *cobra.Command {
	var asJSON, nocolor bool

	cmd := &cobra.Command{
		Use:   "score <file.json|->",
		Short: "Analyze a ProfileSignals JSON document",
		Long: `Score one developer profile from already-collected signals.

Examples:
  phantom-scope score profile.json
  phantom-scope score - < profile.json
  phantom-scope score --json profile.json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true //nolint:reassign // library global
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			engine, err := analysis.NewEngine(cfg.Scoring)
			if err != nil {
				return err
			}

			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			result, err := engine.AnalyzeJSON(data)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return renderResult(cmd.OutOrStdout(), result, len(data))
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw result as JSON")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == stdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeJSON(w io.Writer, result analysis.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func renderResult(w io.Writer, r analysis.Result, inputBytes int) error {
	archetype := color.New(color.FgCyan, color.Bold).Sprint(r.Archetype.Name)
	fmt.Fprintf(w, "Archetype: %s (%s)\n", archetype, humanize.FormatFloat("#.##", 100*r.Archetype.Confidence)+"% confidence")
	fmt.Fprintf(w, "  %s\n", r.Archetype.Description)
	if len(r.Archetype.Alternatives) > 0 {
		alts := make([]string, len(r.Archetype.Alternatives))
		for i, id := range r.Archetype.Alternatives {
			alts[i] = string(id)
		}
		fmt.Fprintf(w, "  Close alternatives: %s\n", strings.Join(alts, ", "))
	}
	fmt.Fprintln(w)

	scores := table.NewWriter()
	scores.SetStyle(table.StyleLight)
	scores.AppendHeader(table.Row{"Dimension", "Score"})
	scores.AppendRow(table.Row{"Activity", formatScore(r.Scores.Activity)})
	scores.AppendRow(table.Row{"Collaboration", formatScore(r.Scores.Collaboration)})
	scores.AppendRow(table.Row{"Stack diversity", formatScore(r.Scores.StackDiversity)})
	scores.AppendRow(table.Row{"AI savviness", formatScore(r.Scores.AISavviness)})
	fmt.Fprintln(w, scores.Render())
	fmt.Fprintln(w)

	ai := r.AIAnalysis
	usage := table.NewWriter()
	usage.SetStyle(table.StyleLight)
	usage.AppendHeader(table.Row{"AI usage", ""})
	usage.AppendRow(table.Row{"Bucket", bucketColor(ai.OverallBucket).Sprint(ai.OverallBucket)})
	usage.AppendRow(table.Row{"Confidence", ai.Confidence})
	usage.AppendRow(table.Row{"Tools", orNone(ai.DetectedTools)})
	usage.AppendRow(table.Row{"Config files", orNone(ai.ConfigFilesDetected)})
	usage.AppendRow(table.Row{"Burst score", formatScore(ai.BurstScore)})
	usage.AppendRow(table.Row{"Commits analyzed", humanize.Comma(int64(ai.CommitsAnalyzed))})
	usage.AppendRow(table.Row{"AI-signal commits", humanize.Comma(int64(ai.AISignalCommits))})
	usage.AppendRow(table.Row{"Message heuristic", formatScore(ai.HeuristicScore)})
	usage.AppendRow(table.Row{"Co-author bots", formatCounts(ai.CoAuthorBots)})
	usage.AppendFooter(table.Row{"Input", humanize.Bytes(uint64(inputBytes))})
	fmt.Fprintln(w, usage.Render())
	fmt.Fprintln(w)

	tech := r.TechProfile
	fmt.Fprintf(w, "Ecosystem: %s\n", tech.PrimaryEcosystem)
	fmt.Fprintf(w, "Languages: %s\n", orNone(tech.Languages))
	fmt.Fprintf(w, "Frameworks: %s\n", orNone(tech.Frameworks))

	return nil
}

func formatScore(v float64) string {
	return humanize.FormatFloat("#.#", v)
}

func bucketColor(b analysis.Bucket) *color.Color {
	switch b {
	case analysis.BucketHeavy:
		return color.New(color.FgRed, color.Bold)
	case analysis.BucketModerate:
		return color.New(color.FgYellow)
	case analysis.BucketLight:
		return color.New(color.FgGreen)
	default:
		return color.New(color.Faint)
	}
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		keys[i] = fmt.Sprintf("%s (%d)", k, counts[k])
	}
	return orNone(keys)
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
