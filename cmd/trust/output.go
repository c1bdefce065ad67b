package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/ersonp/trust-core/internal/application/handlers"
	"github.com/ersonp/trust-core/internal/domain/entities"
)

// checkFormat validates the --format flag.
func checkFormat(format string) error {
	if !slices.Contains(validFormats, format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", format, validFormats)
	}
	return nil
}

// formatJSON writes v as indented JSON.
func formatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeScore prints the dimensions, outputs and level of a score.
func writeScore(w io.Writer, name string, score *entities.TrustScore) {
	fmt.Fprintf(w, "%s (%s)\n", name, score.EntityID)
	fmt.Fprintf(w, "Level: %s %s (chitty %s %s)\n",
		score.Level, score.Level.Name(), score.ChittyLevel, score.ChittyLevel.Name())
	fmt.Fprintf(w, "Composite: %.2f\n\n", score.Composite)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DIMENSION\tSCORE")
	for _, dim := range entities.AllDimensions {
		fmt.Fprintf(tw, "%s\t%.2f\n", dim, score.Dimensions.Value(dim))
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nScores: people %.2f, legal %.2f, state %.2f, chitty %.2f\n",
		score.Outputs.People, score.Outputs.Legal, score.Outputs.State, score.Outputs.Chitty)

	meta := score.Metadata
	fmt.Fprintf(w, "Confidence: %.2f from %d events", meta.Confidence, meta.EventCount)
	if meta.LowConfidence {
		fmt.Fprint(w, " (low confidence)")
	}
	fmt.Fprintln(w)
	if meta.MalformedEvents > 0 {
		fmt.Fprintf(w, "Malformed events treated as neutral: %d\n", meta.MalformedEvents)
	}
}

func writeScoreResult(w io.Writer, name string, result *handlers.ScoreResult) {
	writeScore(w, name, result.Score)

	status := "passed"
	if !result.Integrity.Passed {
		status = "FAILED"
	}
	fmt.Fprintf(w, "Integrity: %s\n", status)
	for _, c := range result.Integrity.Checks {
		if !c.Passed {
			fmt.Fprintf(w, "  %s: %s\n", c.Name, c.Detail)
		}
	}
	if result.Snapshot != nil {
		fmt.Fprintf(w, "Recorded snapshot %s\n", result.Snapshot.ID)
	}
	if result.Indexed {
		fmt.Fprintln(w, "Indexed trust profile")
	}
}

func writeAnalysis(w io.Writer, name string, result *handlers.AnalyzeResult) {
	writeScore(w, name, result.Score)

	if result.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", result.Summary)
	}

	fmt.Fprintf(w, "\nInsights (%d):\n", len(result.Analysis.Insights))
	for _, in := range result.Analysis.Insights {
		fmt.Fprintf(w, "  [%s] %s: %s\n", in.Impact, in.Title, in.Description)
	}

	if len(result.Analysis.Patterns) > 0 {
		fmt.Fprintf(w, "\nPatterns (%d):\n", len(result.Analysis.Patterns))
		for _, p := range result.Analysis.Patterns {
			fmt.Fprintf(w, "  [%s risk] %s (x%d)\n", p.RiskLevel, p.Description, p.Frequency)
			if p.Recommendation != "" {
				fmt.Fprintf(w, "    %s\n", p.Recommendation)
			}
		}
	}

	fmt.Fprintln(w, "\nConfidence intervals:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, dim := range entities.AllDimensions {
		ci, ok := result.Analysis.Intervals[dim]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "  %s\t%.2f - %.2f\t(n=%d)\n", dim, ci.Low, ci.High, ci.Support)
	}
	_ = tw.Flush()
}

func writeReplay(w io.Writer, result *handlers.ReplayResult) {
	if len(result.Points) == 0 {
		fmt.Fprintln(w, "Not enough events to replay.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EVENTS\tDATE\tCOMPOSITE\tCHITTY")
	for _, p := range result.Points {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\n", p.EventCount, p.Timestamp.Format("2006-01-02"), p.Composite, p.Chitty)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\nChange: %+.2f\n", result.Change)
}

func writeCompare(w io.Writer, result *handlers.CompareResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tENTITY\tCHITTY\tCOMPOSITE\tLEVEL")
	for _, e := range result.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%s\n",
			e.Rank, e.Name, e.Score.Outputs.Chitty, e.Score.Composite, e.Score.Level)
	}
	_ = tw.Flush()
}

func writeTrend(w io.Writer, result *handlers.HistoryResult) {
	trend := result.Trend
	fmt.Fprintf(w, "%s since %s: %s", trend.EntityID, trend.Since.Format("2006-01-02"), trend.Label)
	if trend.Label == entities.TrendInsufficientData {
		fmt.Fprintf(w, " (%d snapshots)\n", trend.DataPoints)
	} else {
		fmt.Fprintf(w, " (%+.2f over %d snapshots)\n", trend.Change, trend.DataPoints)
		for _, dim := range entities.AllDimensions {
			fmt.Fprintf(w, "  %-9s %+.2f\n", dim, trend.Dimensions[dim])
		}
	}
	fmt.Fprintf(w, "%d snapshots recorded\n", result.Recorded)

	if len(result.Audit) > 0 {
		fmt.Fprintln(w, "\nAudit log:")
		for _, a := range result.Audit {
			fmt.Fprintf(w, "  %s  %s\n", a.CreatedAt.Format("2006-01-02 15:04:05"), a.Action)
		}
	}
}

func writeAudit(w io.Writer, action string, entries []entities.AuditEntry) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No %s entries.\n", action)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tENTITY\tACTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.EntityID, e.Action)
	}
	_ = tw.Flush()
}

func writeSimilar(w io.Writer, result *handlers.SimilarResult) {
	if len(result.Matches) == 0 {
		fmt.Fprintln(w, "No similar profiles found.")
		return
	}

	fmt.Fprintf(w, "Profiles similar to %s:\n\n", result.Score.EntityID)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tSIMILARITY\tCHITTY\tCOMPOSITE\tLEVEL")
	for _, p := range result.Matches {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%s\n", p.EntityID, p.Similarity, p.Chitty, p.Composite, p.Level)
	}
	_ = tw.Flush()
}

// displayName returns the entity name, or its ID when unnamed.
func displayName(e *entities.Entity) string {
	if strings.TrimSpace(e.Name) != "" {
		return e.Name
	}
	return e.ID
}
