package services

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// Analysis holds the derived observations for one entity.
type Analysis struct {
	Insights  []entities.Insight                                 `json:"insights"`
	Patterns  []entities.Pattern                                 `json:"patterns"`
	Intervals map[entities.Dimension]entities.ConfidenceInterval `json:"confidence_intervals"`
}

// Analyze derives insights, patterns and confidence intervals for an entity
// whose dimensions were already scored. The three run concurrently.
func (e *Engine) Analyze(ctx context.Context, entity *entities.Entity, events []entities.Event, dims entities.DimensionScores, opts ...ScoreOption) (*Analysis, error) {
	if err := entity.Validate(); err != nil {
		return nil, fmt.Errorf("validating entity: %w", err)
	}
	o := buildScoreOptions(opts)
	clean, _ := sanitizeEvents(entity, events)
	historyPoints := len(historySeries(o.history, e.cfg.HistoryWindow))

	var a Analysis
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Insights = GenerateInsights(entity, clean, dims, e.cfg.MaxInsights)
		return gctx.Err()
	})
	g.Go(func() error {
		a.Patterns = DetectPatterns(clean, e.cfg.PatternThreshold)
		return gctx.Err()
	})
	g.Go(func() error {
		a.Intervals = ConfidenceIntervals(entity, clean, dims, historyPoints)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyzing entity: %w", err)
	}

	e.metrics.ObserveAnalysis(len(a.Insights), len(a.Patterns))
	e.logger.Debug("entity analyzed",
		zap.String("entity_id", entity.ID),
		zap.Int("insights", len(a.Insights)),
		zap.Int("patterns", len(a.Patterns)))

	return &a, nil
}

// insightConfidence saturates towards 1 with the amount of evidence.
func insightConfidence(evidence int) float64 {
	return 1 - math.Exp(-float64(evidence)/3)
}

func newInsight(category, title, description string, impact entities.Impact, trend entities.TrendDirection, evidence []string) entities.Insight {
	return entities.Insight{
		Category:           category,
		Title:              title,
		Description:        description,
		Impact:             impact,
		Confidence:         insightConfidence(len(evidence)),
		SupportingEvidence: evidence,
		Trend:              trend,
	}
}

// GenerateInsights returns at most limit observations, most confident first.
// Events must be in chronological order.
func GenerateInsights(entity *entities.Entity, events []entities.Event, dims entities.DimensionScores, limit int) []entities.Insight {
	var insights []entities.Insight
	insights = append(insights, justiceInsights(events, dims)...)
	insights = append(insights, outcomeInsights(events, dims)...)
	insights = append(insights, sourceInsights(entity)...)
	insights = append(insights, channelInsights(events)...)
	insights = append(insights, networkInsights(entity, dims)...)
	insights = append(insights, crossDimensionInsights(events, dims)...)

	slices.SortStableFunc(insights, func(a, b entities.Insight) int {
		if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
	if limit > 0 && len(insights) > limit {
		insights = insights[:limit]
	}
	return insights
}

func justiceInsights(events []entities.Event, dims entities.DimensionScores) []entities.Insight {
	var relevant []entities.Event
	for i := range events {
		if isJusticeRelevant(&events[i]) {
			relevant = append(relevant, events[i])
		}
	}
	if len(relevant) == 0 {
		return nil
	}

	trend := polarityTrend(relevant)
	category := string(entities.DimensionJustice)
	switch {
	case dims.Justice >= 70:
		return []entities.Insight{newInsight(category, "Strong justice alignment",
			fmt.Sprintf("%d events show fair, restorative or accountable conduct.", countOutcome(relevant, entities.OutcomePositive)),
			entities.ImpactPositive, trend, evidenceFor(relevant, entities.OutcomePositive))}
	case dims.Justice <= 40:
		return []entities.Insight{newInsight(category, "Justice concerns",
			fmt.Sprintf("%d disputes or violations weigh on the justice score.", countOutcome(relevant, entities.OutcomeNegative)),
			entities.ImpactNegative, trend, evidenceFor(relevant, entities.OutcomeNegative))}
	}
	return nil
}

func outcomeInsights(events []entities.Event, dims entities.DimensionScores) []entities.Insight {
	if len(events) == 0 {
		return nil
	}
	trend := polarityTrend(events)
	category := string(entities.DimensionOutcome)
	switch {
	case dims.Outcome >= 65:
		return []entities.Insight{newInsight(category, "Consistently positive outcomes",
			fmt.Sprintf("%d of %d events ended positively.", countOutcome(events, entities.OutcomePositive), len(events)),
			entities.ImpactPositive, trend, evidenceFor(events, entities.OutcomePositive))}
	case dims.Outcome <= 40:
		return []entities.Insight{newInsight(category, "Negative outcome history",
			fmt.Sprintf("%d of %d events ended negatively.", countOutcome(events, entities.OutcomeNegative), len(events)),
			entities.ImpactNegative, trend, evidenceFor(events, entities.OutcomeNegative))}
	}
	return nil
}

func sourceInsights(entity *entities.Entity) []entities.Insight {
	var verified, pending []string
	for _, c := range entity.Credentials {
		desc := fmt.Sprintf("%s credential from %s", c.Type, c.Issuer)
		switch c.Status {
		case entities.StatusVerified:
			verified = append(verified, desc)
		case entities.StatusPending:
			pending = append(pending, desc)
		}
	}

	category := string(entities.DimensionSource)
	var insights []entities.Insight
	if entity.IdentityVerified && len(verified) > 0 {
		evidence := append([]string{"identity verified"}, verified...)
		insights = append(insights, newInsight(category, "Verified identity",
			fmt.Sprintf("Identity is verified and backed by %d verified credentials.", len(verified)),
			entities.ImpactPositive, entities.TrendStable, evidence))
	}
	if len(pending) > 0 {
		insights = append(insights, newInsight(category, "Pending verifications",
			fmt.Sprintf("%d credentials are awaiting verification.", len(pending)),
			entities.ImpactNeutral, entities.TrendUp, pending))
	}
	return insights
}

func channelInsights(events []entities.Event) []entities.Insight {
	channels := make(map[entities.Channel]int)
	for _, ev := range events {
		if ev.Channel != "" {
			channels[entities.Channel(strings.ToLower(string(ev.Channel)))]++
		}
	}

	evidence := make([]string, 0, len(channels))
	for ch, n := range channels {
		evidence = append(evidence, fmt.Sprintf("%d events via %s", n, ch))
	}
	slices.Sort(evidence)

	category := string(entities.DimensionChannel)
	switch {
	case len(channels) == 1 && len(events) >= 3:
		return []entities.Insight{newInsight(category, "Single observation channel",
			"All events were observed through one channel.",
			entities.ImpactNegative, entities.TrendStable, evidence)}
	case len(channels) >= 3:
		return []entities.Insight{newInsight(category, "Diverse observation channels",
			fmt.Sprintf("Events arrived through %d distinct channels.", len(channels)),
			entities.ImpactPositive, entities.TrendStable, evidence)}
	}
	return nil
}

func networkInsights(entity *entities.Entity, dims entities.DimensionScores) []entities.Insight {
	category := string(entities.DimensionNetwork)
	if len(entity.Connections) == 0 {
		return []entities.Insight{newInsight(category, "Isolated entity",
			"No connections are known for this entity.",
			entities.ImpactNegative, entities.TrendStable, []string{"no connections"})}
	}
	if dims.Network < 70 {
		return nil
	}

	evidence := make([]string, 0, len(entity.Connections))
	for _, c := range entity.Connections {
		evidence = append(evidence, fmt.Sprintf("%s connection %s (trust %.0f)", c.Type, c.EntityID, c.TrustScore))
	}
	return []entities.Insight{newInsight(category, "Strong network",
		fmt.Sprintf("%d connections across %d relationship types.", len(entity.Connections), entity.ConnectionTypes()),
		entities.ImpactPositive, entities.TrendStable, evidence)}
}

// unevenSpread is the gap between highest and lowest dimension above which
// a profile is reported as uneven.
const unevenSpread = 40.0

func crossDimensionInsights(events []entities.Event, dims entities.DimensionScores) []entities.Insight {
	var insights []entities.Insight

	if len(events) >= 2 {
		mid := len(events) / 2
		early, late := events[:mid], events[mid:]
		earlyNeg, earlyPos := countOutcome(early, entities.OutcomeNegative), countOutcome(early, entities.OutcomePositive)
		lateNeg, latePos := countOutcome(late, entities.OutcomeNegative), countOutcome(late, entities.OutcomePositive)
		if earlyNeg > earlyPos && latePos > lateNeg {
			evidence := append(evidenceFor(early, entities.OutcomeNegative), evidenceFor(late, entities.OutcomePositive)...)
			insights = append(insights, newInsight(entities.CategoryCrossDimension, "Transformation arc",
				"Early negative events are followed by a run of positive ones.",
				entities.ImpactPositive, entities.TrendUp, evidence))
		}
	}

	hi, lo := entities.AllDimensions[0], entities.AllDimensions[0]
	for _, dim := range entities.AllDimensions {
		if dims.Value(dim) > dims.Value(hi) {
			hi = dim
		}
		if dims.Value(dim) < dims.Value(lo) {
			lo = dim
		}
	}
	if dims.Value(hi)-dims.Value(lo) > unevenSpread {
		insights = append(insights, newInsight(entities.CategoryCrossDimension, "Uneven profile",
			fmt.Sprintf("%s and %s differ by %.0f points.", hi, lo, dims.Value(hi)-dims.Value(lo)),
			entities.ImpactNeutral, entities.TrendStable, []string{
				fmt.Sprintf("highest: %s %.1f", hi, dims.Value(hi)),
				fmt.Sprintf("lowest: %s %.1f", lo, dims.Value(lo)),
			}))
	}

	return insights
}

// polarityTrend compares the average polarity of the later half of events
// with the earlier half.
func polarityTrend(events []entities.Event) entities.TrendDirection {
	if len(events) < 2 {
		return entities.TrendStable
	}
	mid := len(events) / 2
	diff := polarity(events[mid:]) - polarity(events[:mid])
	switch {
	case diff > 0.1:
		return entities.TrendUp
	case diff < -0.1:
		return entities.TrendDown
	default:
		return entities.TrendStable
	}
}

func polarity(events []entities.Event) float64 {
	var net float64
	for _, ev := range events {
		switch ev.Outcome {
		case entities.OutcomePositive:
			net++
		case entities.OutcomeNegative:
			net--
		}
	}
	return net / float64(len(events))
}

func countOutcome(events []entities.Event, outcome entities.Outcome) int {
	n := 0
	for _, ev := range events {
		if ev.Outcome == outcome {
			n++
		}
	}
	return n
}

func evidenceFor(events []entities.Event, outcome entities.Outcome) []string {
	var evidence []string
	for i := range events {
		ev := &events[i]
		if ev.Outcome != outcome {
			continue
		}
		if desc := ev.Description(); desc != "" {
			evidence = append(evidence, desc)
			continue
		}
		evidence = append(evidence, fmt.Sprintf("%s %s on %s", ev.Outcome, ev.Type, ev.Timestamp.Format("2006-01-02")))
	}
	return evidence
}

type patternGroup struct {
	count     int
	negatives int
	last      entities.Event
}

// DetectPatterns groups events by type, by tag and by type/tag
// combination. Groups with at least threshold members are reported, most
// frequent first.
func DetectPatterns(events []entities.Event, threshold int) []entities.Pattern {
	groups := make(map[string]*patternGroup)
	add := func(key string, ev entities.Event) {
		g, ok := groups[key]
		if !ok {
			g = &patternGroup{}
			groups[key] = g
		}
		g.count++
		if ev.Outcome == entities.OutcomeNegative {
			g.negatives++
		}
		if !ev.Timestamp.Before(g.last.Timestamp) {
			g.last = ev
		}
	}

	for _, ev := range events {
		if ev.Type != "" {
			add("event:"+string(ev.Type), ev)
		}
		seen := make(map[string]struct{}, len(ev.Tags))
		for _, tag := range ev.Tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if _, dup := seen[tag]; dup || tag == "" {
				continue
			}
			seen[tag] = struct{}{}
			add("tag:"+tag, ev)
			if ev.Type != "" {
				add("combo:"+string(ev.Type)+"+"+tag, ev)
			}
		}
	}

	var patterns []entities.Pattern
	for key, g := range groups {
		if g.count < threshold {
			continue
		}
		risk := patternRisk(g)
		patterns = append(patterns, entities.Pattern{
			PatternType:    key,
			Description:    patternDescription(key, g),
			Frequency:      g.count,
			LastOccurrence: g.last.Timestamp,
			RiskLevel:      risk,
			Recommendation: patternRecommendation(key, risk),
		})
	}

	slices.SortFunc(patterns, func(a, b entities.Pattern) int {
		if c := cmp.Compare(b.Frequency, a.Frequency); c != 0 {
			return c
		}
		return cmp.Compare(a.PatternType, b.PatternType)
	})
	return patterns
}

func patternRisk(g *patternGroup) entities.RiskLevel {
	switch {
	case g.negatives == 0:
		return entities.RiskNone
	case float64(g.negatives)/float64(g.count) >= 0.5:
		return entities.RiskHigh
	default:
		return entities.RiskMedium
	}
}

func patternDescription(key string, g *patternGroup) string {
	kind, name, _ := strings.Cut(key, ":")
	switch kind {
	case "tag":
		return fmt.Sprintf("Tag %q recurs on %d events (%d negative)", name, g.count, g.negatives)
	case "combo":
		typ, tag, _ := strings.Cut(name, "+")
		return fmt.Sprintf("%d %s events tagged %q (%d negative)", g.count, typ, tag, g.negatives)
	}
	return fmt.Sprintf("%d %s events (%d negative)", g.count, name, g.negatives)
}

func patternRecommendation(key string, risk entities.RiskLevel) string {
	_, name, _ := strings.Cut(key, ":")
	name = strings.ReplaceAll(name, "+", " ")
	switch risk {
	case entities.RiskHigh:
		return fmt.Sprintf("Investigate recurring negative %s activity before extending trust", name)
	case entities.RiskMedium:
		return fmt.Sprintf("Monitor %s activity for further negative outcomes", name)
	default:
		return "No action needed"
	}
}

// ConfidenceIntervals bounds each dimension score by the amount of evidence
// behind it. More evidence never widens an interval.
func ConfidenceIntervals(entity *entities.Entity, events []entities.Event, dims entities.DimensionScores, historyPoints int) map[entities.Dimension]entities.ConfidenceInterval {
	nonNeutral, justice := 0, 0
	for i := range events {
		if events[i].Outcome != entities.OutcomeNeutral {
			nonNeutral++
		}
		if isJusticeRelevant(&events[i]) {
			justice++
		}
	}

	support := map[entities.Dimension]int{
		entities.DimensionSource:   len(entity.Credentials),
		entities.DimensionTemporal: historyPoints,
		entities.DimensionChannel:  len(events),
		entities.DimensionOutcome:  nonNeutral,
		entities.DimensionNetwork:  len(entity.Connections),
		entities.DimensionJustice:  justice,
	}

	intervals := make(map[entities.Dimension]entities.ConfidenceInterval, len(entities.AllDimensions))
	for _, dim := range entities.AllDimensions {
		n := support[dim]
		half := IntervalHalfWidth(n)
		v := dims.Value(dim)
		intervals[dim] = entities.ConfidenceInterval{
			Low:     clamp(v - half),
			High:    clamp(v + half),
			Support: n,
		}
	}
	return intervals
}

// IntervalHalfWidth returns the half-width for a sample of n, never below 1.
func IntervalHalfWidth(n int) float64 {
	return math.Max(1, 25/float64(1+max(n, 0)))
}
