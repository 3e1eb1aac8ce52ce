package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Markdown renders a decoded result as a markdown document for the
// results panel. The TUI layer passes the output through glamour.
func Markdown(r Result) string {
	switch r.Kind {
	case KindAdvisory:
		return advisoryMarkdown(r.Advisory)
	case KindMessage:
		return r.Message
	case KindSchemes:
		return schemesMarkdown(r.Schemes)
	case KindDisease:
		return diseaseMarkdown(r.Disease)
	case KindTranscript:
		return transcriptMarkdown(r.Transcript)
	default:
		return rawMarkdown(r.Raw)
	}
}

func advisoryMarkdown(a *Advisory) string {
	var b strings.Builder
	b.WriteString("# Predictive Advisory\n\n")
	if a.RiskLevel != "" {
		fmt.Fprintf(&b, "**Risk level:** %s", a.RiskLevel)
		if a.Confidence != "" {
			fmt.Fprintf(&b, " (confidence %s)", a.Confidence)
		}
		b.WriteString("\n\n")
	}
	if c := a.CurrentConditions; c != nil {
		b.WriteString("## Current Conditions\n\n")
		writeField(&b, "Temperature", c.Temperature)
		writeField(&b, "Humidity", c.Humidity)
		writeField(&b, "Soil moisture", c.SoilMoisture)
		b.WriteString("\n")
	}
	if a.Message != "" {
		b.WriteString(a.Message)
		b.WriteString("\n\n")
	}
	if len(a.PredictedIssues) > 0 {
		b.WriteString("## Predicted Issues\n\n")
		for _, p := range a.PredictedIssues {
			fmt.Fprintf(&b, "### %s\n\n", p.Issue)
			writeField(&b, "Probability", p.Probability)
			writeField(&b, "Timeframe", p.Timeframe)
			writeField(&b, "Why", p.Reason)
			b.WriteString("\n")
		}
	}
	if len(a.RecommendedActions) > 0 {
		b.WriteString("## Recommended Actions\n\n")
		for _, ra := range a.RecommendedActions {
			fmt.Fprintf(&b, "### %s\n\n", ra.Action)
			writeField(&b, "Priority", ra.Priority)
			writeField(&b, "Timing", ra.Timing)
			writeField(&b, "Estimated cost", ra.Cost)
			writeField(&b, "Why", ra.Reason)
			b.WriteString("\n")
		}
	}
	if len(a.MonitoringChecklist) > 0 {
		b.WriteString("## Monitoring Checklist\n\n")
		for _, item := range a.MonitoringChecklist {
			fmt.Fprintf(&b, "- [ ] %s\n", item)
		}
		b.WriteString("\n")
	}
	if a.NextCheckDate != "" {
		fmt.Fprintf(&b, "**Next check:** %s\n", a.NextCheckDate)
	}
	return strings.TrimRight(b.String(), "\n")
}

func schemesMarkdown(s *SchemesInfo) string {
	var b strings.Builder
	b.WriteString("# Government Schemes\n\n")
	if s.Message != "" {
		b.WriteString(s.Message)
		b.WriteString("\n\n")
	}
	for _, sc := range s.Schemes {
		fmt.Fprintf(&b, "## %s\n\n", sc.Name)
		if sc.Description != "" {
			b.WriteString(sc.Description)
			b.WriteString("\n\n")
		}
		writeField(&b, "Eligibility", sc.Eligibility)
		writeField(&b, "Benefits", sc.Benefits)
		writeField(&b, "How to apply", sc.ApplicationProcess)
		b.WriteString("\n")
	}
	if len(s.Sources) > 0 {
		b.WriteString("## Sources\n\n")
		for _, src := range s.Sources {
			fmt.Fprintf(&b, "- %s\n", src)
		}
		b.WriteString("\n")
	}
	if s.Confidence != "" {
		fmt.Fprintf(&b, "*Confidence: %s*\n", s.Confidence)
	}
	return strings.TrimRight(b.String(), "\n")
}

func diseaseMarkdown(d *DiseaseAnalysis) string {
	var b strings.Builder
	b.WriteString("# Disease Analysis\n\n")
	if d.DiseaseName != "" {
		fmt.Fprintf(&b, "**Diagnosis:** %s", d.DiseaseName)
		if d.Confidence != "" {
			fmt.Fprintf(&b, " (confidence %s)", d.Confidence)
		}
		b.WriteString("\n\n")
	}
	writeField(&b, "Severity", d.Severity)
	if len(d.SymptomsObserved) > 0 {
		b.WriteString("\n## Symptoms Observed\n\n")
		for _, s := range d.SymptomsObserved {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	if d.ImmediateAction != "" {
		b.WriteString("\n## Immediate Action\n\n")
		b.WriteString(d.ImmediateAction)
		b.WriteString("\n")
	}
	if d.TreatmentSummary != "" {
		b.WriteString("\n## Treatment\n\n")
		b.WriteString(d.TreatmentSummary)
		b.WriteString("\n")
	}
	if len(d.OrganicSolutions) > 0 {
		b.WriteString("\n## Organic Solutions\n\n")
		for _, o := range d.OrganicSolutions {
			fmt.Fprintf(&b, "### %s\n\n", o.Name)
			writeField(&b, "Preparation", o.Preparation)
			writeField(&b, "Application", o.Application)
			b.WriteString("\n")
		}
	}
	if len(d.PreventionTips) > 0 {
		b.WriteString("\n## Prevention\n\n")
		for _, t := range d.PreventionTips {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}
	b.WriteString("\n")
	writeField(&b, "Cost estimate", d.CostEstimate)
	writeField(&b, "Recovery timeline", d.SuccessTimeline)
	writeField(&b, "Warning signs", d.WarningSigns)
	return strings.TrimRight(b.String(), "\n")
}

func transcriptMarkdown(t *Transcript) string {
	if !t.Success {
		msg := t.Error
		if msg == "" {
			msg = "Transcription failed."
		}
		return "# Voice Note\n\n" + msg
	}
	return "# Voice Note\n\n> " + strings.ReplaceAll(t.Transcript, "\n", "\n> ")
}

func rawMarkdown(raw json.RawMessage) string {
	var pretty map[string]any
	if err := json.Unmarshal(raw, &pretty); err == nil {
		if out, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			return "```json\n" + string(out) + "\n```"
		}
	}
	return string(raw)
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "**%s:** %s\n", label, value)
}
