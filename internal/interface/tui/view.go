package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/krishivikas/assistant/internal/domain/fieldscan"
	"github.com/krishivikas/assistant/internal/domain/session"
	"github.com/krishivikas/assistant/internal/domain/voice"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tabStyle    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("250"))
	activeTab   = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("229")).Background(lipgloss.Color("22"))
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Padding(1, 2)
	errorStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).Foreground(lipgloss.Color("203")).Padding(1, 2)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	thoughtStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))
	savedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🌱 Krishi Vikas — Farmer Assistant"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%s · %s · %.0f acres · %s",
		m.farm.FarmerName, m.farm.CropType, m.farm.Acreage, m.farm.CurrentStage)))
	b.WriteString("\n\n")
	b.WriteString(m.tabsView())
	b.WriteString("\n\n")

	if m.settingsOpen {
		b.WriteString(m.settingsView())
	} else {
		b.WriteString(m.bodyView())
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) tabsView() string {
	tabs := make([]string, len(modeTabs))
	for i, t := range modeTabs {
		if i == m.tabIndex {
			tabs[i] = activeTab.Render(t.Label)
		} else {
			tabs[i] = tabStyle.Render(t.Label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) bodyView() string {
	v := m.svc.Session.Snapshot()
	switch v.Phase {
	case session.PhaseLoading:
		return m.loadingView(v)
	case session.PhaseSuccess:
		return m.resultView(v)
	case session.PhaseError:
		return errorStyle.Render("❌ "+v.Error) + "\n" +
			hintStyle.Render("Press ctrl+r to try again.")
	default:
		return m.formView()
	}
}

func (m Model) loadingView(v session.View) string {
	var b strings.Builder
	b.WriteString(m.spin.View())
	b.WriteString(" ")
	b.WriteString(v.LoadingText)
	for _, t := range v.Thoughts {
		b.WriteString("\n  ")
		b.WriteString(thoughtStyle.Render(t))
	}
	return panelStyle.Render(b.String())
}

func (m Model) resultView(v session.View) string {
	header := titleStyle.Render(v.Title)
	if v.SessionID != "" {
		header += subtleStyle.Render("  (session " + v.SessionID + ")")
	}
	return header + "\n" + m.results.View() + "\n" +
		subtleStyle.Render("esc starts a new query")
}

func (m Model) formView() string {
	switch m.mode() {
	case session.ModeDisease:
		return m.diseaseForm()
	case session.ModeSchemes:
		return m.questionForm("Ask about subsidies, insurance, loans, and support programs.")
	case session.ModeConsultant:
		return m.consultantForm()
	case session.ModeAdvisory:
		return panelStyle.Render(
			"Generates a pest and disease outlook for your farm from the\n" +
				"profile in settings and current field conditions.\n\n" +
				hintStyle.Render("Press enter to generate the advisory."))
	case session.ModeVoice:
		return m.voiceForm()
	case session.ModeFieldScan:
		return m.fieldScanView()
	case session.ModeMap:
		return m.mapView()
	}
	return ""
}

func (m Model) diseaseForm() string {
	var b strings.Builder
	b.WriteString("Upload a photo of the affected plant.\n\n")
	b.WriteString(m.pathIn.View())
	b.WriteString("\n")
	b.WriteString(m.descIn.View())
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("up/down switches fields · enter analyzes"))
	if m.scanStatus != "" {
		b.WriteString("\n" + hintStyle.Render(m.scanStatus))
	}
	return panelStyle.Render(b.String())
}

func (m Model) questionForm(intro string) string {
	var b strings.Builder
	b.WriteString(intro + "\n\n")
	b.WriteString(m.question.View())
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("enter sends the question"))
	if m.scanStatus != "" {
		b.WriteString("\n" + hintStyle.Render(m.scanStatus))
	}
	return panelStyle.Render(b.String())
}

func (m Model) consultantForm() string {
	var b strings.Builder
	b.WriteString("Choose an expert to get specialized advice for your crop.\n\n")
	b.WriteString("Expert: " + titleStyle.Render(experts[m.expertIndex].Label))
	b.WriteString(subtleStyle.Render("  (ctrl+e cycles)"))
	b.WriteString("\n\n")
	b.WriteString(m.question.View())
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("enter sends the question"))
	if m.scanStatus != "" {
		b.WriteString("\n" + hintStyle.Render(m.scanStatus))
	}
	return panelStyle.Render(b.String())
}

func (m Model) voiceForm() string {
	var b strings.Builder
	b.WriteString("Speak your question in your own language.\n\n")
	b.WriteString("Language: " + titleStyle.Render(voiceLanguages[m.languageIndex].Label))
	b.WriteString(subtleStyle.Render("  (ctrl+l cycles)"))
	b.WriteString("\n\n")
	b.WriteString(m.pathIn.View())
	b.WriteString("\n\n")
	switch m.svc.Voice.State() {
	case voice.StateCaptured:
		b.WriteString(savedStyle.Render("● Audio ready."))
		b.WriteString(hintStyle.Render(" enter sends it · esc discards"))
	default:
		b.WriteString(hintStyle.Render("enter captures the audio note"))
	}
	if m.scanStatus != "" {
		b.WriteString("\n" + hintStyle.Render(m.scanStatus))
	}
	return panelStyle.Render(b.String())
}

func (m Model) fieldScanView() string {
	var b strings.Builder
	b.WriteString("Classify a batch of field photos and map your trees.\n\n")
	b.WriteString(m.pathIn.View())
	b.WriteString("\n\n")

	if m.scanBusy {
		b.WriteString(m.spin.View() + " " + m.scanStatus)
		return panelStyle.Render(b.String())
	}

	items := m.svc.FieldScan.Items()
	for i, item := range items {
		cursor := "  "
		if i == m.scanCursor && !m.pathIn.Focused() {
			cursor = "▸ "
		}
		b.WriteString(cursor + m.itemLine(item) + "\n")
	}
	if dups := m.svc.FieldScan.Duplicates(); len(dups) > 0 {
		d := dups[0]
		b.WriteString("\n" + hintStyle.Render(fmt.Sprintf(
			"⚠ %s is %.1f m from saved tree %s — 1 keep saved · 2 keep photo · 3 keep both",
			d.Item.FileName, d.DistanceMeters, d.ExistingTreeID)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter scans · s saves all · x removes · c clears · i edits path"))
	if m.scanStatus != "" {
		b.WriteString("\n" + hintStyle.Render(m.scanStatus))
	}
	return panelStyle.Render(b.String())
}

func (m Model) itemLine(item *fieldscan.Item) string {
	var parts []string
	parts = append(parts, item.FileName, item.Crop)
	if len(item.Predictions) > 0 {
		p := item.Predictions[0]
		parts = append(parts, fmt.Sprintf("%s %.0f%%", p.ClassName, p.Probability*100))
	}
	if item.Location != nil {
		parts = append(parts, fmt.Sprintf("%.4f, %.4f", item.Location.Latitude, item.Location.Longitude))
	} else {
		parts = append(parts, "no GPS")
	}
	line := strings.Join(parts, " · ")
	if item.Saved {
		return savedStyle.Render("✓ " + line)
	}
	if item.Note != "" {
		return line + "  " + subtleStyle.Render(item.Note)
	}
	return line
}

func (m Model) mapView() string {
	var b strings.Builder
	b.WriteString("Your saved farm plots.\n\n")
	if len(m.plotRows) == 0 {
		b.WriteString(hintStyle.Render("Press enter to load plant locations."))
	}
	for _, p := range m.plotRows {
		b.WriteString(fmt.Sprintf("📍 %-14s %s  %.6f, %.6f\n",
			p.PlotID, p.CropType, p.Latitude, p.Longitude))
	}
	if len(m.features) > 0 {
		b.WriteString("\nNearby:\n")
		limit := len(m.features)
		if limit > 5 {
			limit = 5
		}
		for _, f := range m.features[:limit] {
			name := f.Name
			if name == "" {
				name = "(unnamed)"
			}
			b.WriteString(fmt.Sprintf("  %s %s — %.0f m\n", f.Kind, name, f.DistanceMeters))
		}
	}
	if m.plotStatus != "" {
		b.WriteString("\n" + subtleStyle.Render(m.plotStatus))
	}
	return panelStyle.Render(b.String())
}

func (m Model) settingsView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Farm Settings"))
	b.WriteString("\n\n")
	for _, in := range m.settingsIn {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("tab moves · ctrl+s saves · esc cancels"))
	return panelStyle.Render(b.String())
}

func (m Model) helpLine() string {
	return "tab/shift+tab switch mode · ctrl+s settings · esc reset · ctrl+c quit"
}
