// Package tui is the terminal front end: mode tabs, per-mode forms, and
// the shared loading/result/error panel.
package tui

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/krishivikas/assistant/internal/domain/fieldscan"
	"github.com/krishivikas/assistant/internal/domain/plots"
	"github.com/krishivikas/assistant/internal/domain/session"
	"github.com/krishivikas/assistant/internal/domain/settings"
	"github.com/krishivikas/assistant/internal/domain/voice"
	"github.com/krishivikas/assistant/internal/infra/gateway"
)

// modeTabs is the tab order. Keys 1-7 jump straight to a tab.
var modeTabs = []struct {
	Mode  session.Mode
	Label string
}{
	{session.ModeDisease, "🔬 Disease Detection"},
	{session.ModeSchemes, "🏛️ Government Schemes"},
	{session.ModeConsultant, "👨‍🌾 Farm AI Consultant"},
	{session.ModeAdvisory, "📊 Predictive Advisory"},
	{session.ModeVoice, "🎤 Talk Now"},
	{session.ModeFieldScan, "🌳 Field Scan"},
	{session.ModeMap, "🗺️ Farm Plots"},
}

// experts the consultant mode can route a question to.
var experts = []struct {
	Value string
	Label string
}{
	{"irrigation_expert", "Irrigation Expert"},
	{"soil_health_expert", "Soil Health Expert"},
	{"pest_management_expert", "Pest Management Expert"},
	{"crop_nutrition_expert", "Crop Nutrition Expert"},
	{"horticulture_expert", "Horticulture Expert"},
}

// voiceLanguages the talk-now mode can transcribe.
var voiceLanguages = []struct {
	Value string
	Label string
}{
	{"english", "English"},
	{"hindi", "Hindi (हिन्दी)"},
	{"bengali", "Bengali (বাংলা)"},
	{"tamil", "Tamil (தமிழ்)"},
	{"telugu", "Telugu (తెలుగు)"},
	{"marathi", "Marathi (मराठी)"},
	{"gujarati", "Gujarati (ગુજરાતી)"},
	{"kannada", "Kannada (ಕನ್ನಡ)"},
	{"malayalam", "Malayalam (മലയാളം)"},
	{"punjabi", "Punjabi (ਪੰਜਾਬੀ)"},
}

// Services bundles everything the interface talks to.
type Services struct {
	Settings  *settings.Service
	Gateway   *gateway.Client
	Session   *session.Controller
	FieldScan *fieldscan.Service
	Plots     *plots.Service
	Voice     *voice.Service
	Recorder  *voice.FileRecorder
	Logger    *slog.Logger
}

// Model is the bubbletea model for the whole interface.
type Model struct {
	svc  Services
	farm settings.FarmSettings
	user string

	width  int
	height int

	tabIndex int

	// shared widgets
	spin     spinner.Model
	question textarea.Model
	pathIn   textinput.Model
	descIn   textinput.Model
	results  viewport.Model
	renderer *glamour.TermRenderer

	expertIndex   int
	languageIndex int

	// field scan state
	scanBusy   bool
	scanStatus string
	scanCursor int

	// map state
	plotRows   []plots.Plot
	features   []plots.Feature
	plotStatus string

	// settings form
	settingsOpen  bool
	settingsFocus int
	settingsIn    []textinput.Model

	quitting bool
}

// New builds the initial model. Farm settings and the user id come from
// the local store before the first frame.
func New(svc Services) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	q := textarea.New()
	q.Placeholder = "Type your question..."
	q.SetHeight(3)
	q.Focus()

	path := textinput.New()
	path.Placeholder = "Path to a crop photo (JPEG)..."

	desc := textinput.New()
	desc.Placeholder = "Describe the symptoms (optional)..."

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)

	m := Model{
		svc:      svc,
		spin:     sp,
		question: q,
		pathIn:   path,
		descIn:   desc,
		results:  viewport.New(100, 20),
		renderer: renderer,
	}
	m.farm = svc.Settings.Farm()
	if id, err := svc.Settings.UserID(); err == nil {
		m.user = id
	} else {
		svc.Logger.Error("user id unavailable", "error", err)
	}
	m.settingsIn = newSettingsInputs(m.farm)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

func newSettingsInputs(fs settings.FarmSettings) []textinput.Model {
	fields := []struct {
		prompt string
		value  string
	}{
		{"Farmer name", fs.FarmerName},
		{"Crop type", fs.CropType},
		{"Acreage", strconv.FormatFloat(fs.Acreage, 'f', -1, 64)},
		{"Sowing date (YYYY-MM-DD)", fs.SowingDate},
		{"Current stage", fs.CurrentStage},
		{"Soil type", fs.SoilType},
		{"Current challenges", fs.CurrentChallenges},
		{"Preferred languages (comma separated)", joinLanguages(fs.PreferredLanguages)},
	}
	ins := make([]textinput.Model, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Prompt = f.prompt + ": "
		in.SetValue(f.value)
		ins[i] = in
	}
	ins[0].Focus()
	return ins
}

func joinLanguages(langs []string) string {
	return strings.Join(langs, ", ")
}

func splitLanguages(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		out = []string{"English"}
	}
	return out
}
