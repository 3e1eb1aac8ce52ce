package tui

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/krishivikas/assistant/internal/domain/analysis"
	"github.com/krishivikas/assistant/internal/domain/fieldscan"
	"github.com/krishivikas/assistant/internal/domain/plots"
	"github.com/krishivikas/assistant/internal/domain/session"
	"github.com/krishivikas/assistant/internal/domain/settings"
)

type analyzeDoneMsg struct {
	epoch uint64
	res   analysis.Result
	err   error
}

type thoughtTickMsg struct{ epoch uint64 }

type scanDoneMsg struct{ added int }

type scanSavedMsg struct {
	saved int
	err   error
}

type resolveDoneMsg struct{ err error }

type plotsLoadedMsg struct {
	rows     []plots.Plot
	features []plots.Feature
	err      error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.Width = msg.Width - 4
		m.results.Height = msg.Height - 12
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case thoughtTickMsg:
		if m.svc.Session.AdvanceThought(msg.epoch) {
			return m, m.thoughtTick(msg.epoch)
		}
		return m, nil

	case analyzeDoneMsg:
		if !m.svc.Session.Complete(msg.epoch, msg.res, msg.err) {
			return m, nil
		}
		if msg.err == nil {
			m.showResult(msg.res)
		}
		return m, nil

	case scanDoneMsg:
		m.scanBusy = false
		m.scanStatus = fmt.Sprintf("%d photo(s) classified.", msg.added)
		m.pathIn.Blur()
		return m, nil

	case scanSavedMsg:
		m.scanBusy = false
		if msg.err != nil {
			m.scanStatus = "Save failed: " + msg.err.Error()
		} else {
			m.scanStatus = fmt.Sprintf("%d tree(s) saved to your farm map.", msg.saved)
		}
		return m, nil

	case resolveDoneMsg:
		m.scanBusy = false
		if msg.err != nil {
			m.scanStatus = "Could not record your decision: " + msg.err.Error()
		} else {
			m.scanStatus = "Decision recorded."
		}
		return m, nil

	case plotsLoadedMsg:
		if msg.err != nil {
			m.plotStatus = msg.err.Error()
			return m, nil
		}
		m.plotRows = msg.rows
		m.features = msg.features
		m.plotStatus = fmt.Sprintf("%d plot(s) on your farm map.", len(msg.rows))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.settingsOpen {
		return m.updateSettingsForm(msg)
	}

	switch msg.String() {
	case "ctrl+s":
		m.settingsOpen = true
		m.settingsIn = newSettingsInputs(m.svc.Settings.Farm())
		m.settingsFocus = 0
		return m, nil
	case "tab":
		return m.switchTab(1)
	case "shift+tab":
		return m.switchTab(-1)
	case "esc":
		m.svc.Session.Reset()
		m.svc.Voice.Reset(context.Background())
		m.scanStatus = ""
		return m, nil
	case "ctrl+r":
		m.svc.Session.Retry()
		return m, nil
	}

	switch m.mode() {
	case session.ModeDisease:
		return m.updateDisease(msg)
	case session.ModeSchemes, session.ModeConsultant, session.ModeAdvisory:
		return m.updateTextMode(msg)
	case session.ModeVoice:
		return m.updateVoice(msg)
	case session.ModeFieldScan:
		return m.updateFieldScan(msg)
	case session.ModeMap:
		return m.updateMap(msg)
	}
	return m, nil
}

func (m Model) mode() session.Mode {
	return modeTabs[m.tabIndex].Mode
}

func (m Model) switchTab(dir int) (tea.Model, tea.Cmd) {
	m.tabIndex = (m.tabIndex + dir + len(modeTabs)) % len(modeTabs)
	m.svc.Session.SwitchMode(m.mode())
	m.svc.Voice.Reset(context.Background())
	m.scanStatus = ""
	m.plotStatus = ""
	m.pathIn.SetValue("")
	m.descIn.SetValue("")
	m.question.SetValue("")
	switch m.mode() {
	case session.ModeDisease:
		m.pathIn.Placeholder = "Path to a crop photo (JPEG)..."
		m.pathIn.Focus()
	case session.ModeFieldScan:
		m.pathIn.Placeholder = "Photo file or directory to scan..."
		m.pathIn.Focus()
	case session.ModeVoice:
		m.pathIn.Placeholder = "Path to a recorded audio note..."
		m.pathIn.Focus()
	default:
		m.pathIn.Blur()
		m.question.Focus()
	}
	return m, nil
}

// ---- disease mode ----

func (m Model) updateDisease(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		path := strings.TrimSpace(m.pathIn.Value())
		if path == "" {
			m.scanStatus = "Please select an image first."
			return m, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			m.scanStatus = "Could not read the image: " + err.Error()
			return m, nil
		}
		content := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
		m.scanStatus = ""
		return m, m.submit(analysis.Payload{
			InputType:       analysis.InputImage,
			Content:         content,
			Language:        "en",
			TextDescription: strings.TrimSpace(m.descIn.Value()),
		}, "Disease Analysis", "Analyzing your crop image...")
	case "up", "down":
		if m.pathIn.Focused() {
			m.pathIn.Blur()
			m.descIn.Focus()
		} else {
			m.descIn.Blur()
			m.pathIn.Focus()
		}
		return m, nil
	}
	var cmd tea.Cmd
	if m.pathIn.Focused() {
		m.pathIn, cmd = m.pathIn.Update(msg)
	} else {
		m.descIn, cmd = m.descIn.Update(msg)
	}
	return m, cmd
}

// ---- schemes / consultant / advisory ----

func (m Model) updateTextMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := m.mode()
	switch msg.String() {
	case "enter":
		switch mode {
		case session.ModeSchemes:
			q := strings.TrimSpace(m.question.Value())
			if q == "" {
				m.scanStatus = "Please enter your question."
				return m, nil
			}
			m.scanStatus = ""
			return m, m.submit(analysis.Payload{
				InputType: analysis.InputText,
				Content:   q,
				QueryType: analysis.QuerySchemes,
				Language:  "en",
			}, "Government Schemes", "")
		case session.ModeConsultant:
			q := strings.TrimSpace(m.question.Value())
			if q == "" {
				m.scanStatus = "Please enter your question for the expert consultation."
				return m, nil
			}
			m.scanStatus = ""
			return m, m.submit(analysis.Payload{
				InputType: analysis.InputText,
				Content:   q,
				QueryType: analysis.QueryConsultant,
				SMEAgent:  experts[m.expertIndex].Value,
				Language:  "en",
			}, "Expert Consultation", "")
		case session.ModeAdvisory:
			return m, m.submit(analysis.Payload{
				InputType: analysis.InputText,
				Content:   "predictive advisor",
				QueryType: analysis.QueryAdvisory,
				Language:  "en",
			}, "Predictive Advisory", "")
		}
	case "ctrl+e":
		if mode == session.ModeConsultant {
			m.expertIndex = (m.expertIndex + 1) % len(experts)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.question, cmd = m.question.Update(msg)
	return m, cmd
}

// ---- voice mode ----

func (m Model) updateVoice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+l":
		m.languageIndex = (m.languageIndex + 1) % len(voiceLanguages)
		return m, nil
	case "enter":
		if content, mime, ok := m.svc.Voice.Payload(); ok {
			cmd := m.submit(analysis.Payload{
				InputType: analysis.InputAudio,
				Content:   "data:" + mime + ";base64," + content,
				Language:  voiceLanguages[m.languageIndex].Value,
			}, "Voice Note", "")
			m.svc.Voice.Reset(context.Background())
			return m, cmd
		}
		return m.captureVoice()
	}
	var cmd tea.Cmd
	m.pathIn, cmd = m.pathIn.Update(msg)
	return m, cmd
}

func (m Model) captureVoice() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.pathIn.Value())
	if path == "" {
		m.scanStatus = "Point me at a recorded audio note first."
		return m, nil
	}
	ctx := context.Background()
	m.svc.Recorder.SetPath(path)
	if err := m.svc.Voice.Start(ctx); err != nil {
		m.scanStatus = errText(err)
		return m, nil
	}
	if err := m.svc.Voice.Stop(ctx); err != nil {
		m.scanStatus = errText(err)
		return m, nil
	}
	m.scanStatus = "Audio captured. Press enter again to send it."
	return m, nil
}

// ---- field scan mode ----

func (m Model) updateFieldScan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.scanBusy {
		return m, nil
	}
	if m.pathIn.Focused() {
		if msg.String() == "enter" {
			return m.startScan()
		}
		var cmd tea.Cmd
		m.pathIn, cmd = m.pathIn.Update(msg)
		return m, cmd
	}

	items := m.svc.FieldScan.Items()
	switch msg.String() {
	case "i":
		m.pathIn.Focus()
		return m, nil
	case "j", "down":
		if m.scanCursor < len(items)-1 {
			m.scanCursor++
		}
		return m, nil
	case "k", "up":
		if m.scanCursor > 0 {
			m.scanCursor--
		}
		return m, nil
	case "x":
		if m.scanCursor < len(items) {
			item := items[m.scanCursor]
			m.svc.FieldScan.Remove(context.Background(), item.ID)
			if m.scanCursor > 0 {
				m.scanCursor--
			}
		}
		return m, nil
	case "c":
		m.svc.FieldScan.Clear()
		m.scanCursor = 0
		m.scanStatus = ""
		return m, nil
	case "s":
		m.scanBusy = true
		m.scanStatus = "Saving trees..."
		return m, m.saveScanCmd()
	case "1", "2", "3":
		return m.resolveDuplicate(msg.String())
	}
	return m, nil
}

func (m Model) startScan() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.pathIn.Value())
	if path == "" {
		m.scanStatus = "Enter a photo file or directory first."
		return m, nil
	}
	photos, err := collectPhotos(path)
	if err != nil {
		m.scanStatus = err.Error()
		return m, nil
	}
	if len(photos) == 0 {
		m.scanStatus = "No photos found there."
		return m, nil
	}
	m.scanBusy = true
	m.scanStatus = fmt.Sprintf("Classifying %d photo(s)...", len(photos))
	svc := m.svc.FieldScan
	return m, func() tea.Msg {
		added := svc.Ingest(context.Background(), photos)
		return scanDoneMsg{added: len(added)}
	}
}

func (m Model) saveScanCmd() tea.Cmd {
	svc := m.svc.FieldScan
	user := m.user
	return func() tea.Msg {
		saved, err := svc.SaveAll(context.Background(), user)
		return scanSavedMsg{saved: saved, err: err}
	}
}

func (m Model) resolveDuplicate(key string) (tea.Model, tea.Cmd) {
	dups := m.svc.FieldScan.Duplicates()
	if len(dups) == 0 {
		return m, nil
	}
	action := map[string]string{
		"1": fieldscan.DecisionKeepFirst,
		"2": fieldscan.DecisionKeepSecond,
		"3": fieldscan.DecisionSaveBoth,
	}[key]
	pair := dups[0]
	m.scanBusy = true
	svc := m.svc.FieldScan
	user := m.user
	return m, func() tea.Msg {
		return resolveDoneMsg{err: svc.Resolve(context.Background(), user, pair, action)}
	}
}

// collectPhotos gathers image files from a path, one level deep for
// directories.
func collectPhotos(path string) ([]fieldscan.Photo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			files = append(files, filepath.Join(path, e.Name()))
		}
	} else {
		files = []string{path}
	}

	var photos []fieldscan.Photo
	for _, f := range files {
		switch strings.ToLower(filepath.Ext(f)) {
		case ".jpg", ".jpeg", ".png":
		default:
			continue
		}
		data, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		photos = append(photos, fieldscan.Photo{Name: filepath.Base(f), Data: data})
	}
	return photos, nil
}

// ---- map mode ----

func (m Model) updateMap(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		m.plotStatus = "Loading plant locations from dashboard..."
		svc := m.svc.Plots
		user := m.user
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			rows, err := svc.Plots(ctx, user)
			if err != nil {
				return plotsLoadedMsg{err: err}
			}
			lat, lon := svc.Center(rows)
			return plotsLoadedMsg{rows: rows, features: svc.Surroundings(ctx, lat, lon)}
		}
	}
	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

// ---- submission ----

func (m *Model) submit(p analysis.Payload, title, loadingText string) tea.Cmd {
	farm := m.svc.Settings.Farm()
	m.farm = farm
	p.UserID = m.user
	p.FarmSettings = &farm

	ctx, epoch := m.svc.Session.Begin(context.Background(), title, loadingText)
	gw := m.svc.Gateway
	analyzeCmd := func() tea.Msg {
		res, err := gw.Analyze(ctx, p)
		return analyzeDoneMsg{epoch: epoch, res: res, err: err}
	}
	cmds := []tea.Cmd{analyzeCmd, m.spin.Tick}
	if m.mode() == session.ModeDisease {
		cmds = append(cmds, m.thoughtTick(epoch))
	}
	return tea.Batch(cmds...)
}

func (m Model) thoughtTick(epoch uint64) tea.Cmd {
	return tea.Tick(m.svc.Session.ThoughtStep(), func(time.Time) tea.Msg {
		return thoughtTickMsg{epoch: epoch}
	})
}

func (m *Model) showResult(res analysis.Result) {
	md := analysis.Markdown(res)
	rendered, err := m.renderer.Render(md)
	if err != nil {
		rendered = md
	}
	m.results.SetContent(rendered)
	m.results.GotoTop()
}

// ---- settings form ----

func (m Model) updateSettingsForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.settingsOpen = false
		return m, nil
	case "tab", "down":
		return m.focusSettings(m.settingsFocus + 1), nil
	case "shift+tab", "up":
		return m.focusSettings(m.settingsFocus - 1), nil
	case "enter":
		if m.settingsFocus < len(m.settingsIn)-1 {
			return m.focusSettings(m.settingsFocus + 1), nil
		}
		return m.saveSettings()
	case "ctrl+s":
		return m.saveSettings()
	}
	var cmd tea.Cmd
	m.settingsIn[m.settingsFocus], cmd = m.settingsIn[m.settingsFocus].Update(msg)
	return m, cmd
}

func (m Model) focusSettings(i int) Model {
	m.settingsIn[m.settingsFocus].Blur()
	m.settingsFocus = (i + len(m.settingsIn)) % len(m.settingsIn)
	m.settingsIn[m.settingsFocus].Focus()
	return m
}

func (m Model) saveSettings() (tea.Model, tea.Cmd) {
	acreage, err := strconv.ParseFloat(strings.TrimSpace(m.settingsIn[2].Value()), 64)
	if err != nil {
		m.settingsIn[2].SetValue("")
		return m, nil
	}
	fs := settings.FarmSettings{
		FarmerName:         strings.TrimSpace(m.settingsIn[0].Value()),
		CropType:           strings.TrimSpace(m.settingsIn[1].Value()),
		Acreage:            acreage,
		SowingDate:         strings.TrimSpace(m.settingsIn[3].Value()),
		CurrentStage:       strings.TrimSpace(m.settingsIn[4].Value()),
		SoilType:           strings.TrimSpace(m.settingsIn[5].Value()),
		CurrentChallenges:  strings.TrimSpace(m.settingsIn[6].Value()),
		PreferredLanguages: splitLanguages(m.settingsIn[7].Value()),
	}
	if err := m.svc.Settings.SaveFarm(fs); err != nil {
		m.svc.Logger.Error("settings save failed", "error", err)
		return m, nil
	}
	m.farm = fs
	m.settingsOpen = false
	return m, nil
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
