package analysis

import (
	"encoding/json"

	"github.com/krishivikas/assistant/internal/domain/classifier"
	"github.com/krishivikas/assistant/internal/domain/settings"
)

// InputType tags the content field of a submission.
type InputType string

const (
	InputText  InputType = "text"
	InputImage InputType = "image"
	InputAudio InputType = "audio"
)

// QueryType routes a submission to a backend agent. Disease detection is
// implicit: image submissions without a query type land there.
type QueryType string

const (
	QueryDisease    QueryType = ""
	QuerySchemes    QueryType = "government_schemes"
	QueryConsultant QueryType = "sme_consultation"
	QueryAdvisory   QueryType = "predictive_advisory"
)

// Payload is the request body for the analyze endpoint. Built fresh per
// submission, never persisted.
type Payload struct {
	InputType       InputType               `json:"inputType"`
	Content         string                  `json:"content"`
	QueryType       QueryType               `json:"queryType,omitempty"`
	Language        string                  `json:"language"`
	UserID          string                  `json:"userId,omitempty"`
	FarmSettings    *settings.FarmSettings  `json:"farmSettings,omitempty"`
	SMEAgent        string                  `json:"sme_expert,omitempty"`
	TextDescription string                  `json:"textDescription,omitempty"`
	Predictions     []classifier.Prediction `json:"predictions,omitempty"`
}

// Kind identifies which render path a response decoded into.
type Kind int

const (
	KindRaw Kind = iota
	KindAdvisory
	KindMessage
	KindSchemes
	KindDisease
	KindTranscript
)

// Result is the typed outcome of decoding a backend response. Exactly one
// of the pointer fields matching Kind is set; Raw always holds the
// original body for the fallback view and debugging.
type Result struct {
	Kind       Kind
	SessionID  string
	Advisory   *Advisory
	Message    string
	Schemes    *SchemesInfo
	Disease    *DiseaseAnalysis
	Transcript *Transcript
	Raw        json.RawMessage
}

// Advisory is the predictive-advisory report.
type Advisory struct {
	RiskLevel           string              `json:"risk_level"`
	Confidence          string              `json:"confidence"`
	CurrentConditions   *Conditions         `json:"current_conditions"`
	Message             string              `json:"message"`
	PredictedIssues     []PredictedIssue    `json:"predicted_issues"`
	RecommendedActions  []RecommendedAction `json:"recommended_actions"`
	MonitoringChecklist []string            `json:"monitoring_checklist"`
	NextCheckDate       string              `json:"next_check_date"`
}

// Conditions carries the sensor snapshot the advisory was computed from.
type Conditions struct {
	Temperature  string `json:"temperature"`
	Humidity     string `json:"humidity"`
	SoilMoisture string `json:"soil_moisture"`
}

// PredictedIssue is one pest/disease risk in an advisory.
type PredictedIssue struct {
	Issue       string `json:"issue"`
	Probability string `json:"probability"`
	Timeframe   string `json:"timeframe"`
	Reason      string `json:"reason"`
}

// RecommendedAction is one preventive step in an advisory.
type RecommendedAction struct {
	Action   string `json:"action"`
	Priority string `json:"priority"`
	Timing   string `json:"timing"`
	Cost     string `json:"cost"`
	Reason   string `json:"reason"`
}

// SchemesInfo is the government-schemes answer.
type SchemesInfo struct {
	Confidence string   `json:"confidence"`
	Message    string   `json:"message"`
	Schemes    []Scheme `json:"schemes"`
	Sources    []string `json:"sources"`
}

// Scheme is a single scheme card.
type Scheme struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	Eligibility        string `json:"eligibility"`
	Benefits           string `json:"benefits"`
	ApplicationProcess string `json:"application_process"`
}

// DiseaseAnalysis is the crop-disease diagnosis.
type DiseaseAnalysis struct {
	DiseaseName      string            `json:"disease_name"`
	Confidence       string            `json:"confidence"`
	Severity         string            `json:"severity"`
	SymptomsObserved []string          `json:"symptoms_observed"`
	ImmediateAction  string            `json:"immediate_action"`
	TreatmentSummary string            `json:"treatment_summary"`
	OrganicSolutions []OrganicSolution `json:"organic_solutions"`
	PreventionTips   []string          `json:"prevention_tips"`
	CostEstimate     string            `json:"cost_estimate"`
	SuccessTimeline  string            `json:"success_timeline"`
	WarningSigns     string            `json:"warning_signs"`
}

// OrganicSolution is one home-remedy card in a diagnosis.
type OrganicSolution struct {
	Name        string `json:"name"`
	Preparation string `json:"preparation"`
	Application string `json:"application"`
}

// Transcript is the voice-transcription answer.
type Transcript struct {
	Success    bool   `json:"success"`
	Transcript string `json:"transcript"`
	Error      string `json:"error"`
}
