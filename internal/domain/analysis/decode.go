package analysis

import "encoding/json"

// Backend responses are a union without a discriminator field: the shape
// depends on which agent ultimately answered. Decode probes the known
// shapes in a fixed order so that a response carrying several candidate
// fields always renders the same way.
//
// Order of precedence:
//  1. predictive advisory (agent_response.type)
//  2. final_response.message
//  3. agent_response.message without schemes
//  4. agent_response schemes
//  5. disease analysis (any of four locations)
//  6. voice transcript
//  7. raw fallback
func Decode(raw json.RawMessage) Result {
	res := Result{Kind: KindRaw, Raw: raw}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return res
	}
	res.SessionID = env.SessionID

	ar := env.AgentResponse
	fr := env.FinalResponse

	if ar != nil && ar.Type == "predictive_advisory" {
		res.Kind = KindAdvisory
		res.Advisory = &ar.Advisory
		if res.Advisory.Message == "" {
			res.Advisory.Message = ar.Message
		}
		return res
	}
	if fr != nil && fr.Message != "" {
		res.Kind = KindMessage
		res.Message = fr.Message
		return res
	}
	if ar != nil && ar.Message != "" && len(ar.Schemes) == 0 {
		res.Kind = KindMessage
		res.Message = ar.Message
		return res
	}
	if ar != nil && len(ar.Schemes) > 0 {
		res.Kind = KindSchemes
		res.Schemes = &SchemesInfo{
			Confidence: ar.Confidence,
			Message:    ar.Message,
			Schemes:    ar.Schemes,
			Sources:    ar.Sources,
		}
		return res
	}
	if d := diseaseFrom(env); d != nil {
		res.Kind = KindDisease
		res.Disease = d
		return res
	}
	if fr != nil && (fr.Transcript != "" || fr.Success != nil) {
		res.Kind = KindTranscript
		res.Transcript = &Transcript{
			Success:    fr.Success != nil && *fr.Success,
			Transcript: fr.Transcript,
			Error:      fr.Error,
		}
		return res
	}
	return res
}

// diseaseFrom checks the four places a diagnosis has been observed in:
// final_response.detailed_analysis, a typed final_response.analysis, a
// typed agent_response.analysis, and a top-level analysis object.
func diseaseFrom(env envelope) *DiseaseAnalysis {
	if fr := env.FinalResponse; fr != nil {
		if fr.DetailedAnalysis != nil {
			return fr.DetailedAnalysis
		}
		if fr.Type == "disease_analysis" && fr.Analysis != nil {
			return fr.Analysis
		}
	}
	if ar := env.AgentResponse; ar != nil {
		if ar.Type == "disease_analysis" && ar.Analysis != nil {
			return ar.Analysis
		}
	}
	return env.Analysis
}

type envelope struct {
	AgentResponse *agentResponse   `json:"agent_response"`
	FinalResponse *finalResponse   `json:"final_response"`
	Analysis      *DiseaseAnalysis `json:"analysis"`
	SessionID     string           `json:"session_id"`
}

type agentResponse struct {
	Advisory

	Type     string           `json:"type"`
	Schemes  []Scheme         `json:"schemes"`
	Sources  []string         `json:"sources"`
	Analysis *DiseaseAnalysis `json:"analysis"`
}

type finalResponse struct {
	Type             string           `json:"type"`
	Message          string           `json:"message"`
	Analysis         *DiseaseAnalysis `json:"analysis"`
	DetailedAnalysis *DiseaseAnalysis `json:"detailed_analysis"`
	Transcript       string           `json:"transcript"`
	Success          *bool            `json:"success"`
	Error            string           `json:"error"`
}
