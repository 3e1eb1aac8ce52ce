package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) Result {
	t.Helper()
	return Decode(json.RawMessage(body))
}

func TestDecodeAdvisoryWinsOverEverything(t *testing.T) {
	body := `{
		"agent_response": {
			"type": "predictive_advisory",
			"risk_level": "High",
			"message": "Spray within two days.",
			"schemes": [{"name": "PM-KISAN"}]
		},
		"final_response": {"message": "plain text answer"},
		"analysis": {"disease_name": "Anthracnose"}
	}`
	res := decode(t, body)
	require.Equal(t, KindAdvisory, res.Kind)
	require.NotNil(t, res.Advisory)
	require.Equal(t, "High", res.Advisory.RiskLevel)
	require.Equal(t, "Spray within two days.", res.Advisory.Message)
}

func TestDecodeFinalMessageBeforeSchemes(t *testing.T) {
	body := `{
		"final_response": {"message": "Here is your answer."},
		"agent_response": {
			"message": "intro",
			"schemes": [{"name": "PM-KISAN", "benefits": "Rs 6000/year"}]
		}
	}`
	res := decode(t, body)
	require.Equal(t, KindMessage, res.Kind)
	require.Equal(t, "Here is your answer.", res.Message)
}

func TestDecodeFinalMessageBeforeDisease(t *testing.T) {
	body := `{
		"final_response": {
			"message": "Looks healthy to me.",
			"detailed_analysis": {"disease_name": "Powdery Mildew"}
		}
	}`
	res := decode(t, body)
	require.Equal(t, KindMessage, res.Kind)
	require.Equal(t, "Looks healthy to me.", res.Message)
}

func TestDecodeAgentMessageWithoutSchemes(t *testing.T) {
	res := decode(t, `{"agent_response": {"message": "Ask me about subsidies."}}`)
	require.Equal(t, KindMessage, res.Kind)
	require.Equal(t, "Ask me about subsidies.", res.Message)
}

func TestDecodeSchemesWhenPresent(t *testing.T) {
	body := `{
		"agent_response": {
			"message": "Two schemes match your profile.",
			"confidence": "high",
			"schemes": [
				{"name": "PM-KISAN", "benefits": "Rs 6000/year"},
				{"name": "PMFBY", "benefits": "Crop insurance"}
			],
			"sources": ["pmkisan.gov.in"]
		}
	}`
	res := decode(t, body)
	require.Equal(t, KindSchemes, res.Kind)
	require.NotNil(t, res.Schemes)
	require.Len(t, res.Schemes.Schemes, 2)
	require.Equal(t, "Two schemes match your profile.", res.Schemes.Message)
	require.Equal(t, []string{"pmkisan.gov.in"}, res.Schemes.Sources)
}

func TestDecodeDiseaseLocations(t *testing.T) {
	cases := map[string]string{
		"final detailed_analysis": `{"final_response": {"detailed_analysis": {"disease_name": "Anthracnose"}}}`,
		"typed final analysis":    `{"final_response": {"type": "disease_analysis", "analysis": {"disease_name": "Anthracnose"}}}`,
		"typed agent analysis":    `{"agent_response": {"type": "disease_analysis", "analysis": {"disease_name": "Anthracnose"}}}`,
		"top-level analysis":      `{"analysis": {"disease_name": "Anthracnose"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			res := decode(t, body)
			require.Equal(t, KindDisease, res.Kind)
			require.NotNil(t, res.Disease)
			require.Equal(t, "Anthracnose", res.Disease.DiseaseName)
		})
	}
}

func TestDecodeUntypedAnalysisIsNotDisease(t *testing.T) {
	// An analysis object inside final_response without the
	// disease_analysis type is not trusted as a diagnosis.
	res := decode(t, `{"final_response": {"analysis": {"disease_name": "X"}}}`)
	require.Equal(t, KindRaw, res.Kind)
}

func TestDecodeTranscript(t *testing.T) {
	res := decode(t, `{"final_response": {"success": true, "transcript": "pani kab dena hai"}}`)
	require.Equal(t, KindTranscript, res.Kind)
	require.True(t, res.Transcript.Success)
	require.Equal(t, "pani kab dena hai", res.Transcript.Transcript)

	res = decode(t, `{"final_response": {"success": false, "error": "audio too short"}}`)
	require.Equal(t, KindTranscript, res.Kind)
	require.False(t, res.Transcript.Success)
	require.Equal(t, "audio too short", res.Transcript.Error)
}

func TestDecodeRawFallback(t *testing.T) {
	body := `{"something_new": {"value": 42}}`
	res := decode(t, body)
	require.Equal(t, KindRaw, res.Kind)
	require.JSONEq(t, body, string(res.Raw))

	res = decode(t, `not json at all`)
	require.Equal(t, KindRaw, res.Kind)
}

func TestDecodeSessionID(t *testing.T) {
	res := decode(t, `{"session_id": "s-123", "final_response": {"message": "ok"}}`)
	require.Equal(t, "s-123", res.SessionID)
}

func TestMarkdownCoversEveryKind(t *testing.T) {
	cases := []Result{
		{Kind: KindAdvisory, Advisory: &Advisory{RiskLevel: "High", PredictedIssues: []PredictedIssue{{Issue: "Hoppers"}}}},
		{Kind: KindMessage, Message: "hello"},
		{Kind: KindSchemes, Schemes: &SchemesInfo{Schemes: []Scheme{{Name: "PM-KISAN"}}}},
		{Kind: KindDisease, Disease: &DiseaseAnalysis{DiseaseName: "Anthracnose"}},
		{Kind: KindTranscript, Transcript: &Transcript{Success: true, Transcript: "hi"}},
		{Kind: KindRaw, Raw: json.RawMessage(`{"a":1}`)},
	}
	for _, c := range cases {
		require.NotEmpty(t, Markdown(c))
	}
}
