package settings

// FarmSettings is the farmer profile attached to analysis submissions.
// Field values are free-form strings; the backend tolerates anything, so no
// range or enum validation happens on save.
type FarmSettings struct {
	FarmerName         string   `json:"farmerName"`
	CropType           string   `json:"cropType"`
	Acreage            float64  `json:"acreage"`
	SowingDate         string   `json:"sowingDate"`
	CurrentStage       string   `json:"currentStage"`
	SoilType           string   `json:"soilType"`
	CurrentChallenges  string   `json:"currentChallenges"`
	PreferredLanguages []string `json:"preferredLanguages"`
}

// CropStages lists the growth stages offered by the settings panel.
var CropStages = []string{
	"New Flush/Sprouting",
	"Flowering",
	"Fruit Set",
	"Fruit Development",
	"Maturity/Harvest",
}

// SoilTypes lists the soil classes offered by the settings panel.
var SoilTypes = []string{"A", "B", "C"}

// Languages lists the supported query languages.
var Languages = []string{
	"English", "Hindi", "Bengali", "Tamil", "Telugu",
	"Marathi", "Gujarati", "Kannada", "Malayalam", "Punjabi",
}

// Defaults returns the profile used before the farmer saves one.
func Defaults() FarmSettings {
	return FarmSettings{
		FarmerName:         "Vijender",
		CropType:           "Mosambi",
		Acreage:            15,
		SowingDate:         "2022-01-01",
		CurrentStage:       "Fruit Development",
		SoilType:           "A",
		CurrentChallenges:  "Currently there are no challenges.",
		PreferredLanguages: []string{"English"},
	}
}
