package identify

// Sentinel returned by the model when the image does not show vegetation.
const SentinelNotAPlant = "not_a_plant"

// NotAPlantDisplayName is the user-facing common name for the sentinel case.
const NotAPlantDisplayName = "Not a plant detected"

// Alternative is a secondary candidate when the model is uncertain.
type Alternative struct {
	CommonName     string `json:"commonName"`
	ScientificName string `json:"scientificName"`
}

// Identification is the structured identity returned by the vision model.
type Identification struct {
	CommonName          string        `json:"commonName"`
	ScientificName      string        `json:"scientificName"`
	Confidence          string        `json:"confidence"`
	IdentifyingFeatures []string      `json:"identifyingFeatures"`
	Alternatives        []Alternative `json:"alternatives"`
}

// Result pairs an identification with the derived plant/non-plant verdict.
type Result struct {
	Identification Identification
	IsPlant        bool
}

// notAPlantResult is the canonical synthesized response for non-plant images,
// used both for the sentinel common name and for the raw-text fallback.
func notAPlantResult() Result {
	return Result{
		Identification: Identification{
			CommonName:          NotAPlantDisplayName,
			ScientificName:      "",
			Confidence:          "high",
			IdentifyingFeatures: []string{"This image does not appear to contain a plant"},
			Alternatives:        nil,
		},
		IsPlant: false,
	}
}
