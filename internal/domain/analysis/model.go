package analysis

import (
	"time"

	"github.com/nurturemyplants/plantcare/internal/domain/careplan"
	"github.com/nurturemyplants/plantcare/internal/domain/identify"
)

// NotAPlantMessage is shown when an upload does not contain vegetation.
const NotAPlantMessage = "I don't see a plant in this image! 🌱 Please try uploading a photo of a plant, flower, tree, or any other vegetation for identification and care guidance."

// Result is the immutable outcome of one upload: identification plus, for
// real plants, a care plan. It lives only in the response; nothing is kept
// server-side.
type Result struct {
	Identification identify.Identification `json:"identification"`
	CarePlan       *careplan.Plan          `json:"carePlan,omitempty"`
	IsPlant        bool                    `json:"isPlant"`
	Message        string                  `json:"message,omitempty"`
	SessionID      string                  `json:"sessionId"`
	Timestamp      time.Time               `json:"timestamp"`
}
