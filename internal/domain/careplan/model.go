package careplan

// Plan is the eight-section care plan produced by the text model. Every leaf
// field is free-form natural language; nothing beyond a successful parse is
// validated.
type Plan struct {
	PlantName      string      `json:"plantName"`
	Watering       Watering    `json:"watering"`
	Light          Light       `json:"light"`
	Temperature    Temperature `json:"temperature"`
	Humidity       string      `json:"humidity"`
	Soil           Soil        `json:"soil"`
	Fertilizing    Fertilizing `json:"fertilizing"`
	CommonProblems []Problem   `json:"commonProblems"`
	Maintenance    Maintenance `json:"maintenance"`
	Tips           []string    `json:"tips"`
}

type Watering struct {
	Frequency     string `json:"frequency"`
	Amount        string `json:"amount"`
	SeasonalNotes string `json:"seasonalNotes"`
}

type Light struct {
	Ideal     string `json:"ideal"`
	Tolerates string `json:"tolerates"`
}

type Temperature struct {
	Optimal string `json:"optimal"`
	Minimum string `json:"minimum"`
}

type Soil struct {
	Type     string `json:"type"`
	PH       string `json:"pH"`
	Drainage string `json:"drainage"`
}

type Fertilizing struct {
	Schedule string `json:"schedule"`
	Type     string `json:"type"`
}

type Problem struct {
	Issue    string `json:"issue"`
	Solution string `json:"solution"`
}

type Maintenance struct {
	Pruning   string `json:"pruning"`
	Repotting string `json:"repotting"`
}
