package entity

const FallbackRoast = "Your LinkedIn writes checks your JIRA can't cash."

// ModelReply is the raw output of one generation call.
type ModelReply struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

type RoastResult struct {
	Text         string  `json:"roast"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Cost         float64 `json:"cost"`
	Fallback     bool    `json:"fallback"`
	Attempts     int     `json:"attempts"`
}

func NewFallbackRoast(attempts int) RoastResult {
	return RoastResult{
		Text:     FallbackRoast,
		Fallback: true,
		Attempts: attempts,
	}
}

// Pricing is per million tokens plus a flat charge per grounded search query.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
	SearchPerQuery   float64
}

var GeminiProPricing = Pricing{
	InputPerMillion:  2.00,
	OutputPerMillion: 12.00,
	SearchPerQuery:   14.00 / 1000,
}

// Cost charges a single search query regardless of how many attempts were made.
func (p Pricing) Cost(inputTokens, outputTokens int) float64 {
	input := float64(inputTokens) / 1_000_000 * p.InputPerMillion
	output := float64(outputTokens) / 1_000_000 * p.OutputPerMillion
	return input + output + p.SearchPerQuery
}
