package entity

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord is a write-only accounting entry for one card generation.
type UsageRecord struct {
	ID           string    `json:"id" bson:"id"`
	RequestID    string    `json:"request_id" bson:"request_id"`
	Company      string    `json:"company" bson:"company"`
	Role         string    `json:"role" bson:"role"`
	Category     string    `json:"category" bson:"category"`
	Model        string    `json:"model" bson:"model"`
	InputTokens  int       `json:"input_tokens" bson:"input_tokens"`
	OutputTokens int       `json:"output_tokens" bson:"output_tokens"`
	Cost         float64   `json:"cost" bson:"cost"`
	Attempts     int       `json:"attempts" bson:"attempts"`
	Fallback     bool      `json:"fallback" bson:"fallback"`
	LogoFound    bool      `json:"logo_found" bson:"logo_found"`
	Rendered     bool      `json:"rendered" bson:"rendered"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

func NewUsageRecord(req GenerationRequest, category, model string, roast RoastResult) *UsageRecord {
	return &UsageRecord{
		ID:           uuid.New().String(),
		RequestID:    req.ID,
		Company:      req.Company,
		Role:         req.Role,
		Category:     category,
		Model:        model,
		InputTokens:  roast.InputTokens,
		OutputTokens: roast.OutputTokens,
		Cost:         roast.Cost,
		Attempts:     roast.Attempts,
		Fallback:     roast.Fallback,
		CreatedAt:    time.Now().UTC(),
	}
}
