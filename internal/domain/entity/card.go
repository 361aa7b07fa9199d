package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultRole = "Engineers"

type GenerationRequest struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewGenerationRequest trims its inputs and fills in DefaultRole when role is blank.
func NewGenerationRequest(company, role string) (GenerationRequest, error) {
	company = strings.TrimSpace(company)
	role = strings.TrimSpace(role)
	if company == "" {
		return GenerationRequest{}, ErrInvalidRequest
	}
	if role == "" {
		role = DefaultRole
	}
	return GenerationRequest{
		ID:        uuid.New().String(),
		Company:   company,
		Role:      role,
		CreatedAt: time.Now(),
	}, nil
}

// Filename is the download name of the rendered card, e.g. tal-tech-mahindra-product-managers.png.
func (r GenerationRequest) Filename() string {
	return CardFilename(r.Company, r.Role)
}

func CardFilename(company, role string) string {
	slug := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), " ", "-")
	}
	return "tal-" + slug(company) + "-" + slug(role) + ".png"
}

type CardArtifact struct {
	RequestID   string      `json:"request_id"`
	Image       []byte      `json:"-"`
	ContentType string      `json:"content_type"`
	Filename    string      `json:"filename"`
	Domain      string      `json:"domain"`
	Category    string      `json:"category"`
	LogoURL     string      `json:"logo_url,omitempty"`
	Roast       RoastResult `json:"roast"`
}

func (c *CardArtifact) HasLogo() bool {
	return c.LogoURL != ""
}
