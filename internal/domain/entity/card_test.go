package entity

import (
	"errors"
	"math"
	"testing"
)

func TestNewGenerationRequest(t *testing.T) {
	req, err := NewGenerationRequest("  Google ", "   ")
	if err != nil {
		t.Fatal(err)
	}
	if req.Company != "Google" || req.Role != DefaultRole {
		t.Errorf("unexpected request %+v", req)
	}
	if req.ID == "" || req.CreatedAt.IsZero() {
		t.Errorf("request id and timestamp must be set")
	}

	other, _ := NewGenerationRequest("Google", "PMs")
	if other.ID == req.ID {
		t.Errorf("request ids must be unique")
	}

	if _, err := NewGenerationRequest(" ", "PMs"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestCardFilename(t *testing.T) {
	tests := []struct {
		company, role, want string
	}{
		{"Google", "Engineers", "tal-google-engineers.png"},
		{"Tech Mahindra", "Product Managers", "tal-tech-mahindra-product-managers.png"},
		{"ICICI Bank", "Relationship Managers", "tal-icici-bank-relationship-managers.png"},
	}
	for _, tt := range tests {
		if got := CardFilename(tt.company, tt.role); got != tt.want {
			t.Errorf("CardFilename(%q, %q) = %q, want %q", tt.company, tt.role, got, tt.want)
		}
	}
}

func TestPricingCost(t *testing.T) {
	got := GeminiProPricing.Cost(1500, 300)
	want := 1500.0/1e6*2.00 + 300.0/1e6*12.00 + 0.014
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Cost = %v, want %v", got, want)
	}
	if got := GeminiProPricing.Cost(0, 0); math.Abs(got-0.014) > 1e-12 {
		t.Errorf("search charge = %v, want 0.014", got)
	}
}

func TestNewFallbackRoast(t *testing.T) {
	r := NewFallbackRoast(3)
	if r.Text != FallbackRoast || !r.Fallback || r.Attempts != 3 {
		t.Errorf("unexpected fallback %+v", r)
	}
	if r.InputTokens != 0 || r.OutputTokens != 0 || r.Cost != 0 {
		t.Errorf("fallback must carry zero usage")
	}
}

func TestProgressFuncNil(t *testing.T) {
	var f ProgressFunc
	f.Emit(StageLogo, "no panic")

	var got []ProgressEvent
	f = func(ev ProgressEvent) { got = append(got, ev) }
	f.Emit(StageRoast, "Generating roast...")
	if len(got) != 1 || got[0].Stage != StageRoast {
		t.Errorf("got %+v", got)
	}
}
