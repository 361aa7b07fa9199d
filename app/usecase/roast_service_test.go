package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"roastcard/internal/domain/entity"
	"roastcard/internal/infrastructure/logger"
)

type fakeLLM struct {
	replies []entity.ModelReply
	errs    []error
	calls   int
	prompts []string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (entity.ModelReply, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], err
	}
	if err == nil {
		err = errors.New("no more replies")
	}
	return entity.ModelReply{}, err
}

func (f *fakeLLM) ModelName() string { return "fake-model" }

const goodRoast = "Your standups run longer than your deploy pipeline ever has."

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGenerateRoastMissingModel(t *testing.T) {
	s := NewRoastService(nil, entity.GeminiProPricing, logger.Discard())

	_, err := s.GenerateRoast(context.Background(), "Google", "Engineers")
	if !errors.Is(err, entity.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestGenerateRoastFirstAttempt(t *testing.T) {
	llm := &fakeLLM{replies: []entity.ModelReply{
		{Text: `"` + goodRoast + `"`, InputTokens: 1000, OutputTokens: 100},
	}}
	s := NewRoastService(llm, entity.GeminiProPricing, logger.Discard())

	res, err := s.GenerateRoast(context.Background(), "Google", "Engineers")
	if err != nil {
		t.Fatalf("GenerateRoast: %v", err)
	}
	if res.Text != goodRoast {
		t.Errorf("text = %q", res.Text)
	}
	if res.Fallback || res.Attempts != 1 || llm.calls != 1 {
		t.Errorf("unexpected result %+v after %d calls", res, llm.calls)
	}
	want := 1000.0/1e6*2.00 + 100.0/1e6*12.00 + 0.014
	if !almostEqual(res.Cost, want) {
		t.Errorf("cost = %v, want %v", res.Cost, want)
	}
}

func TestGenerateRoastAccumulatesTokensAcrossAttempts(t *testing.T) {
	llm := &fakeLLM{replies: []entity.ModelReply{
		{Text: "Here is some background research on the company first.", InputTokens: 1000, OutputTokens: 200},
		{Text: "**" + goodRoast + "**", InputTokens: 1000, OutputTokens: 100},
	}}
	s := NewRoastService(llm, entity.GeminiProPricing, logger.Discard())

	res, err := s.GenerateRoast(context.Background(), "Google", "Engineers")
	if err != nil {
		t.Fatalf("GenerateRoast: %v", err)
	}
	if res.Text != goodRoast {
		t.Errorf("text = %q", res.Text)
	}
	if res.InputTokens != 2000 || res.OutputTokens != 300 {
		t.Errorf("tokens = %d/%d, want 2000/300", res.InputTokens, res.OutputTokens)
	}
	if res.Attempts != 2 {
		t.Errorf("attempts = %d", res.Attempts)
	}
	want := 2000.0/1e6*2.00 + 300.0/1e6*12.00 + 0.014
	if !almostEqual(res.Cost, want) {
		t.Errorf("cost = %v, want %v", res.Cost, want)
	}
}

func TestGenerateRoastRecoversFromCallError(t *testing.T) {
	llm := &fakeLLM{
		errs:    []error{errors.New("503"), nil},
		replies: []entity.ModelReply{{}, {Text: goodRoast, InputTokens: 10, OutputTokens: 5}},
	}
	s := NewRoastService(llm, entity.GeminiProPricing, logger.Discard())

	res, err := s.GenerateRoast(context.Background(), "Zomato", "")
	if err != nil {
		t.Fatalf("GenerateRoast: %v", err)
	}
	if res.Fallback || res.Attempts != 2 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.InputTokens != 10 || res.OutputTokens != 5 {
		t.Errorf("failed call should not add tokens, got %d/%d", res.InputTokens, res.OutputTokens)
	}
	if !strings.Contains(llm.prompts[0], "Engineers at Zomato") {
		t.Errorf("blank role should default to Engineers, prompt: %s", llm.prompts[0])
	}
}

func TestGenerateRoastFallback(t *testing.T) {
	tests := []struct {
		name string
		llm  *fakeLLM
	}{
		{
			name: "all calls fail",
			llm:  &fakeLLM{errs: []error{errors.New("a"), errors.New("b"), errors.New("c")}},
		},
		{
			name: "all outputs invalid",
			llm: &fakeLLM{replies: []entity.ModelReply{
				{Text: "too short", InputTokens: 50, OutputTokens: 5},
				{Text: "Let me think about this company for a moment.", InputTokens: 50, OutputTokens: 5},
				{Text: strings.Repeat("a", 251), InputTokens: 50, OutputTokens: 5},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewRoastService(tt.llm, entity.GeminiProPricing, logger.Discard())

			res, err := s.GenerateRoast(context.Background(), "Acme", "Engineers")
			if err != nil {
				t.Fatalf("fallback must not error: %v", err)
			}
			if res.Text != entity.FallbackRoast || !res.Fallback {
				t.Errorf("expected fallback, got %+v", res)
			}
			if res.InputTokens != 0 || res.OutputTokens != 0 || res.Cost != 0 {
				t.Errorf("fallback must carry zero usage, got %+v", res)
			}
			if tt.llm.calls != 3 {
				t.Errorf("calls = %d, want 3", tt.llm.calls)
			}
		})
	}
}

func TestGenerateRoastStopsAfterSuccess(t *testing.T) {
	llm := &fakeLLM{replies: []entity.ModelReply{
		{Text: goodRoast},
		{Text: goodRoast},
		{Text: goodRoast},
	}}
	s := NewRoastService(llm, entity.GeminiProPricing, logger.Discard())

	if _, err := s.GenerateRoast(context.Background(), "Acme", "Engineers"); err != nil {
		t.Fatal(err)
	}
	if llm.calls != 1 {
		t.Errorf("calls = %d, want 1", llm.calls)
	}
}

func TestGenerateRoastCanceledContext(t *testing.T) {
	llm := &fakeLLM{replies: []entity.ModelReply{{Text: goodRoast}}}
	s := NewRoastService(llm, entity.GeminiProPricing, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.GenerateRoast(ctx, "Acme", "Engineers")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Fallback || llm.calls != 0 {
		t.Errorf("expected fallback without calls, got %+v after %d calls", res, llm.calls)
	}
}

func TestGenerateRoastCountsUsageOfEmptyReplies(t *testing.T) {
	llm := &fakeLLM{
		errs: []error{errors.New("gemini returned no text"), nil},
		replies: []entity.ModelReply{
			{Text: "", InputTokens: 1000, OutputTokens: 0},
			{Text: goodRoast, InputTokens: 1000, OutputTokens: 40},
		},
	}
	s := NewRoastService(llm, entity.GeminiProPricing, logger.Discard())

	res, err := s.GenerateRoast(context.Background(), "Acme", "Engineers")
	if err != nil {
		t.Fatalf("GenerateRoast: %v", err)
	}
	if res.InputTokens != 2000 || res.OutputTokens != 40 {
		t.Errorf("tokens = %d/%d, want 2000/40", res.InputTokens, res.OutputTokens)
	}
	want := 2000.0/1e6*2.00 + 40.0/1e6*12.00 + 0.014
	if !almostEqual(res.Cost, want) {
		t.Errorf("cost = %v, want %v", res.Cost, want)
	}
}
