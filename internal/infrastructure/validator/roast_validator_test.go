package validator

import (
	"strings"
	"testing"
)

func TestCleanRoast(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "preamble hiding a bold span",
			raw:  "Here's your roast: **Your standup is basically therapy you didn't consent to.**",
			want: "Your standup is basically therapy you didn't consent to.",
		},
		{
			name: "double quotes",
			raw:  `"Your sprint planning is astrology with Jira tickets."`,
			want: "Your sprint planning is astrology with Jira tickets.",
		},
		{
			name: "backticks",
			raw:  "`Your CI pipeline has more flakes than a croissant.`",
			want: "Your CI pipeline has more flakes than a croissant.",
		},
		{
			name: "inline emphasis",
			raw:  "Your *agile* transformation is a waterfall in a hoodie.",
			want: "Your agile transformation is a waterfall in a hoodie.",
		},
		{
			name: "bullet",
			raw:  "- You call it a hackathon, HR calls it unpaid overtime.",
			want: "You call it a hackathon, HR calls it unpaid overtime.",
		},
		{
			name: "unicode bullet",
			raw:  "•   You call it a hackathon, HR calls it unpaid overtime.",
			want: "You call it a hackathon, HR calls it unpaid overtime.",
		},
		{
			name: "okay preamble is case insensitive",
			raw:  "okay, here goes: Your OKRs are just wishes with a spreadsheet.",
			want: "Your OKRs are just wishes with a spreadsheet.",
		},
		{
			name: "label",
			raw:  "Roast:   Your OKRs are just wishes with a spreadsheet.",
			want: "Your OKRs are just wishes with a spreadsheet.",
		},
		{
			name: "my roast label",
			raw:  "MY ROAST: Your OKRs are just wishes with a spreadsheet.",
			want: "Your OKRs are just wishes with a spreadsheet.",
		},
		{
			name: "newlines and runs of whitespace",
			raw:  "Your roadmap\n\nis a\t\tvision board\n with   deadlines.",
			want: "Your roadmap is a vision board with deadlines.",
		},
		{
			name: "already clean",
			raw:  "Your deploy freeze lasts longer than your product launches.",
			want: "Your deploy freeze lasts longer than your product launches.",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanRoast(tt.raw); got != tt.want {
				t.Errorf("CleanRoast(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCleanRoastIdempotent(t *testing.T) {
	samples := []string{
		"",
		"plain text",
		`""double wrapped""`,
		"***bold and italic***",
		"Sure, fine: Okay, again: Roast: *nested* **markers** here",
		"- • - stacked bullets",
		"Here's one: \"quoted after preamble\"",
		"  \n\n  leading and trailing whitespace \t ",
		"Output:Output:Output: repeated labels",
		"`'\"mixed quotes\"'`",
		"*a*b*c*d*",
		"Based on my research: The roast: - **Your Slack status is a cry for help.**",
		strings.Repeat("'", 12) + "Your standup is basically therapy you didn't consent to.",
		strings.Repeat("- ", 12) + "Your standup is basically therapy you didn't consent to.",
		strings.Repeat("*", 30) + strings.Repeat("\"", 30) + "deeply wrapped roast text here",
	}

	for _, s := range samples {
		once := CleanRoast(s)
		twice := CleanRoast(once)
		if once != twice {
			t.Errorf("CleanRoast not idempotent for %q: once=%q twice=%q", s, once, twice)
		}
	}
}

func TestCleanRoastDeepNesting(t *testing.T) {
	want := "Your standup is basically therapy you didn't consent to."
	tests := []string{
		strings.Repeat("'", 12) + want,
		strings.Repeat("- ", 12) + want,
		strings.Repeat("• ", 20) + want,
	}
	for _, in := range tests {
		if got := CleanRoast(in); got != want {
			t.Errorf("CleanRoast(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsValidRoast(t *testing.T) {
	tests := []struct {
		name  string
		roast string
		want  bool
	}{
		{"empty", "", false},
		{"too short", "Too short roast", false},
		{"exactly min", strings.Repeat("a", MinRoastLength), true},
		{"one under min", strings.Repeat("a", MinRoastLength-1), false},
		{"exactly max", strings.Repeat("a", MaxRoastLength), true},
		{"one over max", strings.Repeat("a", MaxRoastLength+1), false},
		{"multibyte counted as runes", strings.Repeat("é", MaxRoastLength), true},
		{"representative", "Your standup is basically therapy you didn't consent to.", true},
		{"here preamble", "Here is a roast for your engineers at Google", false},
		{"based preamble", "Based on recent news, your layoffs are agile.", false},
		{"lowercase ok preamble", "ok so your deploys are scheduled by vibes", false},
		{"I preamble", "I think your engineers love meetings too much", false},
		{"let me preamble", "Let me research this company first, then roast", false},
		{"step preamble", "Step 1: find the funniest thing about them", false},
		{"label", "The roast is that your standups never end", false},
		{"roast colon", "Roast: your standups never end and never start", false},
		{"bold leftover", "Your standups are **legendary** for never ending", false},
		{"word starting with I but not pronoun", "Interns run your production database on Fridays.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidRoast(tt.roast); got != tt.want {
				t.Errorf("IsValidRoast(%q) = %v, want %v", tt.roast, got, tt.want)
			}
		})
	}
}

func TestCleanThenValidateBoldPreamble(t *testing.T) {
	raw := "Here's your roast: **Your standup is basically therapy you didn't consent to.**"
	cleaned := CleanRoast(raw)
	if cleaned != "Your standup is basically therapy you didn't consent to." {
		t.Fatalf("unexpected cleaned text %q", cleaned)
	}
	if !IsValidRoast(cleaned) {
		t.Fatalf("expected cleaned roast to be valid: %q", cleaned)
	}
}
