package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinRoastLength = 20
	MaxRoastLength = 250
)

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// Order matters: quotes and asterisks first, then preambles, then whitespace.
var cleanSteps = []rewrite{
	{regexp.MustCompile("^[\"'`]|[\"'`]$"), ""},
	{regexp.MustCompile(`^\*+|\*+$`), ""},
	{regexp.MustCompile(`\*([^*]+)\*`), "$1"},
	{regexp.MustCompile(`^[-•]\s*`), ""},
	{regexp.MustCompile(`(?i)^(Here's|Based on|OK,|Okay,|Alright,|Sure,).+?:`), ""},
	{regexp.MustCompile(`(?i)^(The roast|Roast|My roast|Output):\s*`), ""},
	{regexp.MustCompile(`\n+`), " "},
	{regexp.MustCompile(`\s+`), " "},
}

var rejectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(Here|Based|OK|I |Let me|Background|Research|Context|Think|Step|First)`),
	regexp.MustCompile(`(?i)^(The roast|Roast:|Output:|My roast)`),
	regexp.MustCompile(`\*\*`),
}

func cleanOnce(s string) string {
	for _, step := range cleanSteps {
		s = step.re.ReplaceAllString(s, step.repl)
	}
	return strings.TrimSpace(s)
}

// CleanRoast strips quotes, markdown emphasis, bullets, chatty preambles and
// labels from model output and normalizes whitespace. The pass is repeated
// until the text is stable, so CleanRoast(CleanRoast(s)) == CleanRoast(s).
// Every pass that changes the text shortens it or turns newlines and tabs
// into spaces, so the loop terminates.
func CleanRoast(raw string) string {
	s := raw
	for {
		next := cleanOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

// IsValidRoast rejects text that is too short, too long, or still carries
// model preamble or markdown bold. Length is counted in runes.
func IsValidRoast(roast string) bool {
	if roast == "" {
		return false
	}
	n := utf8.RuneCountInString(roast)
	if n > MaxRoastLength || n < MinRoastLength {
		return false
	}
	for _, re := range rejectPatterns {
		if re.MatchString(roast) {
			return false
		}
	}
	return true
}
