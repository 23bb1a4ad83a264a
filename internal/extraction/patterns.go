package extraction

import (
	"regexp"
	"strings"
)

// Fixed vocabulary behind the person patterns. Matching is done against
// the word lists below, never against runtime-mutable state.
var relationshipWords = []string{
	"mother", "father", "mom", "dad", "mama", "papa",
	"sister", "brother", "wife", "husband", "spouse",
	"son", "daughter",
	"grandmother", "grandfather", "grandma", "grandpa",
	"aunt", "uncle", "cousin", "niece", "nephew",
	"friend", "neighbor", "boss", "teacher", "partner",
}

// Capitalized words that start false-positive "name" matches: pronouns,
// days, months, seasons, and common discourse markers.
var personStopWords = map[string]bool{
	"I": true, "We": true, "He": true, "She": true, "It": true, "They": true, "You": true,
	"My": true, "His": true, "Her": true, "Our": true, "Their": true, "Your": true, "Its": true,
	"The": true, "A": true, "An": true, "And": true, "But": true, "Or": true, "So": true,
	"Then": true, "That": true, "This": true, "These": true, "Those": true,
	"When": true, "Where": true, "What": true, "Who": true, "How": true, "Why": true, "If": true,
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true, "Friday": true,
	"Saturday": true, "Sunday": true,
	"January": true, "February": true, "March": true, "April": true, "May": true, "June": true,
	"July": true, "August": true, "September": true, "October": true, "November": true, "December": true,
	"Spring": true, "Summer": true, "Fall": true, "Autumn": true, "Winter": true,
	"Well": true, "Oh": true, "Yeah": true, "Okay": true, "Yes": true, "No": true,
	"Today": true, "Tomorrow": true, "Yesterday": true,
}

var stateAbbrevs = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true, "CT": true,
	"DE": true, "FL": true, "GA": true, "HI": true, "ID": true, "IL": true, "IN": true,
	"IA": true, "KS": true, "KY": true, "LA": true, "ME": true, "MD": true, "MA": true,
	"MI": true, "MN": true, "MS": true, "MO": true, "MT": true, "NE": true, "NV": true,
	"NH": true, "NJ": true, "NM": true, "NY": true, "NC": true, "ND": true, "OH": true,
	"OK": true, "OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true, "WI": true,
	"WY": true,
}

// Checked verbatim (case-sensitive) against the transcript, once per state.
var stateNames = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado", "Connecticut",
	"Delaware", "Florida", "Georgia", "Hawaii", "Idaho", "Illinois", "Indiana", "Iowa",
	"Kansas", "Kentucky", "Louisiana", "Maine", "Maryland", "Massachusetts", "Michigan",
	"Minnesota", "Mississippi", "Missouri", "Montana", "Nebraska", "Nevada",
	"New Hampshire", "New Jersey", "New Mexico", "New York", "North Carolina",
	"North Dakota", "Ohio", "Oklahoma", "Oregon", "Pennsylvania", "Rhode Island",
	"South Carolina", "South Dakota", "Tennessee", "Texas", "Utah", "Vermont",
	"Virginia", "Washington", "West Virginia", "Wisconsin", "Wyoming",
}

var stateNameSet = func() map[string]bool {
	set := make(map[string]bool, len(stateNames))
	for _, s := range stateNames {
		set[s] = true
	}
	return set
}()

const (
	nameExpr  = `[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?`
	monthExpr = `January|February|March|April|May|June|July|August|September|October|November|December`
	yearExpr  = `1[89]\d{2}|20[0-2]\d`
)

var relExpr = strings.Join(relationshipWords, "|")

// People patterns, applied in order. Later patterns never override an
// identity already recorded by an earlier one.
var (
	// "my mother Mary", "his wife Helen Smith"
	relBeforeNameRe = regexp.MustCompile(`\b(?i:my|his|her|our)\s+((?i:` + relExpr + `))\s+(` + nameExpr + `)`)
	// "Mary, my mother"
	nameBeforeRelRe = regexp.MustCompile(`\b(` + nameExpr + `),\s+(?i:my|his|her|our)\s+((?i:` + relExpr + `))\b`)
	// two or more consecutive capitalized tokens
	capitalizedSeqRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
)

// Place patterns.
var (
	// "Springfield, IL" or "Springfield, Illinois"; the second token is
	// validated against the state tables after matching.
	cityStateRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*),\s+([A-Z]{2}|[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`)
	// "1206 South Crystal Street"
	streetAddressRe = regexp.MustCompile(`\b\d+\s+(?:[A-Z][a-z]+\s+)+(?:Street|Avenue|Road|Drive|Lane|Boulevard|Court|Place|Way|St|Ave|Rd|Dr|Ln|Blvd|Ct|Pl)\b`)
)

// Date patterns, evaluated in this order against a shared dedup set
// keyed on the exact raw matched string.
var (
	fullDateRe   = regexp.MustCompile(`\b(?:` + monthExpr + `)\s+\d{1,2},\s+\d{4}\b`)
	monthYearRe  = regexp.MustCompile(`\b(?:` + monthExpr + `)\s+\d{4}\b`)
	seasonYearRe = regexp.MustCompile(`\b(?i:spring|summer|fall|autumn|winter)\s+(?:of\s+)?\d{4}\b`)
	decadeRe     = regexp.MustCompile(`\b((?i:early|mid|late))\s+(\d{4})s\b`)
	bareYearRe   = regexp.MustCompile(`\b(` + yearExpr + `)\b`)
)

// Event keyword patterns, one per event type, each scanned independently
// over the full transcript.
type eventPattern struct {
	eventType string
	re        *regexp.Regexp
}

var eventPatterns = []eventPattern{
	{"birth", regexp.MustCompile(`(?i)\b(born|birth)\b`)},
	{"death", regexp.MustCompile(`(?i)\b(died|passed away|death|funeral)\b`)},
	{"marriage", regexp.MustCompile(`(?i)\b(married|marriage|wedding)\b`)},
	{"move", regexp.MustCompile(`(?i)\b(moved|relocated|settled)\b`)},
	{"job", regexp.MustCompile(`(?i)\b(job|worked|working|career|hired|retired|factory)\b`)},
	{"education", regexp.MustCompile(`(?i)\b(school|college|university|graduated|graduation)\b`)},
	{"military", regexp.MustCompile(`(?i)\b(army|navy|air force|marines|military|enlisted|drafted)\b`)},
}

// snippet returns the text within radius characters of [start, end),
// trimmed of surrounding whitespace.
func snippet(text string, start, end, radius int) string {
	from := start - radius
	if from < 0 {
		from = 0
	}
	to := end + radius
	if to > len(text) {
		to = len(text)
	}
	return strings.TrimSpace(text[from:to])
}

func firstToken(s string) string {
	if i := strings.IndexAny(s, " \t\n"); i >= 0 {
		return s[:i]
	}
	return s
}
