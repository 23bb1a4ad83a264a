package extraction

import "strings"

func (x *Extractor) extractDates(text string) []DateMention {
	dates := []DateMention{}
	seen := make(map[string]bool)

	record := func(raw, dateType string, confidence Confidence) {
		if seen[raw] {
			return
		}
		seen[raw] = true
		dates = append(dates, DateMention{
			Date:       raw,
			DateType:   dateType,
			Confidence: confidence,
		})
	}

	// "March 15, 1968"
	for _, raw := range fullDateRe.FindAllString(text, -1) {
		record(raw, "day", ConfidenceExact)
	}

	// "June 1968"
	for _, raw := range monthYearRe.FindAllString(text, -1) {
		record(raw, "month", ConfidenceExact)
	}

	// "summer of 1972"
	for _, raw := range seasonYearRe.FindAllString(text, -1) {
		record(raw, "season", ConfidenceApproximate)
	}

	// "late 1960s"; the raw string is rebuilt so "Late 1960s" and
	// "late  1960s" land on the same dedup key.
	for _, m := range decadeRe.FindAllStringSubmatch(text, -1) {
		raw := strings.ToLower(m[1]) + " " + m[2] + "s"
		record(raw, "approximate", ConfidenceApproximate)
	}

	// Bare years. A year inside a composite match above has a different
	// raw string, so "1968" may still appear once alongside "June 1968".
	for _, raw := range bareYearRe.FindAllString(text, -1) {
		record(raw, "year", ConfidenceExact)
	}

	return dates
}
