package generation

import (
	"regexp"
	"strings"

	"github.com/aicms/aicms-api/internal/domain"
)

// Fallback values used when a response has no matching label.
const (
	DefaultTitle    = "Generated Content"
	DefaultCategory = "General"

	fallbackKeywordLimit = 5
)

const (
	labelTitle    = "Title"
	labelCategory = "Category"
	labelKeywords = "Keywords"
	labelTags     = "Tags"
	labelContent  = "Content"
)

var (
	wordPattern = regexp.MustCompile(`\b\w+\b`)
	tagPattern  = regexp.MustCompile(`#(\w+)`)

	// sectionLabels end a Content capture.
	sectionLabels = []string{labelTitle, labelCategory, labelKeywords, labelTags}
)

// Parse extracts the labeled sections of a generated response. It never
// fails: every field missing after the scan gets its own fallback.
//
// Recognized labels are "Title:", "Category:", "Keywords:", "Tags:" and
// "Content:", each optionally wrapped in Markdown bold ("**Title:**").
// Single-line labels keep their first non-empty value. Content runs from its
// label to the next single-line label; scanning stops there, so a second
// "Content:" section is ignored.
func Parse(raw string) domain.ParsedContent {
	var parsed domain.ParsedContent

	lines := strings.Split(raw, "\n")
scan:
	for i, line := range lines {
		line = strings.TrimSpace(line)

		switch {
		case hasLabel(line, labelTitle):
			if parsed.Title == "" {
				parsed.Title = stripLabel(line, labelTitle)
			}
		case hasLabel(line, labelCategory):
			if parsed.Category == "" {
				parsed.Category = stripLabel(line, labelCategory)
			}
		case hasLabel(line, labelKeywords):
			if len(parsed.Keywords) == 0 {
				parsed.Keywords = splitKeywords(stripLabel(line, labelKeywords))
			}
		case hasLabel(line, labelTags):
			if len(parsed.Tags) == 0 {
				parsed.Tags = splitTags(stripLabel(line, labelTags))
			}
		case hasLabel(line, labelContent):
			parsed.MainContent = captureContent(line, lines[i+1:])
			break scan
		}
	}

	applyFallbacks(&parsed, raw)
	return parsed
}

func applyFallbacks(parsed *domain.ParsedContent, raw string) {
	if parsed.Title == "" {
		parsed.Title = DefaultTitle
	}
	if parsed.Category == "" {
		parsed.Category = DefaultCategory
	}
	if len(parsed.Keywords) == 0 {
		parsed.Keywords = wordPattern.FindAllString(raw, fallbackKeywordLimit)
	}
	if len(parsed.Tags) == 0 {
		for _, m := range tagPattern.FindAllStringSubmatch(raw, -1) {
			parsed.Tags = append(parsed.Tags, m[1])
		}
	}
	if parsed.MainContent == "" {
		parsed.MainContent = raw
	}
	if parsed.Keywords == nil {
		parsed.Keywords = []string{}
	}
	if parsed.Tags == nil {
		parsed.Tags = []string{}
	}
}

// captureContent joins the text after the Content label with the following
// lines up to the next section label.
func captureContent(labelLine string, rest []string) string {
	captured := []string{labelLine}
	for _, next := range rest {
		if isSectionLabel(strings.TrimSpace(next)) {
			break
		}
		captured = append(captured, strings.TrimRight(next, "\r"))
	}

	body := strings.TrimSpace(strings.Join(captured, "\n"))
	body = strings.TrimLeft(strings.TrimPrefix(body, boldLabel(labelContent)), " \t\r\n")
	body = strings.TrimLeft(strings.TrimPrefix(body, plainLabel(labelContent)), " \t\r\n")
	return strings.TrimSpace(body)
}

func isSectionLabel(line string) bool {
	for _, label := range sectionLabels {
		if hasLabel(line, label) {
			return true
		}
	}
	return false
}

func plainLabel(label string) string { return label + ":" }

func boldLabel(label string) string { return "**" + label + ":**" }

func hasLabel(line, label string) bool {
	return strings.HasPrefix(line, boldLabel(label)) || strings.HasPrefix(line, plainLabel(label))
}

// stripLabel removes the first bold and the first plain marker, then trims.
func stripLabel(line, label string) string {
	line = strings.Replace(line, boldLabel(label), "", 1)
	line = strings.Replace(line, plainLabel(label), "", 1)
	return strings.TrimSpace(line)
}

func splitKeywords(s string) []string {
	var keywords []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

func splitTags(s string) []string {
	var tags []string
	for _, field := range strings.Fields(s) {
		if !strings.HasPrefix(field, "#") {
			continue
		}
		if tag := strings.TrimPrefix(field, "#"); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
