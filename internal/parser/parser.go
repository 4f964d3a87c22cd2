// Package parser turns free-form model output into recommendation records.
//
// Two independent strategies are used. The primary strategy scans for the
// exact block shape the prompt asks for:
//
//	🎨 **Title - Saturday 2pm-4pm**
//	📍 Place Name • 0.3 miles
//	Description text...
//
// The fallback strategy only runs when the primary one finds nothing. It
// splits on blank lines and accepts any paragraph whose first line starts
// with an emoji and carries a bold title.
package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shrimpy8/family-activity-finder/internal/modules/activity"
)

// Placeholder used by the fallback strategy when no pin line is present.
const Placeholder = "See description"

const emojiClass = `[\x{1F300}-\x{1F9FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]`

var (
	// blockHeader matches everything up to the first character of a description.
	blockHeader = regexp.MustCompile(`(` + emojiClass + `\x{FE0F}?)\s*\*\*([^*]+)\*\*\s*\n📍\s*([^•\n]+)•\s*([^\n]+)\s*\n+`)

	paragraphBreak = regexp.MustCompile(`\n\n+`)
	leadingEmoji   = regexp.MustCompile(`^(` + emojiClass + `)`)
	boldTitle      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	pinLocation    = regexp.MustCompile(`📍\s*([^•]+)•\s*([^\n]+)`)
	afterPinLine   = regexp.MustCompile(`(?s)📍[^\n]+\n(.+)`)
	pinLine        = regexp.MustCompile(`📍[^\n]+\n?`)
)

// Parse returns at most activity.MaxRecommendations records in source order.
// An empty result means neither strategy recognised anything.
func Parse(text string) []activity.Recommendation {
	recs := parseBlocks(text)
	if len(recs) == 0 {
		recs = parseParagraphs(text)
	}
	if len(recs) > activity.MaxRecommendations {
		recs = recs[:activity.MaxRecommendations]
	}
	return recs
}

// parseBlocks is the primary strategy. A description runs until a newline that
// is directly followed by an emoji-range character, or to the end of input, so
// a description line that itself starts with such a character ends the block.
func parseBlocks(text string) []activity.Recommendation {
	var recs []activity.Recommendation
	pos := 0
	for pos < len(text) {
		m := blockHeader.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		descStart := pos + m[1]
		descEnd := descriptionEnd(text, descStart)
		if descEnd < 0 {
			break
		}

		rec := activity.Recommendation{
			Emoji:       text[pos+m[2] : pos+m[3]],
			Title:       strings.TrimSpace(text[pos+m[4] : pos+m[5]]),
			Location:    strings.TrimSpace(text[pos+m[6] : pos+m[7]]),
			Distance:    strings.TrimSpace(text[pos+m[8] : pos+m[9]]),
			Description: strings.TrimSpace(text[descStart:descEnd]),
		}
		pos = descEnd
		if rec.Emoji == "" || rec.Title == "" || rec.Location == "" || rec.Distance == "" || rec.Description == "" {
			continue
		}
		recs = append(recs, rec)
	}
	return recs
}

// descriptionEnd returns the end offset of a description starting at start, or
// -1 when there is no room for one. The description always holds at least one
// character.
func descriptionEnd(text string, start int) int {
	if start >= len(text) {
		return -1
	}
	_, size := utf8.DecodeRuneInString(text[start:])
	i := start + size
	for i < len(text) {
		nl := strings.IndexByte(text[i:], '\n')
		if nl < 0 {
			break
		}
		at := i + nl
		if r, _ := utf8.DecodeRuneInString(text[at+1:]); isEmoji(r) {
			return at
		}
		i = at + 1
	}
	return len(text)
}

func isEmoji(r rune) bool {
	return (r >= 0x1F300 && r <= 0x1F9FF) ||
		(r >= 0x2600 && r <= 0x26FF) ||
		(r >= 0x2700 && r <= 0x27BF)
}

// parseParagraphs is the fallback strategy.
func parseParagraphs(text string) []activity.Recommendation {
	var recs []activity.Recommendation
	for _, section := range paragraphBreak.Split(text, -1) {
		lines := strings.Split(strings.TrimSpace(section), "\n")
		if len(lines) < 2 || lines[0] == "" {
			continue
		}
		first := lines[0]
		emoji := leadingEmoji.FindStringSubmatch(first)
		title := boldTitle.FindStringSubmatch(first)
		if emoji == nil || title == nil || strings.TrimSpace(title[1]) == "" {
			continue
		}

		rest := strings.Join(lines[1:], "\n")
		location, distance := Placeholder, Placeholder
		if m := pinLocation.FindStringSubmatch(rest); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				location = v
			}
			if v := strings.TrimSpace(m[2]); v != "" {
				distance = v
			}
		}

		description := ""
		if m := afterPinLine.FindStringSubmatch(rest); m != nil {
			description = strings.TrimSpace(m[1])
		}
		if description == "" {
			description = strings.TrimSpace(removeFirst(pinLine, rest))
		}
		if description == "" {
			description = rest
		}

		recs = append(recs, activity.Recommendation{
			Emoji:       emoji[1],
			Title:       strings.TrimSpace(title[1]),
			Description: description,
			Location:    location,
			Distance:    distance,
		})
	}
	return recs
}

func removeFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}
