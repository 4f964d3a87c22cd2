// Package sanitize scrubs free text before it reaches a prompt and error text
// before it leaves the process.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxPromptLength caps any user text embedded in a prompt.
	MaxPromptLength = 500
	// MaxErrorLength caps error text returned to clients.
	MaxErrorLength = 200

	DefaultErrorMessage = "An unexpected error occurred. Please try again."
)

var (
	lineBreaks   = regexp.MustCompile(`[\r\n]+`)
	whitespace   = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]`)

	pathLike   = regexp.MustCompile(`/[^\s]+`)
	stackFrame = regexp.MustCompile(`at\s+[^\s]+\s+\([^)]+\)`)

	// Go traces: goroutine headers, function frames, file:line frames and
	// "created by" lines.
	goroutineHeader = regexp.MustCompile(`goroutine \d+ \[[^\]\n]*\]:`)
	goFuncFrame     = regexp.MustCompile(`(?m)^[ \t]*(?:[\w\-/]+\.)*(?:\(\*?\w+\)\.)?\w+\([^\n]*\)[ \t]*$`)
	goFileFrame     = regexp.MustCompile(`(?m)^[ \t]+\S+\.go:\d+(?: \+0x[0-9a-f]+)?[ \t]*$`)
	goCreatedBy     = regexp.MustCompile(`(?m)^[ \t]*created by [^\n]+$`)
	stackRun        = regexp.MustCompile(`(?:\[stack trace\]\s*)+`)

	errPrefix  = regexp.MustCompile(`(?i)Error:\s*`)
	apiKey     = regexp.MustCompile(`(?i)API[_\s]?KEY`)
	password   = regexp.MustCompile(`(?i)password`)
	secret     = regexp.MustCompile(`(?i)secret`)
	token      = regexp.MustCompile(`(?i)token`)
)

// ForPrompt flattens input to one line, swaps backticks for apostrophes, drops
// control characters and truncates to MaxPromptLength runes.
func ForPrompt(input string) string {
	if input == "" {
		return ""
	}
	s := lineBreaks.ReplaceAllString(input, " ")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "`", "'")
	s = controlChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return truncate(s, MaxPromptLength)
}

// ErrorMessage renders v (an error, a string, or anything recovered from a
// panic) as client-safe text. includeDetails prefixes the error's type name
// and is meant for debug mode only.
func ErrorMessage(v any, includeDetails bool) string {
	switch e := v.(type) {
	case nil:
		return DefaultErrorMessage
	case string:
		return sanitizeText(e)
	case error:
		return sanitizeError(e, includeDetails)
	default:
		return DefaultErrorMessage
	}
}

// redactStack runs before path redaction, which would otherwise break frames apart.
func redactStack(s string) string {
	for _, re := range []*regexp.Regexp{goroutineHeader, goCreatedBy, goFileFrame, goFuncFrame, stackFrame} {
		s = re.ReplaceAllString(s, "[stack trace]")
	}
	return stackRun.ReplaceAllString(s, "[stack trace] ")
}

func sanitizeText(s string) string {
	s = redactStack(s)
	s = pathLike.ReplaceAllString(s, "[path]")
	s = errPrefix.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > MaxErrorLength {
		s = truncate(s, MaxErrorLength) + "..."
	}
	if s == "" {
		return DefaultErrorMessage
	}
	return s
}

func sanitizeError(err error, includeDetails bool) string {
	msg := err.Error()
	if msg == "" {
		msg = DefaultErrorMessage
	}
	msg = apiKey.ReplaceAllString(msg, "[API_KEY]")
	msg = password.ReplaceAllString(msg, "[password]")
	msg = secret.ReplaceAllString(msg, "[secret]")
	msg = token.ReplaceAllString(msg, "[token]")
	msg = redactStack(msg)
	msg = pathLike.ReplaceAllString(msg, "[path]")
	msg = strings.TrimSpace(msg)
	if utf8.RuneCountInString(msg) > MaxErrorLength {
		msg = truncate(msg, MaxErrorLength) + "..."
	}
	if includeDetails {
		return fmt.Sprintf("%T: %s", err, msg)
	}
	return msg
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
