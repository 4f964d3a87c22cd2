package ai

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shrimpy8/family-activity-finder/internal/modules/activity"
	"github.com/shrimpy8/family-activity-finder/internal/parser"
)

// recommendationsFromText applies the shared empty/unparsable contract to raw model output.
// The full text is logged only when logRaw is set.
func recommendationsFromText(log zerolog.Logger, label, text string, logRaw bool) ([]activity.Recommendation, error) {
	if logRaw {
		log.Debug().Int("length", len(text)).Str("raw", text).Msg("upstream response text")
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyResponse, label)
	}

	recs := parser.Parse(text)
	log.Info().Int("count", len(recs)).Msg("parsed recommendations")
	if len(recs) == 0 {
		log.Warn().Str("raw", text).Msg("no recommendations recognised in response")
		return nil, fmt.Errorf("%w: %s", ErrUnparsableResponse, label)
	}
	return recs, nil
}
