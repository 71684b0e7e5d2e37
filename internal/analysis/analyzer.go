package analysis

import (
	"context"
	"encoding/json"
	"regexp"

	"consent-backend/internal/llm"
	"consent-backend/internal/shared/telemetry"
)

// jsonObjectPattern greedily captures the first top-level brace-delimited
// object in a reply, ignoring surrounding prose.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Analyzer derives a canonical consent record from raw document text.
type Analyzer struct {
	LLM llm.ReasoningProvider
}

// Analyze asks the reasoning provider for a structured reading of the text
// and validates the reply. It never fails outward: any provider error or
// unparseable reply degrades to the all-defaults record, reported through
// logging only.
func (a *Analyzer) Analyze(ctx context.Context, text string) Record {
	reply, err := a.LLM.Complete(ctx, buildPrompt(text))
	if err != nil {
		telemetry.Warn("analysis.degraded", map[string]any{
			"reason": "completion failed",
			"err":    err.Error(),
		})
		return DefaultRecord()
	}

	raw := jsonObjectPattern.FindString(reply)
	if raw == "" {
		telemetry.Warn("analysis.degraded", map[string]any{
			"reason":       "no json object in reply",
			"reply_prefix": prefix(reply, 500),
		})
		return DefaultRecord()
	}

	var parsed parsedRecord
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		telemetry.Warn("analysis.degraded", map[string]any{
			"reason":       "json parse failed",
			"err":          err.Error(),
			"reply_prefix": prefix(raw, 500),
		})
		return DefaultRecord()
	}

	return parsed.applyDefaults()
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
