package query

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"consent-backend/internal/consents"
	"consent-backend/internal/llm"
	"consent-backend/internal/patients"
	"consent-backend/internal/shared/metrics"
	"consent-backend/internal/shared/telemetry"
)

const (
	// NoRecordsMessage is returned without a provider call when the patient
	// has no indexed consent forms.
	NoRecordsMessage = "I could not find any consent forms associated with your account. " +
		"Please contact your healthcare provider if you believe this is an error."
	// FallbackMessage is the user-facing reply when the reasoning provider
	// fails; internal errors are never surfaced to the patient.
	FallbackMessage = "I apologize, but I'm having trouble processing your query right now. Please try again."
)

//go:embed prompts/answer.txt
var answerTemplate string

// Service answers natural-language questions over one patient's own
// consent index entries.
type Service struct {
	LLM llm.ReasoningProvider
}

// Answer formats the patient's entries as bounded context and asks the
// reasoning provider under an own-data-only instruction. It never fails
// outward.
func (s *Service) Answer(ctx context.Context, patient patients.Patient, question string, entries []consents.EntityIndex) string {
	if len(entries) == 0 {
		return NoRecordsMessage
	}

	prompt := strings.NewReplacer(
		"{{CONSENT_CONTEXT}}", formatContext(entries),
		"{{QUESTION}}", question,
	).Replace(answerTemplate)

	answer, err := s.LLM.Complete(ctx, prompt)
	if err != nil {
		telemetry.Warn("query.degraded", map[string]any{
			"patient_id": patient.ID,
			"err":        err.Error(),
		})
		return FallbackMessage
	}

	metrics.IncQueryAnswered()
	return strings.TrimSpace(answer)
}

// formatContext renders every entry as a numbered bounded block.
func formatContext(entries []consents.EntityIndex) string {
	var b strings.Builder
	for i, entry := range entries {
		fmt.Fprintf(&b, "\nCONSENT FORM #%d:\n", i+1)
		fmt.Fprintf(&b, "- Patient: %s\n", entry.PatientName)
		fmt.Fprintf(&b, "- Procedure: %s\n", entry.Procedure)
		fmt.Fprintf(&b, "- Doctor: %s\n", entry.DoctorName)
		fmt.Fprintf(&b, "- Date: %s\n", orUnknown(entry.ProcedureDate))
		fmt.Fprintf(&b, "- Consented to: %s\n", joinItems(entry.ConsentedItems))
		fmt.Fprintf(&b, "- Declined: %s\n", joinItems(entry.DeclinedItems))
		fmt.Fprintf(&b, "- Summary: %s\n", entry.Summary)
	}
	return b.String()
}

func orUnknown(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "Unknown"
	}
	return *value
}

func joinItems(rawJSON string) string {
	var items []string
	if err := json.Unmarshal([]byte(rawJSON), &items); err != nil || len(items) == 0 {
		return "None listed"
	}
	return strings.Join(items, ", ")
}
