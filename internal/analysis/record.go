package analysis

// Record is the canonical, fully-defaulted structured representation of one
// consent form. Every field is populated after validation; optional dates
// stay nil rather than empty to keep "not stated" distinct from "".
type Record struct {
	PatientName    string   `json:"patient_name"`
	PatientEmail   string   `json:"patient_email"`
	PatientDOB     *string  `json:"patient_dob"`
	DoctorName     string   `json:"doctor_name"`
	Procedure      string   `json:"procedure"`
	ProcedureDate  *string  `json:"procedure_date"`
	ConsentedItems []string `json:"consented_items"`
	DeclinedItems  []string `json:"declined_items"`
	Summary        string   `json:"summary"`
}

const (
	defaultName    = "Unknown"
	defaultEmail   = "unknown@example.com"
	defaultSummary = "Unable to extract summary from consent form."
)

// DefaultRecord returns the known-safe record used when analysis degrades.
func DefaultRecord() Record {
	return Record{
		PatientName:    defaultName,
		PatientEmail:   defaultEmail,
		PatientDOB:     nil,
		DoctorName:     defaultName,
		Procedure:      defaultName,
		ProcedureDate:  nil,
		ConsentedItems: []string{},
		DeclinedItems:  []string{},
		Summary:        defaultSummary,
	}
}

// parsedRecord mirrors Record with every field optional so missing and
// explicitly-null values can be told apart from zero values before defaults
// are applied.
type parsedRecord struct {
	PatientName    *string   `json:"patient_name"`
	PatientEmail   *string   `json:"patient_email"`
	PatientDOB     *string   `json:"patient_dob"`
	DoctorName     *string   `json:"doctor_name"`
	Procedure      *string   `json:"procedure"`
	ProcedureDate  *string   `json:"procedure_date"`
	ConsentedItems *[]string `json:"consented_items"`
	DeclinedItems  *[]string `json:"declined_items"`
	Summary        *string   `json:"summary"`
}

// applyDefaults merges the declared default table over the parsed object.
// It runs after every successful parse, independent of key ordering.
func (p parsedRecord) applyDefaults() Record {
	rec := DefaultRecord()
	if p.PatientName != nil {
		rec.PatientName = *p.PatientName
	}
	if p.PatientEmail != nil {
		rec.PatientEmail = *p.PatientEmail
	}
	if p.PatientDOB != nil {
		rec.PatientDOB = p.PatientDOB
	}
	if p.DoctorName != nil {
		rec.DoctorName = *p.DoctorName
	}
	if p.Procedure != nil {
		rec.Procedure = *p.Procedure
	}
	if p.ProcedureDate != nil {
		rec.ProcedureDate = p.ProcedureDate
	}
	if p.ConsentedItems != nil {
		rec.ConsentedItems = *p.ConsentedItems
	}
	if p.DeclinedItems != nil {
		rec.DeclinedItems = *p.DeclinedItems
	}
	if p.Summary != nil {
		rec.Summary = *p.Summary
	}
	return rec
}
