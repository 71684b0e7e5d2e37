package consents

import (
	"context"
	"database/sql"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) CreateWithIndex(ctx context.Context, consent Consent, index EntityIndex) error {
	if index.ConsentID != consent.ID || index.PatientID != consent.PatientID {
		return ErrPatientMismatch
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const consentQuery = `
INSERT INTO consents (id, patient_id, filename, full_text, analysis_json, processed_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, consentQuery,
		consent.ID,
		consent.PatientID,
		consent.Filename,
		consent.FullText,
		consent.AnalysisJSON,
		consent.ProcessedAt,
	); err != nil {
		return fmt.Errorf("insert consent: %w", err)
	}

	const indexQuery = `
INSERT INTO entity_index (
  id, consent_id, patient_id,
  patient_name, patient_email, patient_dob,
  doctor_name, procedure, procedure_date,
  consented_items, declined_items, summary,
  search_terms, processed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	if _, err := tx.ExecContext(ctx, indexQuery,
		index.ID,
		index.ConsentID,
		index.PatientID,
		index.PatientName,
		index.PatientEmail,
		index.PatientDOB,
		index.DoctorName,
		index.Procedure,
		index.ProcedureDate,
		index.ConsentedItems,
		index.DeclinedItems,
		index.Summary,
		index.SearchTerms,
		index.ProcessedAt,
	); err != nil {
		return fmt.Errorf("insert entity index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PGRepo) ListIndexByPatient(ctx context.Context, patientID string) ([]EntityIndex, error) {
	const query = `
SELECT id, consent_id, patient_id,
       patient_name, patient_email, patient_dob,
       doctor_name, procedure, procedure_date,
       consented_items, declined_items, summary,
       search_terms, processed_at
FROM entity_index
WHERE patient_id = $1
ORDER BY processed_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EntityIndex
	for rows.Next() {
		var index EntityIndex
		if err := rows.Scan(
			&index.ID,
			&index.ConsentID,
			&index.PatientID,
			&index.PatientName,
			&index.PatientEmail,
			&index.PatientDOB,
			&index.DoctorName,
			&index.Procedure,
			&index.ProcedureDate,
			&index.ConsentedItems,
			&index.DeclinedItems,
			&index.Summary,
			&index.SearchTerms,
			&index.ProcessedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, index)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountByPatient(ctx context.Context, patientID string) (int, error) {
	const query = `SELECT count(*) FROM entity_index WHERE patient_id = $1`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, patientID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
