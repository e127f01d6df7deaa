package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"saasradar/internal/model"
)

type CohortRepository struct {
	db *sql.DB
}

func NewCohortRepository(db *sql.DB) *CohortRepository {
	return &CohortRepository{db: db}
}

func (r *CohortRepository) Create(cohort *model.Cohort) error {
	return r.db.QueryRow(`
		INSERT INTO cohort(name, status, total_companies, completed_companies, current_company)
		VALUES($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, cohort.Name, cohort.Status, cohort.TotalCompanies, cohort.CompletedCompanies,
		cohort.CurrentCompany).Scan(&cohort.ID, &cohort.CreatedAt)
}

func (r *CohortRepository) GetByID(id int64) (*model.Cohort, error) {
	var c model.Cohort
	err := r.db.QueryRow(`
		SELECT id, name, status, total_companies, completed_companies, current_company, created_at
		FROM cohort
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Status, &c.TotalCompanies, &c.CompletedCompanies, &c.CurrentCompany, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *CohortRepository) List() ([]model.Cohort, error) {
	rows, err := r.db.Query(`
		SELECT id, name, status, total_companies, completed_companies, current_company, created_at
		FROM cohort
		ORDER BY created_at DESC
	`)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cohorts []model.Cohort
	for rows.Next() {
		var c model.Cohort
		err := rows.Scan(&c.ID, &c.Name, &c.Status, &c.TotalCompanies, &c.CompletedCompanies, &c.CurrentCompany, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		cohorts = append(cohorts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cohorts, nil
}

func (r *CohortRepository) SetCurrentCompany(id int64, company string) error {
	_, err := r.db.Exec(`
		UPDATE cohort SET status = $1, current_company = $2 WHERE id = $3
	`, model.CohortStatusAnalyzing, company, id)
	return err
}

func (r *CohortRepository) IncrementCompleted(id int64) error {
	_, err := r.db.Exec(`
		UPDATE cohort SET completed_companies = completed_companies + 1 WHERE id = $1
	`, id)
	return err
}

func (r *CohortRepository) MarkComplete(id int64) error {
	_, err := r.db.Exec(`
		UPDATE cohort SET status = $1, current_company = '' WHERE id = $2
	`, model.CohortStatusComplete, id)
	return err
}

func (r *CohortRepository) MarkError(id int64) error {
	_, err := r.db.Exec(`
		UPDATE cohort SET status = $1, current_company = '' WHERE id = $2
	`, model.CohortStatusError, id)
	return err
}

// AdjustCounts shifts both counters after an edit removed members.
func (r *CohortRepository) AdjustCounts(id int64, totalDelta, completedDelta int) error {
	_, err := r.db.Exec(`
		UPDATE cohort
		SET total_companies = total_companies + $1,
			completed_companies = completed_companies + $2
		WHERE id = $3
	`, totalDelta, completedDelta, id)
	return err
}

// ReopenForAppend puts an edited cohort back into the analyzing state and
// raises the total by the number of companies queued for analysis.
func (r *CohortRepository) ReopenForAppend(id int64, added int) error {
	_, err := r.db.Exec(`
		UPDATE cohort
		SET status = $1, total_companies = total_companies + $2
		WHERE id = $3
	`, model.CohortStatusAnalyzing, added, id)
	return err
}

func (r *CohortRepository) AddMember(cohortID, evaluationID int64, position int) error {
	_, err := r.db.Exec(`
		INSERT INTO cohort_member(cohort_id, evaluation_id, position)
		VALUES($1, $2, $3)
	`, cohortID, evaluationID, position)
	return err
}

func (r *CohortRepository) MaxPosition(cohortID int64) (int, error) {
	var max int
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(position), 0) FROM cohort_member WHERE cohort_id = $1
	`, cohortID).Scan(&max)
	return max, err
}

func (r *CohortRepository) MemberCompanyNames(cohortID int64) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT e.company_name
		FROM cohort_member m
		JOIN evaluation e ON e.id = m.evaluation_id
		WHERE m.cohort_id = $1
		ORDER BY m.position
	`, cohortID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return names, nil
}

// RemoveMembers deletes the links whose evaluations match the given company
// names, case-insensitively, and reports how many rows went away. The
// evaluations themselves stay.
func (r *CohortRepository) RemoveMembers(cohortID int64, companyNames []string) (int, error) {
	result, err := r.db.Exec(`
		DELETE FROM cohort_member m
		USING evaluation e
		WHERE m.evaluation_id = e.id
			AND m.cohort_id = $1
			AND LOWER(e.company_name) = ANY(SELECT LOWER(unnest($2::text[])))
	`, cohortID, pq.Array(companyNames))
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	return int(affected), err
}

// Delete removes the cohort and its member links in one transaction.
// Evaluations referenced by the links survive for other cohorts.
func (r *CohortRepository) Delete(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM cohort_member WHERE cohort_id = $1
	`, id)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		DELETE FROM cohort WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *CohortRepository) Entries(cohortID int64) ([]model.CohortEntry, error) {
	rows, err := r.db.Query(`
		SELECT m.position,
			e.id, e.company_name, e.zone, e.overview, e.justification,
			e.diligence, e.x_score, e.y_score, e.score_factors, e.created_at
		FROM cohort_member m
		JOIN evaluation e ON e.id = m.evaluation_id
		WHERE m.cohort_id = $1
		ORDER BY m.position
	`, cohortID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.CohortEntry
	for rows.Next() {
		var entry model.CohortEntry
		var e model.Evaluation
		var diligence []byte
		var factors []byte

		err := rows.Scan(&entry.Position,
			&e.ID, &e.CompanyName, &e.Zone, &e.Overview, &e.Justification,
			&diligence, &e.XScore, &e.YScore, &factors, &e.CreatedAt)
		if err != nil {
			return nil, err
		}

		if len(diligence) > 0 {
			if err := json.Unmarshal(diligence, &e.Diligence); err != nil {
				return nil, err
			}
		}

		if len(factors) > 0 {
			var sf model.ScoreFactors
			if err := json.Unmarshal(factors, &sf); err != nil {
				return nil, err
			}
			e.ScoreFactors = &sf
		}

		entry.Evaluation = e
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
