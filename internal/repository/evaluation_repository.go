package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"saasradar/internal/model"
)

type EvaluationRepository struct {
	db *sql.DB
}

func NewEvaluationRepository(db *sql.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

func (r *EvaluationRepository) Save(eval *model.Evaluation) error {
	diligence, err := json.Marshal(eval.Diligence)
	if err != nil {
		return err
	}

	var factors any
	if eval.ScoreFactors != nil {
		factors, err = json.Marshal(eval.ScoreFactors)
		if err != nil {
			return err
		}
	}

	return r.db.QueryRow(`
		INSERT INTO evaluation(company_name, zone, overview, justification, diligence, x_score, y_score, score_factors)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, eval.CompanyName, eval.Zone, eval.Overview, eval.Justification, diligence,
		eval.XScore, eval.YScore, factors).Scan(&eval.ID, &eval.CreatedAt)
}

func (r *EvaluationRepository) GetByID(id int64) (*model.Evaluation, error) {
	row := r.db.QueryRow(`
		SELECT id, company_name, zone, overview, justification, diligence, x_score, y_score, score_factors, created_at
		FROM evaluation
		WHERE id = $1
	`, id)

	eval, err := scanEvaluation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return eval, nil
}

// GetRecentByName returns the newest evaluation for a company created after
// the cutoff, matched case-insensitively. Nil when none qualifies.
func (r *EvaluationRepository) GetRecentByName(name string, since time.Time) (*model.Evaluation, error) {
	row := r.db.QueryRow(`
		SELECT id, company_name, zone, overview, justification, diligence, x_score, y_score, score_factors, created_at
		FROM evaluation
		WHERE LOWER(company_name) = LOWER($1) AND created_at > $2
		ORDER BY created_at DESC
		LIMIT 1
	`, name, since)

	eval, err := scanEvaluation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return eval, nil
}

func (r *EvaluationRepository) GetHistory(limit int) ([]model.Evaluation, error) {
	rows, err := r.db.Query(`
		SELECT id, company_name, zone, overview, justification, diligence, x_score, y_score, score_factors, created_at
		FROM evaluation
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evals []model.Evaluation
	for rows.Next() {
		eval, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evals = append(evals, *eval)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return evals, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row rowScanner) (*model.Evaluation, error) {
	var e model.Evaluation
	var diligence []byte
	var factors []byte

	err := row.Scan(&e.ID, &e.CompanyName, &e.Zone, &e.Overview, &e.Justification,
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

	return &e, nil
}
