package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"skillsync-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// listByUserQuery orders newest first; id breaks ties between rows saved in the same instant.
const listByUserQuery = `SELECT id, job_title, job_description, match_score, created_at
              FROM analysis_reports
              WHERE user_id = $1
              ORDER BY created_at DESC, id DESC`

type analysisRepo struct {
	db *pgxpool.Pool
}

func NewAnalysisRepository(db *pgxpool.Pool) domain.AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Create(ctx context.Context, report *domain.AnalysisReport) error {
	improvements, err := json.Marshal(nonNilImprovements(report.Improvements))
	if err != nil {
		return fmt.Errorf("analysis_reports: encode improvements: %w", err)
	}

	query := `INSERT INTO analysis_reports (
                id, user_id, resume_text, job_description, match_score,
                matching_skills, missing_skills, analysis, improvements, job_title, created_at
              ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.db.Exec(ctx, query,
		report.ID, report.UserID, report.ResumeText, report.JobDescription, report.MatchScore,
		pq.Array(nonNilStrings(report.MatchingSkills)), pq.Array(nonNilStrings(report.MissingSkills)),
		report.Analysis, string(improvements), report.JobTitle, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("analysis_reports: insert: %w", err)
	}
	return nil
}

// GetByIDForUser only matches rows owned by userID, so foreign ids look missing.
func (r *analysisRepo) GetByIDForUser(ctx context.Context, id, userID string) (*domain.AnalysisReport, error) {
	query := `SELECT id, user_id, resume_text, job_description, match_score,
                     matching_skills, missing_skills, analysis, improvements::text, job_title, created_at
              FROM analysis_reports
              WHERE id = $1 AND user_id = $2`

	var (
		rep          domain.AnalysisReport
		matching     []string
		missing      []string
		improvements string
	)
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&rep.ID, &rep.UserID, &rep.ResumeText, &rep.JobDescription, &rep.MatchScore,
		pq.Array(&matching), pq.Array(&missing), &rep.Analysis, &improvements, &rep.JobTitle, &rep.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("analysis_reports: select: %w", err)
	}

	rep.MatchingSkills = nonNilStrings(matching)
	rep.MissingSkills = nonNilStrings(missing)
	if err := json.Unmarshal([]byte(improvements), &rep.Improvements); err != nil {
		return nil, fmt.Errorf("analysis_reports: decode improvements: %w", err)
	}
	rep.Improvements = nonNilImprovements(rep.Improvements)
	return &rep, nil
}

func (r *analysisRepo) FetchByUserID(ctx context.Context, userID string) ([]domain.AnalysisSummary, error) {
	rows, err := r.db.Query(ctx, listByUserQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("analysis_reports: list: %w", err)
	}
	defer rows.Close()

	summaries := []domain.AnalysisSummary{}
	for rows.Next() {
		var s domain.AnalysisSummary
		if err := rows.Scan(&s.ID, &s.JobTitle, &s.JobDescription, &s.MatchScore, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("analysis_reports: scan: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilImprovements(s []domain.Improvement) []domain.Improvement {
	if s == nil {
		return []domain.Improvement{}
	}
	return s
}
