package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"skillsync-backend/internal/domain"
)

type analysisRepo struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) domain.AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Create(ctx context.Context, report *domain.AnalysisReport) error {
	matching, err := encodeJSON(nonNilStrings(report.MatchingSkills))
	if err != nil {
		return fmt.Errorf("analysis_reports: matching_skills: %w", err)
	}
	missing, err := encodeJSON(nonNilStrings(report.MissingSkills))
	if err != nil {
		return fmt.Errorf("analysis_reports: missing_skills: %w", err)
	}
	improvements, err := encodeJSON(nonNilImprovements(report.Improvements))
	if err != nil {
		return fmt.Errorf("analysis_reports: improvements: %w", err)
	}

	query := `INSERT INTO analysis_reports (
                id, user_id, resume_text, job_description, match_score,
                matching_skills, missing_skills, analysis, improvements, job_title, created_at
              ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		report.ID, report.UserID, report.ResumeText, report.JobDescription, report.MatchScore,
		matching, missing, report.Analysis, improvements, report.JobTitle, formatTime(report.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("analysis_reports: insert: %w", err)
	}
	return nil
}

// GetByIDForUser only matches rows owned by userID, so foreign ids look missing.
func (r *analysisRepo) GetByIDForUser(ctx context.Context, id, userID string) (*domain.AnalysisReport, error) {
	query := `SELECT id, user_id, resume_text, job_description, match_score,
                     matching_skills, missing_skills, analysis, improvements, job_title, created_at
              FROM analysis_reports
              WHERE id = ? AND user_id = ?`

	var (
		rep                             domain.AnalysisReport
		matching, missing, improvements string
		createdAt                       string
	)
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&rep.ID, &rep.UserID, &rep.ResumeText, &rep.JobDescription, &rep.MatchScore,
		&matching, &missing, &rep.Analysis, &improvements, &rep.JobTitle, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("analysis_reports: select: %w", err)
	}

	if err := json.Unmarshal([]byte(matching), &rep.MatchingSkills); err != nil {
		return nil, fmt.Errorf("analysis_reports: decode matching_skills: %w", err)
	}
	if err := json.Unmarshal([]byte(missing), &rep.MissingSkills); err != nil {
		return nil, fmt.Errorf("analysis_reports: decode missing_skills: %w", err)
	}
	if err := json.Unmarshal([]byte(improvements), &rep.Improvements); err != nil {
		return nil, fmt.Errorf("analysis_reports: decode improvements: %w", err)
	}
	if rep.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("analysis_reports: created_at: %w", err)
	}

	rep.MatchingSkills = nonNilStrings(rep.MatchingSkills)
	rep.MissingSkills = nonNilStrings(rep.MissingSkills)
	rep.Improvements = nonNilImprovements(rep.Improvements)
	return &rep, nil
}

func (r *analysisRepo) FetchByUserID(ctx context.Context, userID string) ([]domain.AnalysisSummary, error) {
	query := `SELECT id, job_title, job_description, match_score, created_at
              FROM analysis_reports
              WHERE user_id = ?
              ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("analysis_reports: list: %w", err)
	}
	defer rows.Close()

	summaries := []domain.AnalysisSummary{}
	for rows.Next() {
		var (
			s         domain.AnalysisSummary
			createdAt string
		)
		if err := rows.Scan(&s.ID, &s.JobTitle, &s.JobDescription, &s.MatchScore, &createdAt); err != nil {
			return nil, fmt.Errorf("analysis_reports: scan: %w", err)
		}
		if s.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("analysis_reports: created_at: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
