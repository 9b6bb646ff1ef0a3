package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"skillsync-backend/internal/domain"
	"skillsync-backend/pkg/apperror"
	"skillsync-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const msgAnalysisNotFound = "Analysis not found."

type analysisUsecase struct {
	repo     domain.AnalysisRepository
	validate *validator.Validate
}

func NewAnalysisUsecase(repo domain.AnalysisRepository, validate *validator.Validate) domain.AnalysisUsecase {
	return &analysisUsecase{repo: repo, validate: validate}
}

func (u *analysisUsecase) Save(ctx context.Context, report *domain.AnalysisReport) (*domain.AnalysisReport, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	// Security: ownership always comes from the verified token
	report.UserID = userID
	report.ResumeText = strings.TrimSpace(report.ResumeText)
	report.JobDescription = strings.TrimSpace(report.JobDescription)
	report.JobTitle = strings.TrimSpace(report.JobTitle)

	if err := u.validate.Struct(report); err != nil {
		return nil, apperror.New(http.StatusBadRequest, validation.Message(err), domain.ErrValidation)
	}

	report.ID = uuid.NewString()
	report.CreatedAt = time.Now().UTC()
	if report.MatchingSkills == nil {
		report.MatchingSkills = []string{}
	}
	if report.MissingSkills == nil {
		report.MissingSkills = []string{}
	}
	if report.Improvements == nil {
		report.Improvements = []domain.Improvement{}
	}

	if err := u.repo.Create(ctx, report); err != nil {
		return nil, apperror.Internal(err)
	}
	return report, nil
}

func (u *analysisUsecase) ListMine(ctx context.Context) ([]domain.AnalysisSummary, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	list, err := u.repo.FetchByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if list == nil {
		list = []domain.AnalysisSummary{}
	}
	return list, nil
}

func (u *analysisUsecase) Get(ctx context.Context, id string) (*domain.AnalysisReport, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperror.New(http.StatusNotFound, msgAnalysisNotFound, domain.ErrNotFound)
	}

	report, err := u.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.New(http.StatusNotFound, msgAnalysisNotFound, domain.ErrNotFound)
		}
		return nil, apperror.Internal(err)
	}
	return report, nil
}

func currentUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || userID == "" {
		return "", apperror.New(http.StatusUnauthorized, "User not authenticated", domain.ErrUnauthenticated)
	}
	return userID, nil
}
