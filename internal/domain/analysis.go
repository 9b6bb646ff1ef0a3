package domain

import (
	"context"
	"time"
)

// Improvement is one actionable suggestion with a place to learn more.
type Improvement struct {
	Suggestion  string `json:"suggestion"`
	ResourceURL string `json:"resourceUrl"`
	SearchTerm  string `json:"searchTerm"`
}

// AnalysisResult is what the pipeline produces for a resume/job pair.
type AnalysisResult struct {
	MatchScore     float64       `json:"matchScore"`
	MatchingSkills []string      `json:"matchingSkills"`
	MissingSkills  []string      `json:"missingSkills"`
	Analysis       string        `json:"analysis"`
	Improvements   []Improvement `json:"improvements"`
	JobTitle       string        `json:"jobTitle"`
	Warning        string        `json:"warning,omitempty"`
}

// AnalysisReport is a saved AnalysisResult owned by one account.
type AnalysisReport struct {
	ID             string        `json:"id"`
	UserID         string        `json:"-"`
	ResumeText     string        `json:"resumeText" validate:"required"`
	JobDescription string        `json:"jobDescription" validate:"required"`
	MatchScore     float64       `json:"matchScore" validate:"gte=0,lte=1"`
	MatchingSkills []string      `json:"matchingSkills"`
	MissingSkills  []string      `json:"missingSkills"`
	Analysis       string        `json:"analysis"`
	Improvements   []Improvement `json:"improvements" validate:"dive"`
	JobTitle       string        `json:"jobTitle" validate:"max=255"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// AnalysisSummary is the list view of a saved report.
type AnalysisSummary struct {
	ID             string    `json:"id"`
	JobTitle       string    `json:"jobTitle"`
	JobDescription string    `json:"jobDescription"`
	MatchScore     float64   `json:"matchScore"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CompletionClient sends one prompt to a text-completion endpoint and returns
// the generated text.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type AnalysisRepository interface {
	Create(ctx context.Context, report *AnalysisReport) error
	GetByIDForUser(ctx context.Context, id, userID string) (*AnalysisReport, error)
	FetchByUserID(ctx context.Context, userID string) ([]AnalysisSummary, error)
}

type AIUsecase interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) (*AnalysisResult, error)
}

type AnalysisUsecase interface {
	Save(ctx context.Context, report *AnalysisReport) (*AnalysisReport, error)
	ListMine(ctx context.Context) ([]AnalysisSummary, error)
	Get(ctx context.Context, id string) (*AnalysisReport, error)
}

// LearningResource is a curated study link for a skill.
type LearningResource struct {
	Title    string `json:"title"`
	Provider string `json:"provider"`
	Type     string `json:"type"`
	URL      string `json:"url"`
}

// SkillResources bundles curated resources with a catalog search link.
type SkillResources struct {
	Skill     string             `json:"skill"`
	Resources []LearningResource `json:"resources"`
	SearchURL string             `json:"searchUrl"`
}
