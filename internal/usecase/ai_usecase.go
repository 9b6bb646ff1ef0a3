package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"skillsync-backend/internal/analysis"
	"skillsync-backend/internal/domain"
	"skillsync-backend/pkg/apperror"
	"skillsync-backend/pkg/logger"
)

// Pipeline step names, as they appear in logs, metrics and warnings.
const (
	StepExtractResumeSkills = "extract_resume_skills"
	StepExtractJobSkills    = "extract_job_skills"
	StepCompare             = "compare"
	StepFeedback            = "feedback"
	StepImprovements        = "improvements"
)

// Analysis outcomes for metrics.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// AnalysisMetrics receives pipeline observations. *metrics.Manager satisfies it.
type AnalysisMetrics interface {
	RecordParseFallback(step, reason string)
	RecordAnalysis(outcome string, elapsed time.Duration)
}

type aiUsecase struct {
	client  domain.CompletionClient
	catalog *analysis.ResourceCatalog
	metrics AnalysisMetrics
}

func NewAIUsecase(client domain.CompletionClient, catalog *analysis.ResourceCatalog, metrics AnalysisMetrics) domain.AIUsecase {
	if catalog == nil {
		catalog = analysis.NewResourceCatalog(analysis.DefaultSearchURL)
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &aiUsecase{client: client, catalog: catalog, metrics: metrics}
}

type noopMetrics struct{}

func (noopMetrics) RecordParseFallback(string, string) {}

func (noopMetrics) RecordAnalysis(string, time.Duration) {}

// Analyze runs extract, extract, compare, feedback and improvements in order.
// A failed completion call degrades only its own step; the request fails only
// when every call failed or ctx was cancelled.
func (u *aiUsecase) Analyze(ctx context.Context, resumeText, jobDescription string) (*domain.AnalysisResult, error) {
	resumeText = strings.TrimSpace(resumeText)
	jobDescription = strings.TrimSpace(jobDescription)
	if resumeText == "" || jobDescription == "" {
		return nil, apperror.New(http.StatusBadRequest, "Resume text and job description are required.", domain.ErrValidation)
	}

	run := &pipelineRun{ctx: ctx, uc: u, started: time.Now()}

	if err := run.checkContext(); err != nil {
		return nil, err
	}
	resumeSkills := run.extractSkills(StepExtractResumeSkills, resumeText)

	if err := run.checkContext(); err != nil {
		return nil, err
	}
	jobSkills := run.extractSkills(StepExtractJobSkills, jobDescription)

	if err := run.checkContext(); err != nil {
		return nil, err
	}
	cmp := run.compare(resumeSkills, jobSkills)

	if err := run.checkContext(); err != nil {
		return nil, err
	}
	feedback := run.feedback(resumeText, jobDescription, cmp.Matching, cmp.Missing)

	if err := run.checkContext(); err != nil {
		return nil, err
	}
	suggestions := run.improvements(resumeText, jobDescription)

	if run.calls > 0 && run.failures == run.calls {
		u.metrics.RecordAnalysis(OutcomeFailed, time.Since(run.started))
		logger.Log.ErrorContext(ctx, "analysis failed: completion endpoint unavailable", "calls", run.calls)
		return nil, apperror.New(http.StatusInternalServerError,
			"The analysis service is unavailable. Please try again later.", domain.ErrUpstreamUnavailable)
	}

	result := &domain.AnalysisResult{
		MatchScore:     analysis.MatchScore(len(cmp.Matching), len(jobSkills)),
		MatchingSkills: cmp.Matching,
		MissingSkills:  cmp.Missing,
		Analysis:       feedback,
		Improvements:   u.catalog.Improvements(suggestions),
		JobTitle:       cmp.JobTitle,
	}
	if len(run.upstreamFailed) > 0 {
		result.Warning = fmt.Sprintf("Some results are approximate because the AI service did not respond for: %s.",
			strings.Join(run.upstreamFailed, ", "))
	}

	outcome := OutcomeOK
	if run.degraded {
		outcome = OutcomeDegraded
	}
	u.metrics.RecordAnalysis(outcome, time.Since(run.started))
	logger.Log.InfoContext(ctx, "analysis completed",
		"outcome", outcome,
		"match_score", result.MatchScore,
		"job_skills", len(jobSkills),
		"duration_ms", time.Since(run.started).Milliseconds(),
	)
	return result, nil
}

// pipelineRun tracks one Analyze call.
type pipelineRun struct {
	ctx     context.Context
	uc      *aiUsecase
	started time.Time

	calls          int
	failures       int
	degraded       bool
	upstreamFailed []string
}

func (r *pipelineRun) checkContext() error {
	if err := r.ctx.Err(); err != nil {
		r.uc.metrics.RecordAnalysis(OutcomeFailed, time.Since(r.started))
		logger.Log.WarnContext(r.ctx, "analysis aborted", "error", err)
		return err
	}
	return nil
}

// complete reports ok=false when the call itself failed.
func (r *pipelineRun) complete(step, prompt string) (string, bool) {
	r.calls++
	reply, err := r.uc.client.Complete(r.ctx, prompt)
	if err != nil {
		r.failures++
		r.upstreamFailed = append(r.upstreamFailed, step)
		logger.Log.WarnContext(r.ctx, "completion call failed", "step", step, "error", err)
		return "", false
	}
	return reply, true
}

func (r *pipelineRun) record(step string, fallback analysis.Fallback, began time.Time) {
	level := slog.LevelInfo
	if fallback != analysis.FallbackNone {
		r.degraded = true
		r.uc.metrics.RecordParseFallback(step, string(fallback))
		level = slog.LevelWarn
	}
	logger.Log.Log(r.ctx, level, "analysis step",
		"step", step,
		"fallback", string(fallback),
		"duration_ms", time.Since(began).Milliseconds(),
	)
}

func (r *pipelineRun) extractSkills(step, text string) []string {
	began := time.Now()
	prompt, err := analysis.BuildSkillExtractionPrompt(text)
	if err != nil {
		res := analysis.SkillListFallback(analysis.FallbackEmptyReply)
		r.record(step, res.Fallback, began)
		return res.Value
	}

	reply, ok := r.complete(step, prompt)
	var res analysis.Result[[]string]
	if ok {
		res = analysis.ParseSkillList(reply)
	} else {
		res = analysis.Result[[]string]{
			Value:    analysis.NormalizeSkills(analysis.ExtractKeywords(text, analysis.DefaultKeywordLimit)),
			Fallback: analysis.FallbackLocalKeywords,
		}
	}
	r.record(step, res.Fallback, began)
	return res.Value
}

func (r *pipelineRun) compare(resumeSkills, jobSkills []string) analysis.Comparison {
	began := time.Now()
	reply, ok := r.complete(StepCompare, analysis.BuildSkillComparisonPrompt(resumeSkills, jobSkills))
	res := analysis.ComparisonFallback(jobSkills, analysis.FallbackUpstreamError)
	if ok {
		res = analysis.ParseComparison(reply, jobSkills)
	}
	r.record(StepCompare, res.Fallback, began)
	return res.Value
}

func (r *pipelineRun) feedback(resume, jobDescription string, matching, missing []string) string {
	began := time.Now()
	reply, ok := r.complete(StepFeedback, analysis.BuildRelevancePrompt(resume, jobDescription, matching, missing))
	res := analysis.FeedbackFallback(analysis.FallbackUpstreamError)
	if ok {
		res = analysis.ParseFeedback(reply)
	}
	r.record(StepFeedback, res.Fallback, began)
	return res.Value
}

func (r *pipelineRun) improvements(resume, jobDescription string) []analysis.Suggestion {
	began := time.Now()
	reply, ok := r.complete(StepImprovements, analysis.BuildImprovementPrompt(resume, jobDescription))
	res := analysis.ImprovementsFallback(analysis.FallbackUpstreamError)
	if ok {
		res = analysis.ParseImprovements(reply)
	}
	r.record(StepImprovements, res.Fallback, began)
	return res.Value
}
