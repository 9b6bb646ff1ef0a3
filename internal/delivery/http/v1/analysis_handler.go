package v1

import (
	"encoding/json"
	"net/http"
	"strings"

	"skillsync-backend/internal/delivery/http/response"
	"skillsync-backend/internal/domain"
	"skillsync-backend/pkg/apperror"
	"skillsync-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct {
	analysisUC domain.AnalysisUsecase
}

func NewAnalysisHandler(protected *gin.RouterGroup, analysisUC domain.AnalysisUsecase) {
	handler := &AnalysisHandler{analysisUC: analysisUC}

	analyses := protected.Group("/analysis")
	{
		analyses.POST("/save", handler.Save)
		analyses.GET("/mine", handler.ListMine)
		analyses.GET("/:id", handler.GetByID)
	}
}

// SaveAnalysisRequest mirrors what the web client posts: the list fields
// arrive as JSON-encoded strings.
type SaveAnalysisRequest struct {
	ResumeText     string  `json:"resumeText" binding:"required,notblank"`
	JobDescription string  `json:"jobDescription" binding:"required,notblank"`
	MatchScore     float64 `json:"matchScore" binding:"gte=0,lte=1"`
	MatchingSkills string  `json:"matchingSkills" binding:"json_string_array"`
	MissingSkills  string  `json:"missingSkills" binding:"json_string_array"`
	Analysis       string  `json:"analysis"`
	Improvements   string  `json:"improvements" binding:"json_improvements"`
	JobTitle       string  `json:"jobTitle" binding:"max=255"`
}

func (r SaveAnalysisRequest) toReport() (*domain.AnalysisReport, error) {
	report := &domain.AnalysisReport{
		ResumeText:     r.ResumeText,
		JobDescription: r.JobDescription,
		MatchScore:     r.MatchScore,
		Analysis:       r.Analysis,
		JobTitle:       r.JobTitle,
		MatchingSkills: []string{},
		MissingSkills:  []string{},
		Improvements:   []domain.Improvement{},
	}
	if err := decodeJSONField(r.MatchingSkills, &report.MatchingSkills); err != nil {
		return nil, err
	}
	if err := decodeJSONField(r.MissingSkills, &report.MissingSkills); err != nil {
		return nil, err
	}
	if err := decodeJSONField(r.Improvements, &report.Improvements); err != nil {
		return nil, err
	}
	return report, nil
}

func decodeJSONField(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

// Save godoc
// @Summary      Save an analysis
// @Description  Stores an analysis result under the caller's account
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body      SaveAnalysisRequest  true  "Analysis to save"
// @Success      200      {object}  response.MessageResponse
// @Failure      400      {object}  response.ErrorResponse
// @Failure      401      {object}  response.ErrorResponse
// @Router       /analysis/save [post]
// @Security     BearerAuth
func (h *AnalysisHandler) Save(c *gin.Context) {
	var req SaveAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.New(http.StatusBadRequest, validation.Message(err), domain.ErrValidation))
		return
	}

	report, err := req.toReport()
	if err != nil {
		c.Error(apperror.New(http.StatusBadRequest, "Skill and improvement fields must be valid JSON.", domain.ErrValidation))
		return
	}

	saved, err := h.analysisUC.Save(c.Request.Context(), report)
	if err != nil {
		c.Error(err)
		return
	}

	response.Created(c, http.StatusOK, "Analysis saved.", saved.ID)
}

// ListMine godoc
// @Summary      List my analyses
// @Description  Returns the caller's saved analyses, newest first
// @Tags         analysis
// @Produce      json
// @Success      200  {array}   domain.AnalysisSummary
// @Failure      401  {object}  response.ErrorResponse
// @Router       /analysis/mine [get]
// @Security     BearerAuth
func (h *AnalysisHandler) ListMine(c *gin.Context) {
	summaries, err := h.analysisUC.ListMine(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// GetByID godoc
// @Summary      Get an analysis
// @Description  Returns one saved analysis. Analyses owned by other accounts are reported as not found.
// @Tags         analysis
// @Produce      json
// @Param        id   path      string  true  "Analysis ID"
// @Success      200  {object}  domain.AnalysisReport
// @Failure      401  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /analysis/{id} [get]
// @Security     BearerAuth
func (h *AnalysisHandler) GetByID(c *gin.Context) {
	report, err := h.analysisUC.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, report)
}
