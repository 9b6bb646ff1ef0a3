package v1

import (
	"net/http"

	"skillsync-backend/internal/domain"
	"skillsync-backend/pkg/apperror"
	"skillsync-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	aiUC domain.AIUsecase
}

func NewAIHandler(public *gin.RouterGroup, aiUC domain.AIUsecase, analyzeLimit gin.HandlerFunc) {
	handler := &AIHandler{aiUC: aiUC}

	ai := public.Group("/ai")
	{
		ai.POST("/analyze", analyzeLimit, handler.Analyze)
	}
}

type AnalyzeRequest struct {
	ResumeText     string `json:"resumeText" binding:"required,notblank"`
	JobDescription string `json:"jobDescription" binding:"required,notblank"`
}

// Analyze godoc
// @Summary      Analyze a resume against a job description
// @Description  Extracts skills from both texts, compares them and returns a match score, feedback and improvement suggestions.
// @Description  When some completion calls fail the result is still returned with a warning.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      AnalyzeRequest  true  "Resume and job description"
// @Success      200      {object}  domain.AnalysisResult
// @Failure      400      {object}  response.ErrorResponse
// @Failure      429      {object}  response.ErrorResponse
// @Failure      500      {object}  response.ErrorResponse
// @Router       /ai/analyze [post]
func (h *AIHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.New(http.StatusBadRequest, validation.Message(err), domain.ErrValidation))
		return
	}

	result, err := h.aiUC.Analyze(c.Request.Context(), req.ResumeText, req.JobDescription)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
