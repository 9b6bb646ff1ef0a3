package v1

import (
	"net/http"

	"skillsync-backend/internal/analysis"

	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	catalog *analysis.ResourceCatalog
}

func NewResourceHandler(public *gin.RouterGroup, catalog *analysis.ResourceCatalog) {
	handler := &ResourceHandler{catalog: catalog}

	public.GET("/resources/:skill", handler.Lookup)
}

// Lookup godoc
// @Summary      Learning resources for a skill
// @Tags         resources
// @Produce      json
// @Param        skill  path      string  true  "Skill name"
// @Success      200    {object}  domain.SkillResources
// @Router       /resources/{skill} [get]
func (h *ResourceHandler) Lookup(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Lookup(c.Param("skill")))
}
