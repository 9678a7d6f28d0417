package controller

import (
	"mindwell_backend/internal/model"
	"mindwell_backend/internal/service"
	"mindwell_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Catalog *service.CatalogService
}

func NewQuestionController(catalog *service.CatalogService) *QuestionController {
	return &QuestionController{Catalog: catalog}
}

// @Summary Question catalog
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param category query string false "category filter (jolly, health, mental_health)"
// @Success 200 {object} util.Response
// @Router /api/questions [get]
func (c *QuestionController) GetQuestions(ctx *gin.Context) {
	category := model.Category(ctx.Query("category"))

	questions, err := c.Catalog.Questions(ctx.Request.Context(), category)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"questions": questions,
		"total":     len(questions),
	})
}

// @Summary Question categories
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/questions/categories [get]
func (c *QuestionController) GetCategories(ctx *gin.Context) {
	util.Success(ctx, c.Catalog.Categories())
}
