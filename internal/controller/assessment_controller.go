package controller

import (
	"mindwell_backend/internal/model"
	"mindwell_backend/internal/service"
	"mindwell_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Sessions *service.SessionService
	Catalog  *service.CatalogService
}

func NewAssessmentController(sessions *service.SessionService, catalog *service.CatalogService) *AssessmentController {
	return &AssessmentController{Sessions: sessions, Catalog: catalog}
}

// sessionView is what the question flow renders from.
type sessionView struct {
	ID              string              `json:"id"`
	State           model.SessionState  `json:"state"`
	TotalQuestions  int                 `json:"totalQuestions"`
	AnsweredCount   int                 `json:"answeredCount"`
	Progress        int                 `json:"progress"`
	Cursor          int                 `json:"cursor"`
	CurrentQuestion *model.Question     `json:"currentQuestion,omitempty"`
	Encouragement   string              `json:"encouragement"`
}

func viewOf(session *model.AssessmentSession) sessionView {
	return sessionView{
		ID:              session.ID,
		State:           session.State,
		TotalQuestions:  len(session.Questions),
		AnsweredCount:   session.AnsweredCount(),
		Progress:        session.Progress(),
		Cursor:          session.Cursor(),
		CurrentQuestion: session.CurrentQuestion(),
		Encouragement:   util.EncouragementFor(session.AnsweredCount()),
	}
}

type startRequest struct {
	Category string `json:"category"`
}

// @Summary Start an assessment session
// @Tags assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body startRequest false "optional category restriction"
// @Success 201 {object} util.Response
// @Router /api/assessments/start [post]
func (c *AssessmentController) Start(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req startRequest
	_ = ctx.ShouldBindJSON(&req)

	questions, err := c.Catalog.Questions(ctx.Request.Context(), model.Category(req.Category))
	if err != nil {
		respondError(ctx, err)
		return
	}

	session, err := c.Sessions.Start(user.UserID, questions)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"session":   viewOf(session),
		"questions": session.Questions,
	})
}

// @Summary Session state
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id} [get]
func (c *AssessmentController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.Sessions.Get(ctx.Param("id"), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, viewOf(session))
}

type answerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

// @Summary Record an answer
// @Tags assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "session id"
// @Param body body answerRequest true "answer"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id}/answers [post]
func (c *AssessmentController) Answer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req answerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Sessions.Answer(ctx.Param("id"), user.UserID, req.QuestionID, req.Answer)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, viewOf(session))
}

// @Summary Move to the next question
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id}/advance [post]
func (c *AssessmentController) Advance(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.Sessions.Advance(ctx.Param("id"), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, viewOf(session))
}

// @Summary Move to the previous question
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id}/retreat [post]
func (c *AssessmentController) Retreat(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.Sessions.Retreat(ctx.Param("id"), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, viewOf(session))
}

// @Summary Complete the assessment
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id}/complete [post]
func (c *AssessmentController) Complete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	record, err := c.Sessions.Complete(ctx.Param("id"), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"record":  record,
		"message": util.CompletionFor(record.Score),
	})
}

// @Summary Abandon the assessment
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param id path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id}/abandon [post]
func (c *AssessmentController) Abandon(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Sessions.Abandon(ctx.Param("id"), user.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"abandoned": true})
}
