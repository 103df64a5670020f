package controller

import (
	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/service"
	"quiz_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Service *service.QuizService
}

func NewQuestionController(s *service.QuizService) *QuestionController {
	return &QuestionController{Service: s}
}

type CheckAnswerRequest struct {
	AnswerID model.ID `json:"answerId" binding:"required"`
}

// @Summary 获取题目
// @Tags 题目
// @Produce json
// @Param id path string true "题目 ID"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	q, err := c.Service.GetQuestion(ctx.Request.Context(), model.ID(ctx.Param("id")))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary 提交答案
// @Description Returns whether the chosen answer is correct and which answers were
// @Tags 题目
// @Accept json
// @Produce json
// @Param id path string true "题目 ID"
// @Param request body CheckAnswerRequest true "所选答案"
// @Success 200 {object} util.Response{data=model.AnswerResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/questions/{id}/check [post]
func (c *QuestionController) Check(ctx *gin.Context) {
	var req CheckAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "answerId is required")
		return
	}

	result, err := c.Service.CheckAnswer(ctx.Request.Context(), model.ID(ctx.Param("id")), req.AnswerID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
