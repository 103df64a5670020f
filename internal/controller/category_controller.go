package controller

import (
	"quiz_portal_backend/internal/service"
	"quiz_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	Service *service.QuizService
}

func NewCategoryController(s *service.QuizService) *CategoryController {
	return &CategoryController{Service: s}
}

// @Summary 获取分类列表
// @Tags 分类
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Category}
// @Failure 502 {object} util.Response
// @Router /api/categories [get]
func (c *CategoryController) List(ctx *gin.Context) {
	categories, err := c.Service.ListCategories(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// @Summary 获取分类及其题目
// @Tags 分类
// @Produce json
// @Param slug path string true "分类 slug"
// @Success 200 {object} util.Response{data=model.CategoryPage}
// @Failure 404 {object} util.Response
// @Router /api/categories/{slug} [get]
func (c *CategoryController) Get(ctx *gin.Context) {
	page, err := c.Service.GetCategoryPage(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, page)
}

// @Summary 获取分类下可作答的题目
// @Description Questions without answers are left out
// @Tags 分类
// @Produce json
// @Param slug path string true "分类 slug"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Failure 404 {object} util.Response
// @Router /api/categories/{slug}/questions [get]
func (c *CategoryController) Questions(ctx *gin.Context) {
	questions, err := c.Service.ListPlayableQuestions(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}
