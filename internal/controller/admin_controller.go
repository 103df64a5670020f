package controller

import (
	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/service"
	"quiz_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminController struct {
	Auth   *service.AuthService
	Quiz   *service.QuizService
	Export *service.ExportService
	log    *zap.Logger
}

func NewAdminController(auth *service.AuthService, quiz *service.QuizService, export *service.ExportService, log *zap.Logger) *AdminController {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminController{Auth: auth, Quiz: quiz, Export: export, log: log}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary 管理员登录
// @Tags 管理
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.LoginResult}
// @Failure 401 {object} util.Response
// @Router /api/admin/login [post]
func (c *AdminController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "username and password are required")
		return
	}

	result, err := c.Auth.Login(req.Username, req.Password)
	if err != nil {
		c.log.Info("admin login failed", zap.String("username", req.Username), zap.Error(err))
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 创建分类
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CategoryInput true "分类"
// @Success 201 {object} util.Response{data=model.Category}
// @Failure 400 {object} util.Response
// @Failure 405 {object} util.Response
// @Router /api/admin/categories [post]
func (c *AdminController) CreateCategory(ctx *gin.Context) {
	var in model.CategoryInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, "Invalid JSON in request body")
		return
	}

	category, err := c.Quiz.CreateCategory(ctx.Request.Context(), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// @Summary 修改分类
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "分类 slug"
// @Param request body model.CategoryInput true "分类"
// @Success 200 {object} util.Response{data=model.Category}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/categories/{slug} [patch]
func (c *AdminController) UpdateCategory(ctx *gin.Context) {
	var in model.CategoryInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, "Invalid JSON in request body")
		return
	}

	category, err := c.Quiz.UpdateCategory(ctx.Request.Context(), ctx.Param("slug"), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// @Summary 删除分类
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param slug path string true "分类 slug"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/categories/{slug} [delete]
func (c *AdminController) DeleteCategory(ctx *gin.Context) {
	slug := ctx.Param("slug")
	if err := c.Quiz.DeleteCategory(ctx.Request.Context(), slug); err != nil {
		util.HandleError(ctx, err)
		return
	}
	c.log.Info("category deleted", zap.String("slug", slug), zap.String("by", adminName(ctx)))
	util.Success(ctx, gin.H{"deleted": slug})
}

// @Summary 创建题目
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.QuestionInput true "题目"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /api/admin/questions [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	var in model.QuestionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, "Invalid JSON in request body")
		return
	}

	q, err := c.Quiz.CreateQuestion(ctx.Request.Context(), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary 修改题目
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "题目 ID"
// @Param request body model.QuestionInput true "题目"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id} [patch]
func (c *AdminController) UpdateQuestion(ctx *gin.Context) {
	var in model.QuestionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, "Invalid JSON in request body")
		return
	}

	q, err := c.Quiz.UpdateQuestion(ctx.Request.Context(), model.ID(ctx.Param("id")), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary 删除题目
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "题目 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.Quiz.DeleteQuestion(ctx.Request.Context(), model.ID(id)); err != nil {
		util.HandleError(ctx, err)
		return
	}
	c.log.Info("question deleted", zap.String("id", id), zap.String("by", adminName(ctx)))
	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary 导出分类
// @Description Writes a json or yaml snapshot of the category to object storage
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param slug path string true "分类 slug"
// @Param format query string false "json 或 yaml" default(json)
// @Success 201 {object} util.Response{data=service.ExportResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/categories/{slug}/export [post]
func (c *AdminController) ExportCategory(ctx *gin.Context) {
	result, err := c.Export.Export(ctx.Request.Context(), ctx.Param("slug"), ctx.DefaultQuery("format", util.ExportFormatJSON))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

func adminName(ctx *gin.Context) string {
	if claims := util.GetAdminFromContext(ctx); claims != nil {
		return claims.Username
	}
	return "anonymous"
}
