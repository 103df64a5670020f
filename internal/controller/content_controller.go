package controller

import (
	"quiz_portal_backend/internal/service"
	"quiz_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	Service *service.ContentService
}

func NewContentController(s *service.ContentService) *ContentController {
	return &ContentController{Service: s}
}

// @Summary 首页内容
// @Description Falls back to placeholder copy when the CMS is unavailable
// @Tags 内容
// @Produce json
// @Success 200 {object} util.Response{data=model.HomePage}
// @Router /api/content/homepage [get]
func (c *ContentController) HomePage(ctx *gin.Context) {
	util.Success(ctx, c.Service.HomePage(ctx.Request.Context()))
}

// @Summary 测试地点列表
// @Tags 内容
// @Produce json
// @Success 200 {object} util.Response{data=[]model.TestLocation}
// @Router /api/content/test-locations [get]
func (c *ContentController) TestLocations(ctx *gin.Context) {
	util.Success(ctx, c.Service.TestLocations(ctx.Request.Context()))
}

// @Summary 测试地点详情
// @Tags 内容
// @Produce json
// @Param id path string true "地点 ID"
// @Success 200 {object} util.Response{data=model.TestLocation}
// @Failure 404 {object} util.Response
// @Router /api/content/test-locations/{id} [get]
func (c *ContentController) TestLocation(ctx *gin.Context) {
	loc, err := c.Service.TestLocation(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, loc)
}

// @Summary 截图列表
// @Tags 内容
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Screenshot}
// @Router /api/content/screenshots [get]
func (c *ContentController) Screenshots(ctx *gin.Context) {
	util.Success(ctx, c.Service.Screenshots(ctx.Request.Context()))
}
