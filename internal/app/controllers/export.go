package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/yigit/starmentor/internal/app/services"
)

// writeExport streams a rendered file as a download
func writeExport(ctx *gin.Context, export *services.Export) {
	ctx.Header("Content-Description", "File Transfer")
	ctx.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(export.Filename))
	ctx.Data(http.StatusOK, export.ContentType, export.Body.Bytes())
}
