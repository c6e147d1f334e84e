package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusuite/siga-gateway/internal/service"
)

// writeDocument streams a rendered report as a download.
func writeDocument(c *gin.Context, doc *service.Document) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Bytes)
}
