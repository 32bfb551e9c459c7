package handler

import (
	"log"
	"net/http"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/middleware"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"

	"github.com/gin-gonic/gin"
)

// respondErr 按错误类型映射状态码，未识别的错误只记日志不外泄细节
func respondErr(c *gin.Context, err error) {
	status := pkg.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func currentUserID(c *gin.Context) uint64 {
	v, _ := c.Get(middleware.ContextUserIDKey)
	id, _ := v.(uint64)
	return id
}
