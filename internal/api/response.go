package api

import (
	"github.com/gin-gonic/gin"
)

// respondOK 成功响应包络 {success, data}
func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondList 列表响应包络 {success, data, count}
func respondList(c *gin.Context, data any, count int) {
	c.JSON(200, gin.H{"success": true, "data": data, "count": count})
}

// respondError 失败响应包络 {success:false, error}
func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}
