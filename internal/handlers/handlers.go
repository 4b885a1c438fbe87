// Package handlers holds the gin handlers of the Jobly API.
//
// Handlers never write error responses themselves. They attach the error
// with c.Error and middleware.ErrorHandler renders it.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobly/internal/dtos"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// bindJSON binds the request body into obj and reports binding failures.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		fail(c, dtos.BindError(err))
		return false
	}
	return true
}
