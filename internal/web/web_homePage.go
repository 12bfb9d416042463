// Package web provides the HTTP server for go-ecsdemo
package web

import (
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-ecsdemo/internal/models"
)

// homePage handles "/"
func (s *WebServer) homePage(c *gin.Context) {
	s.renderPage(c, models.HomePage)
}
