// Package web provides the HTTP server for go-ecsdemo
package web

import (
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-ecsdemo/internal/models"
)

// aboutPage handles "/about"
func (s *WebServer) aboutPage(c *gin.Context) {
	s.renderPage(c, models.AboutPage)
}
