// Package web provides the HTTP server for go-ecsdemo
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-ecsdemo/internal/models"
	"github.com/pkg/errors"
)

const contentTypeHTML = "text/html; charset=utf-8"

// GetPort returns the listening port from the config
func (s *WebServer) GetPort() int {
	return s.Config.ListenPort
}

// prerenderPage executes the page template once and stores the body by path
func (s *WebServer) prerenderPage(page *models.Page) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "page.html", page); err != nil {
		return errors.Wrapf(err, "render page %s", page.Path)
	}
	s.pages[page.Path] = buf.Bytes()
	return nil
}

// renderPage writes the pre-rendered body of page
func (s *WebServer) renderPage(c *gin.Context, page *models.Page) {
	body, ok := s.pages[page.Path]
	if !ok {
		s.renderError(c, http.StatusInternalServerError, "Page not rendered", page.Path)
		return
	}
	c.Data(http.StatusOK, contentTypeHTML, body)
}

// renderError renders a minimal error page and aborts the chain
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	webLog.Errorf("[WEB]: Error %d: %s - %s", statusCode, message, errstring)
	body := fmt.Sprintf("<h1>%d %s</h1>\n", statusCode, template.HTMLEscapeString(message))
	c.Data(statusCode, contentTypeHTML, []byte(body))
	c.Abort()
}
