// Package web provides the HTTP server for go-ecsdemo.
//
// Files:
//   - webserver_core_routes.go: server setup, middleware, route table, listener lifecycle
//   - embedded_templates.go: embedded page template
//   - web_utils.go: page pre-rendering and response helpers
//   - web_homePage.go, web_aboutPage.go: page handlers
package web
