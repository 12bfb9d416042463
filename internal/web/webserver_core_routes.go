// Package web provides the HTTP server for go-ecsdemo
package web

import (
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-ecsdemo/internal/config"
	"github.com/go-while/go-ecsdemo/internal/logging"
	"github.com/go-while/go-ecsdemo/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// inbound request ids outside this set are replaced before they reach the access log
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

var webLog = logging.GetLogger("web")

// WebServer represents the web server
type WebServer struct {
	Router    *gin.Engine
	Config    *config.WebConfig
	StartTime time.Time // Set when Serve starts
	templates *template.Template
	pages     map[string][]byte // pre-rendered bodies by path
	proxies   []*net.IPNet      // parsed Config.TrustedProxies
}

// NewServer creates a new web server instance
func NewServer(webconfig *config.WebConfig) (*WebServer, error) {
	if webconfig.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// unknown paths are plain 404s, never redirects
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.HandleMethodNotAllowed = false

	if err := router.SetTrustedProxies(webconfig.TrustedProxies); err != nil {
		return nil, errors.Wrap(err, "set trusted proxies")
	}

	proxies, err := parseTrustedProxies(webconfig.TrustedProxies)
	if err != nil {
		return nil, err
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	server := &WebServer{
		Router:    router,
		Config:    webconfig,
		templates: tmpl,
		pages:     make(map[string][]byte),
		proxies:   proxies,
	}

	for _, page := range models.Pages() {
		if err := server.prerenderPage(page); err != nil {
			return nil, err
		}
	}
	webLog.Debugf("[WEB]: Pre-rendered %d pages", len(server.pages))

	router.Use(server.RecoveryMiddleware())
	router.Use(server.RequestIDMiddleware())
	router.Use(server.ApacheLogFormat())
	router.Use(server.ForwardedProtoMiddleware())
	router.Use(secure.New(server.secureConfig()))

	server.setupRoutes()
	return server, nil
}

// secureConfig configures security headers based on SSL setup
func (s *WebServer) secureConfig() secure.Config {
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a load balancer terminating TLS).
	// X-Forwarded-Proto is honoured by ForwardedProtoMiddleware for trusted proxies only.
	if s.Config.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}
	return secureConfig
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	s.Router.GET(models.HomePage.Path, s.homePage)
	s.Router.GET(models.AboutPage.Path, s.aboutPage)
}

// Listen binds the configured address
func (s *WebServer) Listen() (net.Listener, error) {
	addr := net.JoinHostPort(s.Config.ListenAddr, strconv.Itoa(s.Config.ListenPort))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen %s", addr)
	}
	return ln, nil
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
// It returns nil after a clean shutdown.
func (s *WebServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Router,
		ReadTimeout:  s.Config.ReadTimeout,
		WriteTimeout: s.Config.WriteTimeout,
	}
	s.StartTime = time.Now()

	errChan := make(chan error, 1)
	go func() {
		if s.Config.SSL {
			webLog.Infof("[WEB]: Starting HTTPS server on %s", ln.Addr())
			errChan <- srv.ServeTLS(ln, s.Config.CertFile, s.Config.KeyFile)
			return
		}
		webLog.Infof("[WEB]: Starting HTTP server on %s", ln.Addr())
		errChan <- srv.Serve(ln)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	timeout := s.Config.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	webLog.Infof("[WEB]: Shutting down web server after %s uptime (timeout %s)", time.Since(s.StartTime).Round(time.Second), timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	<-errChan
	return nil
}

// Start binds the configured address and serves until ctx is done
func (s *WebServer) Start(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// RequestIDMiddleware echoes the inbound X-Request-ID or assigns a new one
func (s *WebServer) RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID.MatchString(id) {
			id = uuid.New().String()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// ForwardedProtoMiddleware marks the request as https when a trusted proxy says so
func (s *WebServer) ForwardedProtoMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-Forwarded-Proto") == "https" && s.isTrustedProxy(c.RemoteIP()) {
			c.Request.URL.Scheme = "https"
		}
		c.Next()
	}
}

func (s *WebServer) isTrustedProxy(remoteIP string) bool {
	ip := net.ParseIP(remoteIP)
	if ip == nil {
		return false
	}
	for _, n := range s.proxies {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// parseTrustedProxies accepts plain IPs and CIDRs
func parseTrustedProxies(list []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(list))
	for _, entry := range list {
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, errors.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid trusted proxy %q", entry)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

// RecoveryMiddleware turns handler panics into a 500 error page
func (s *WebServer) RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(logging.Logger().WriterLevel(logrus.ErrorLevel), func(c *gin.Context, recovered any) {
		s.renderError(c, http.StatusInternalServerError, "Internal Server Error", fmt.Sprint(recovered))
	})
}

// ApacheLogFormat writes one combined log line per request to the logger
func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output: logging.Logger().WriterLevel(logrus.InfoLevel),
		Formatter: func(param gin.LogFormatterParams) string {
			reqID, _ := param.Keys[RequestIDHeader].(string)
			return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s" %s %s`+"\n",
				param.ClientIP,
				param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.BodySize,
				param.Request.Referer(),
				param.Request.UserAgent(),
				param.Latency,
				reqID,
			)
		},
	})
}
