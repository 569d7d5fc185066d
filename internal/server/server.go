// Package server exposes the locator over HTTP: clients post an HTML
// snapshot and a target, and get back which strategy found it.
package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"paintly-probe/internal/document/htmldoc"
	"paintly-probe/internal/locator"
	"paintly-probe/internal/targets"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxSnapshotBytes caps the posted HTML.
const MaxSnapshotBytes = 5 << 20

type Server struct {
	locator *locator.Locator
	targets *targets.Catalogue
	logger  *zap.Logger
}

func New(loc *locator.Locator, cat *targets.Catalogue, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{locator: loc, targets: cat, logger: logger}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.GET("/", s.health)
	r.GET("/targets", s.listTargets)
	r.POST("/probe", s.probe)
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Paintly probe service is running!",
		"status":  "healthy",
	})
}

type scanView struct {
	Coarse string `json:"coarse"`
	Limit  int    `json:"limit"`
}

type targetView struct {
	Name       string              `json:"name"`
	Candidates []locator.Candidate `json:"candidates"`
	Scans      []scanView          `json:"scans,omitempty"`
}

func (s *Server) listTargets(c *gin.Context) {
	names := s.targets.Names()
	out := make([]targetView, 0, len(names))
	for _, name := range names {
		t := s.targets.MustGet(name)
		v := targetView{Name: t.Name, Candidates: t.Candidates}
		for _, sc := range t.Scans {
			v.Scans = append(v.Scans, scanView{Coarse: sc.Coarse, Limit: sc.Limit})
		}
		out = append(out, v)
	}
	c.JSON(http.StatusOK, gin.H{"targets": out})
}

// ProbeRequest names a catalogue target or supplies ad-hoc candidates and
// scans. Action is optional: "click" or "fill".
type ProbeRequest struct {
	HTML       string              `json:"html" binding:"required"`
	Target     string              `json:"target"`
	Candidates []locator.Candidate `json:"candidates"`
	Scans      []targets.ScanSpec  `json:"scans"`
	Action     string              `json:"action" binding:"omitempty,oneof=click fill"`
	Value      string              `json:"value"`
}

type ProbeResponse struct {
	Target     string           `json:"target"`
	Found      bool             `json:"found"`
	Index      int              `json:"index"`
	Strategy   locator.Strategy `json:"strategy,omitempty"`
	Expression string           `json:"expression,omitempty"`
	Element    string           `json:"element,omitempty"`
	Clicked    []string         `json:"clicked,omitempty"`
	Error      string           `json:"error,omitempty"`
}

var errNoTarget = errors.New("either target or candidates is required")

func (s *Server) resolveTarget(req ProbeRequest) (locator.Target, error) {
	if req.Target != "" && len(req.Candidates) == 0 && len(req.Scans) == 0 {
		return s.targets.Get(req.Target)
	}
	if len(req.Candidates) == 0 && len(req.Scans) == 0 {
		return locator.Target{}, errNoTarget
	}
	name := req.Target
	if name == "" {
		name = "adhoc"
	}
	t := locator.Target{Name: name, Candidates: req.Candidates}
	for _, sc := range req.Scans {
		t.Scans = append(t.Scans, sc.Scan())
	}
	return t, nil
}

func (s *Server) probe(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxSnapshotBytes)

	var req ProbeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target, err := s.resolveTarget(req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, targets.ErrUnknownTarget) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	doc, err := htmldoc.New(strings.NewReader(req.HTML))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var res locator.Result
	var actErr error
	switch req.Action {
	case "click":
		res, actErr = s.locator.LocateAndAct(ctx, doc, target, locator.Click)
	case "fill":
		res, actErr = s.locator.LocateAndAct(ctx, doc, target, locator.Fill(req.Value))
	default:
		res = s.locator.Locate(ctx, doc, target)
	}

	resp := ProbeResponse{
		Target:     target.Name,
		Found:      res.Found,
		Index:      res.Index,
		Strategy:   res.Strategy,
		Expression: res.Expression,
		Clicked:    doc.Clicked(),
	}
	if el, ok := res.Element.(*htmldoc.Element); ok {
		resp.Element = el.String()
	}
	if actErr != nil {
		resp.Error = actErr.Error()
		_ = c.Error(actErr)
	}
	c.JSON(http.StatusOK, resp)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
			log.Warn("HTTP request with errors", fields...)
			return
		}
		log.Info("HTTP request", fields...)
	}
}
