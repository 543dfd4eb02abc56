package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/insight"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) insights(c *gin.Context) {
	f, ok := s.filter(c)
	if !ok {
		return
	}
	res, err := s.service.Insights(f)
	if err != nil {
		s.fail(c, err)
		return
	}

	insights := res.Insights
	if p := c.Query("priority"); p != "" {
		insights = insight.FilterByPriority(insights, insight.Priority(strings.ToLower(p)))
	}
	if insights == nil {
		insights = []insight.Insight{}
	}
	c.JSON(http.StatusOK, gin.H{
		"filter":   f,
		"insights": insights,
		"failures": res.Failures,
	})
}

func (s *Server) stats(c *gin.Context) {
	stats, err := s.service.Stats()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) inventoryPredictions(c *gin.Context) {
	preds, err := s.service.InventoryPredictions()
	if err != nil {
		s.fail(c, err)
		return
	}
	if preds == nil {
		preds = []insight.InventoryPrediction{}
	}
	c.JSON(http.StatusOK, gin.H{"predictions": preds})
}

func (s *Server) menuRecommendations(c *gin.Context) {
	f, ok := s.filter(c)
	if !ok {
		return
	}
	recs, err := s.service.MenuRecommendations(f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": f, "recommendations": recs})
}

func (s *Server) forecast(c *gin.Context) {
	f, ok := s.filter(c)
	if !ok {
		return
	}
	fc, err := s.service.Forecast(f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fc)
}

func (s *Server) chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	c.JSON(http.StatusOK, s.responder.Respond(req.Message))
}

// filter reads the filter query parameter, writing a 400 on bad input.
func (s *Server) filter(c *gin.Context) (analyzer.Filter, bool) {
	raw := c.Query("filter")
	if raw == "" {
		return s.defaultFilter, true
	}
	f, err := analyzer.ParseFilter(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return f, true
}

// fail maps an engine error to a status. Anything that stops the snapshot
// from loading means the caller is looking at stale data.
func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, analyzer.ErrUnknownFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.logger.Warn("analysis failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "stale": true})
}
