package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikey/spam-gateway/internal/core"
	"github.com/mikey/spam-gateway/internal/tools"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the spam gateway API
type Handler struct {
	gateway   *core.GatewayService
	sessions  core.SessionStore
	tools     *tools.Registry
	generator core.TextGenerator
	policy    *core.RoutingPolicy
	logger    *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	gateway *core.GatewayService,
	sessions core.SessionStore,
	registry *tools.Registry,
	generator core.TextGenerator,
	policy *core.RoutingPolicy,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		gateway:   gateway,
		sessions:  sessions,
		tools:     registry,
		generator: generator,
		policy:    policy,
		logger:    logger,
	}
}

// AnalyzeEmailRequest is the analyze-email request body
type AnalyzeEmailRequest struct {
	Subject  string                 `json:"subject" binding:"required"`
	Content  string                 `json:"content" binding:"required"`
	Sender   string                 `json:"sender"`
	Metadata map[string]interface{} `json:"metadata"`
}

// AnalyzeEmail handles POST /mcp/analyze-email
func (h *Handler) AnalyzeEmail(c *gin.Context) {
	var req AnalyzeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid analyze-email request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := &core.EmailInput{
		Subject:  req.Subject,
		Content:  req.Content,
		Sender:   req.Sender,
		Metadata: req.Metadata,
	}

	response, err := h.gateway.AnalyzeEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("analysis failed: %s", err.Error())})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetSession handles GET /mcp/sessions/:session_id
func (h *Handler) GetSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var processingTime *float64
	if session.EndTime != nil {
		t := session.ProcessingTime()
		processingTime = &t
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":        session.SessionID,
		"status":            session.Status,
		"processing_steps":  session.ProcessingSteps,
		"start_time":        session.StartTime,
		"end_time":          session.EndTime,
		"processing_time":   processingTime,
		"classifier_result": session.ClassifierResult,
		"verdict_result":    session.VerdictResult,
		"error":             session.Error,
	})
}

// ListSessions handles GET /mcp/sessions?limit=N
func (h *Handler) ListSessions(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	sessions, total, err := h.sessions.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	summaries := make([]gin.H, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, gin.H{
			"session_id":     session.SessionID,
			"status":         session.Status,
			"start_time":     session.StartTime,
			"email_subject":  truncate(session.EmailInput.Subject, 50),
			"final_decision": session.FinalDecision,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_sessions":    total,
		"returned_sessions": len(summaries),
		"sessions":          summaries,
	})
}

// CleanupSessions handles DELETE /mcp/sessions/cleanup?max_age_hours=H
func (h *Handler) CleanupSessions(c *gin.Context) {
	maxAgeHours := 24
	if raw := c.Query("max_age_hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_age_hours must be a non-negative integer"})
			return
		}
		maxAgeHours = parsed
	}

	removed, remaining, err := h.sessions.Cleanup(c.Request.Context(), time.Duration(maxAgeHours)*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            fmt.Sprintf("%d old sessions removed", removed),
		"removed_sessions":   removed,
		"remaining_sessions": remaining,
		"max_age_hours":      maxAgeHours,
	})
}

// Health handles GET /mcp/health
func (h *Handler) Health(c *gin.Context) {
	stats, err := h.sessions.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"services": gin.H{
			"classifier":    h.gateway.ClassifierModel(),
			"verdict_agent": h.generator.ModelName(),
		},
		"sessions":  stats,
		"timestamp": time.Now(),
	})
}

// GatewayInfo handles GET /mcp/gateway-info
func (h *Handler) GatewayInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"gateway_type": "Two-stage spam detection gateway",
		"components": gin.H{
			"gateway": gin.H{
				"name":  "Primary classifier",
				"model": h.gateway.ClassifierModel(),
				"role":  "Primary spam classification",
			},
			"verdict_agent": gin.H{
				"name":  "Verdict agent",
				"model": h.generator.ModelName(),
				"role":  "Detailed analysis for uncertain cases",
			},
		},
		"processing_flow": []string{
			"Email Input",
			"Primary Classification",
			"Routing Decision",
			"Conditional Verdict Agent Call",
			"Final Decision",
		},
		"routing_thresholds": gin.H{
			"immediate_pass":  fmt.Sprintf("> %.0f%% confidence (normal)", h.policy.ImmediateThreshold*100),
			"immediate_block": fmt.Sprintf("> %.0f%% confidence (spam)", h.policy.ImmediateThreshold*100),
			"verdict_agent":   fmt.Sprintf("<= %.0f%% confidence (uncertain)", h.policy.ImmediateThreshold*100),
			"quick_analysis":  fmt.Sprintf("> %.0f%% confidence", h.policy.QuickThreshold*100),
		},
		"session_management": gin.H{
			"tracking":   "UUID-based session tracking",
			"cleanup":    "Age-based cleanup of old sessions",
			"monitoring": "Session status and statistics endpoints",
		},
	})
}

// Stats handles GET /mcp/stats
func (h *Handler) Stats(c *gin.Context) {
	sessions, total, err := h.sessions.List(c.Request.Context(), 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if total == 0 {
		c.JSON(http.StatusOK, gin.H{
			"total_sessions": 0,
			"message":        "no sessions processed yet",
		})
		return
	}

	statusCounts := map[string]int{}
	routingCounts := map[string]int{}
	completed := 0
	var totalTime float64
	for _, session := range sessions {
		statusCounts[string(session.Status)]++
		if session.FinalDecision != "" {
			routingCounts[string(session.FinalDecision)]++
		}
		if session.Status == core.StatusCompleted && session.EndTime != nil {
			completed++
			totalTime += session.ProcessingTime()
		}
	}

	var avgProcessingTime *float64
	if completed > 0 {
		avg := totalTime / float64(completed)
		avgProcessingTime = &avg
	}

	c.JSON(http.StatusOK, gin.H{
		"total_sessions":          total,
		"status_distribution":     statusCounts,
		"routing_distribution":    routingCounts,
		"average_processing_time": avgProcessingTime,
		"completed_sessions":      completed,
	})
}

// ListTools handles GET /mcp/tools
func (h *Handler) ListTools(c *gin.Context) {
	names := h.tools.List()

	details := make([]*tools.Info, 0, len(names))
	for _, name := range names {
		info, err := h.tools.Info(name)
		if err != nil {
			continue
		}
		details = append(details, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"available_tools": names,
		"tool_details":    details,
		"total_tools":     len(names),
	})
}

// ExecuteTool handles POST /mcp/tools/:tool_name/execute
func (h *Handler) ExecuteTool(c *gin.Context) {
	toolName := c.Param("tool_name")

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.tools.Execute(c.Request.Context(), toolName, payload)
	if err != nil {
		if errors.Is(err, core.ErrToolNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":           err.Error(),
				"available_tools": h.tools.List(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tool_name": toolName,
		"payload":   payload,
		"result":    result,
		"timestamp": time.Now(),
	})
}

// truncate shortens s to max runes, never splitting a multibyte character
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
