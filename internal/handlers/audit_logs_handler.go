package handlers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawpoint/vetclinic/internal/audit"
	"github.com/pawpoint/vetclinic/internal/httperr"
	"github.com/pawpoint/vetclinic/internal/infra/repository"
	"github.com/pawpoint/vetclinic/internal/middleware"
	"github.com/pawpoint/vetclinic/internal/models"
)

// AuditLogsHandler serves the compliance dashboard: filtered listings,
// per-resource history, aggregates and CSV export. Admin-only; wiring
// happens in routes.
type AuditLogsHandler struct {
	repo     *repository.AuditLogRepository
	recorder *audit.Recorder
}

func NewAuditLogsHandler(repo *repository.AuditLogRepository, recorder *audit.Recorder) *AuditLogsHandler {
	return &AuditLogsHandler{repo: repo, recorder: recorder}
}

func parseAuditFilter(c *gin.Context) (repository.AuditLogFilter, error) {
	var f repository.AuditLogFilter

	if v := c.Query("actor_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, fmt.Errorf("actor_id must be numeric")
		}
		actorID := uint(id)
		f.ActorID = &actorID
	}

	f.Action = c.Query("action")
	f.ResourceType = c.Query("resource_type")
	f.ResourceID = c.Query("resource_id")
	f.IPAddress = c.Query("ip")

	if v := c.Query("sensitivity"); v != "" {
		for _, s := range strings.Split(v, ",") {
			f.Sensitivities = append(f.Sensitivities, models.Sensitivity(strings.TrimSpace(s)))
		}
	}

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, fmt.Errorf("from must be RFC3339")
		}
		f.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, fmt.Errorf("to must be RFC3339")
		}
		f.To = &t
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit

	return f, nil
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	f, err := parseAuditFilter(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_filter", err.Error())
		return
	}

	logs, total, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "failed_to_list_audit_logs", "Could not list audit records.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  logs,
		"total": total,
	})
}

// History returns the full trail for one resource, newest first.
func (h *AuditLogsHandler) History(c *gin.Context) {
	resourceType := c.Query("resource_type")
	resourceID := c.Query("resource_id")
	if resourceType == "" || resourceID == "" {
		httperr.BadRequest(c, "missing_resource", "resource_type and resource_id are required.")
		return
	}

	logs, err := h.repo.History(c.Request.Context(), resourceType, resourceID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_history", "Could not load resource history.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  logs,
		"total": len(logs),
	})
}

func (h *AuditLogsHandler) Summary(c *gin.Context) {
	summary, err := h.repo.Summary(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_summarize", "Could not build the audit summary.")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Export streams the filtered listing as CSV. The export itself is an
// audited action: pulling the trail out of the system leaves a record
// in it.
func (h *AuditLogsHandler) Export(c *gin.Context) {
	f, err := parseAuditFilter(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_filter", err.Error())
		return
	}
	// Export ignores pagination; cap stays to bound the response.
	f.Limit = 200
	f.Offset = 0

	logs, _, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "failed_to_export", "Could not export audit records.")
		return
	}

	if err := h.recorder.Log(c.Request.Context(), audit.LogInput{
		Actor:        middleware.ActorFromContext(c),
		Action:       models.ActionExport,
		ResourceType: "audit.audit_log",
		Request:      c.Request,
		Sensitivity:  models.SensitivityHigh,
		Extra:        map[string]any{"rows": len(logs)},
	}); err != nil {
		log.Printf("export audit failed: %v", err)
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="audit_logs.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{
		"id", "created_at", "actor_id", "action",
		"resource_type", "resource_id", "resource_repr",
		"url_path", "method", "ip_address", "sensitivity",
	})

	for _, rec := range logs {
		actorID := ""
		if rec.ActorID != nil {
			actorID = strconv.FormatUint(uint64(*rec.ActorID), 10)
		}
		_ = w.Write([]string{
			strconv.FormatUint(uint64(rec.ID), 10),
			rec.CreatedAt.Format(time.RFC3339),
			actorID,
			rec.Action,
			rec.ResourceType,
			rec.ResourceID,
			rec.ResourceRepr,
			rec.URLPath,
			rec.Method,
			rec.IPAddress,
			string(rec.Sensitivity),
		})
	}
	w.Flush()
}
