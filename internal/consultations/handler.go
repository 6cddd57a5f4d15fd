package consultations

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"council-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the consultations service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches consultation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/consultations", h.startConsultation)
	rg.GET("/consultations", h.listConsultations)
	rg.GET("/consultations/:id", h.getConsultation)
}

func (h *Handler) startConsultation(c *gin.Context) {
	var req ConsultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if issues := req.Validate(); len(issues) > 0 {
		details := make([]map[string]string, 0, len(issues))
		for _, issue := range issues {
			details = append(details, map[string]string{"field": issue.Field, "issue": issue.Issue})
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid consultation request", details)
		return
	}

	consultation, err := h.Svc.Consult(c.Request.Context(), req.UserInput, req.CouncilSignals())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to run consultation", nil)
		return
	}

	c.Set("consultationId", consultation.ID)
	c.Set("classification", string(consultation.Classification))

	respond.JSON(c, http.StatusOK, gin.H{
		"consultationId": consultation.ID,
		"classification": consultation.Classification,
		"vetoed":         consultation.Vetoed,
		"weightedScore":  consultation.WeightedScore,
		"response":       json.RawMessage(consultation.Response),
	})
}

func (h *Handler) getConsultation(c *gin.Context) {
	consultationID := c.Param("id")
	if consultationID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "consultation id is required", nil)
		return
	}

	consultation, err := h.Svc.Get(c.Request.Context(), consultationID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "consultation not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch consultation", nil)
		}
		return
	}

	c.Set("consultationId", consultation.ID)
	c.Set("classification", string(consultation.Classification))

	respond.JSON(c, http.StatusOK, consultation)
}

func (h *Handler) listConsultations(c *gin.Context) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	consultations, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list consultations", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"consultations": consultations,
		"limit":         limit,
		"offset":        offset,
	})
}
