package handler

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"civicpulse/backend/internal/apperrors"
	"civicpulse/backend/internal/models"
	"civicpulse/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type submitRequest struct {
	IssueType    string   `json:"issue_type"`
	Description  string   `json:"description"`
	LocationText string   `json:"location_text"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Priority     string   `json:"priority"`
	ImageURL     *string  `json:"image_url"`
	// ImageBase64 carries raw evidence bytes from clients that cannot
	// upload directly.
	ImageBase64      string `json:"image_base64"`
	ImageContentType string `json:"image_content_type"`
}

// SubmitComplaint runs the intake pipeline for a manual or chat-prefilled
// draft. Evidence arrives either as a multipart "image" file or as the
// image_base64 JSON field.
func (h *Handler) SubmitComplaint(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		h.submitMultipart(c)
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	draft := models.ComplaintDraft{
		IssueType:        req.IssueType,
		Description:      req.Description,
		LocationText:     req.LocationText,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Priority:         models.Priority(req.Priority),
		ImageURL:         req.ImageURL,
		ImageContentType: req.ImageContentType,
	}
	if req.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image_base64 is not valid base64"})
			return
		}
		draft.ImageData = data
	}

	complaint, err := h.Intake.Submit(c.Request.Context(), draft, currentIdentity(c))
	if err != nil {
		writeIntakeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, complaint)
}

func (h *Handler) submitMultipart(c *gin.Context) {
	draft := models.ComplaintDraft{
		IssueType:    c.PostForm("issue_type"),
		Description:  c.PostForm("description"),
		LocationText: c.PostForm("location_text"),
		Priority:     models.Priority(c.PostForm("priority")),
	}
	if lat, err := strconv.ParseFloat(c.PostForm("latitude"), 64); err == nil {
		if lng, err := strconv.ParseFloat(c.PostForm("longitude"), 64); err == nil {
			draft.Latitude, draft.Longitude = &lat, &lng
		}
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image upload"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image upload"})
			return
		}
		draft.ImageData = data
		draft.ImageContentType = fileHeader.Header.Get("Content-Type")
	}

	complaint, err := h.Intake.Submit(c.Request.Context(), draft, currentIdentity(c))
	if err != nil {
		writeIntakeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, complaint)
}

func writeIntakeError(c *gin.Context, err error) {
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		return
	}

	var ingErr *apperrors.IngestionError
	if errors.As(err, &ingErr) {
		switch ingErr.Kind {
		case apperrors.UploadFailed:
			c.JSON(http.StatusBadGateway, gin.H{"error": string(ingErr.Kind), "reason": ingErr.Reason})
		case apperrors.ContentRejected:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": string(ingErr.Kind), "reason": ingErr.Reason})
		default:
			// Persistence details stay out of the response.
			c.JSON(http.StatusInternalServerError, gin.H{"error": string(apperrors.PersistenceFailed)})
		}
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// ListComplaints returns complaints matching the query filters.
func (h *Handler) ListComplaints(c *gin.Context) {
	filter := storage.ComplaintFilter{
		Status:     models.Status(c.Query("status")),
		Department: c.Query("department"),
		ReporterID: c.Query("reporter_id"),
	}

	complaints, err := h.Storage.ListComplaints(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list complaints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

// GetComplaint returns a single complaint with its audit trail.
func (h *Handler) GetComplaint(c *gin.Context) {
	id := c.Param("id")

	complaint, err := h.Storage.GetComplaintByID(id)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load complaint"})
		return
	}

	history, err := h.Storage.ListStatusLog(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load complaint"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaint": complaint, "status_log": history})
}

// Upvote registers the caller's endorsement of a complaint.
func (h *Handler) Upvote(c *gin.Context) {
	count, err := h.Votes.Register(c.Request.Context(), c.Param("id"), currentIdentity(c))
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
	case errors.Is(err, apperrors.ErrAlreadyVoted):
		c.JSON(http.StatusConflict, gin.H{"error": "already voted", "upvotes": count})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register vote"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "upvotes": count})
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus applies a status transition. Officer-only.
func (h *Handler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	ident := currentIdentity(c)
	result, err := h.Status.Transition(c.Request.Context(), c.Param("id"), models.Status(req.Status), ident)
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		if !ident.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		} else {
			c.JSON(http.StatusForbidden, gin.H{"error": "officer role required"})
		}
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid status transition"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
	default:
		resp := gin.H{"complaint": result.Complaint}
		if result.Warning != "" {
			resp["warning"] = result.Warning
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
