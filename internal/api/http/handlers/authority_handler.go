package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/dto"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/service"
	apperrors "github.com/civic-kit/complaint-service/pkg/errorutil"
)

// AuthorityHandler manages the triage endpoints used by city staff.
type AuthorityHandler struct {
	service *service.TriageService
}

// NewAuthorityHandler constructs handler.
func NewAuthorityHandler(triageService *service.TriageService) *AuthorityHandler {
	return &AuthorityHandler{service: triageService}
}

// ListComplaints GET /authority/complaints.
func (h *AuthorityHandler) ListComplaints(c *fiber.Ctx) error {
	filter := service.TriageFilter{
		City:     c.Query("city"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Sort:     c.Query("sort"),
	}
	records, err := h.service.ListComplaints(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintSummary, 0, len(records))
	for i := range records {
		items = append(items, complaintSummary(&records[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Stats GET /authority/complaints/stats.
func (h *AuthorityHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		Total:       stats.Total,
		Critical:    stats.Critical,
		Open:        stats.Open,
		BurstAlerts: stats.BurstAlerts,
	}})
}

// UpdateComplaint PATCH /authority/complaints/:trackingId.
func (h *AuthorityHandler) UpdateComplaint(c *fiber.Ctx) error {
	trackingID := c.Params("trackingId")
	if !domain.ValidTrackingID(trackingID) {
		return apperrors.NewValidationError("tracking id must be 8 characters, A-Z and 0-9 only", nil)
	}
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.service.UpdateComplaint(c.UserContext(), trackingID, req.Status, req.AdminRemarks)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(record, "")})
}
