package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/dto"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/service"
	apperrors "github.com/civic-kit/complaint-service/pkg/errorutil"
)

// ComplaintsHandler manages citizen-facing endpoints.
type ComplaintsHandler struct {
	service *service.IntakeService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(intakeService *service.IntakeService) *ComplaintsHandler {
	return &ComplaintsHandler{service: intakeService}
}

// SubmitComplaint POST /complaints.
func (h *ComplaintsHandler) SubmitComplaint(c *fiber.Ctx) error {
	var req dto.SubmitComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.ComplaintInput{
		State:       req.State,
		City:        req.City,
		Area:        req.Area,
		Category:    req.Category,
		Severity:    req.Severity,
		Description: req.Description,
		ImageRef:    req.ImageRef,
	}
	if req.Evidence != nil {
		input.Evidence = &service.EvidenceUpload{
			Filename:    req.Evidence.Filename,
			ContentType: req.Evidence.ContentType,
			Data:        req.Evidence.Data,
		}
	}

	record, err := h.service.SubmitComplaint(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": complaintSummary(record)})
}

// TrackComplaint GET /complaints/:trackingId.
func (h *ComplaintsHandler) TrackComplaint(c *fiber.Ctx) error {
	trackingID := c.Params("trackingId")
	if !domain.ValidTrackingID(trackingID) {
		return apperrors.NewValidationError("tracking id must be 8 characters, A-Z and 0-9 only", nil)
	}

	record, evidenceURL, err := h.service.TrackComplaint(c.UserContext(), trackingID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(record, evidenceURL)})
}

func complaintSummary(record *domain.Complaint) dto.ComplaintSummary {
	return dto.ComplaintSummary{
		TrackingID:       record.TrackingID,
		FiledAt:          record.FiledAt,
		State:            record.State,
		City:             record.City,
		Area:             record.Area,
		Category:         record.Category,
		SeverityReported: record.SeverityReported,
		Status:           record.Status,
		AICategory:       record.AICategory,
		AISeverity:       record.AISeverity,
		AIPriorityScore:  record.AIPriorityScore,
		AIReasoning:      record.AIReasoning,
		ClusterFlag:      record.ClusterFlag,
	}
}

func complaintDetail(record *domain.Complaint, evidenceURL string) dto.ComplaintDetailResponse {
	return dto.ComplaintDetailResponse{
		TrackingID:       record.TrackingID,
		FiledAt:          record.FiledAt,
		State:            record.State,
		City:             record.City,
		Area:             record.Area,
		Category:         record.Category,
		SeverityReported: record.SeverityReported,
		Description:      record.Description,
		ImageRef:         record.ImageRef,
		Status:           record.Status,
		AdminRemarks:     record.AdminRemarks,
		AICategory:       record.AICategory,
		AISeverity:       record.AISeverity,
		AIPriorityScore:  record.AIPriorityScore,
		AIConfidence:     record.AIConfidence,
		AIReasoning:      record.AIReasoning,
		ClusterFlag:      record.ClusterFlag,
		EvidenceURL:      evidenceURL,
	}
}
