package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/classify"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/events"
	"github.com/civic-kit/complaint-service/internal/evidence"
	"github.com/civic-kit/complaint-service/internal/observability"
	"github.com/civic-kit/complaint-service/internal/repository"
	"github.com/civic-kit/complaint-service/pkg/errorutil"
)

// IntakeService handles citizen-side complaint workflows.
type IntakeService struct {
	ledger     repository.LedgerStore
	evidence   evidence.Store
	classifier *classify.Classifier
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	Ledger     repository.LedgerStore
	Evidence   evidence.Store
	Classifier *classify.Classifier
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// EvidenceUpload carries an optional evidence file handed in with a
// submission.
type EvidenceUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ComplaintInput describes a citizen submission.
type ComplaintInput struct {
	State       string
	City        string
	Area        string
	Category    string
	Severity    domain.Severity
	Description string

	// Evidence, when set, is stored under the new tracking id. ImageRef
	// alternatively names an already stored object; Evidence wins when both
	// are present.
	Evidence *EvidenceUpload
	ImageRef string
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	return &IntakeService{
		ledger:     deps.Ledger,
		evidence:   deps.Evidence,
		classifier: deps.Classifier,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// SubmitComplaint validates a submission, classifies it, and appends the new
// record to the ledger. The write is a full load-append-save cycle; a failed
// save means the complaint was not durably filed and the whole operation
// fails.
func (s *IntakeService) SubmitComplaint(ctx context.Context, input ComplaintInput) (*domain.Complaint, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	trackingID := domain.GenerateTrackingID()

	imageRef := domain.ImageRefNone
	switch {
	case input.Evidence != nil:
		name, err := s.storeEvidence(ctx, trackingID, input.Evidence)
		if err != nil {
			return nil, err
		}
		imageRef = name
	case strings.TrimSpace(input.ImageRef) != "":
		imageRef = strings.TrimSpace(input.ImageRef)
	}

	analysis := s.classifier.Analyze(input.Description, input.Category, input.Severity)

	record := domain.Complaint{
		TrackingID:       trackingID,
		FiledAt:          time.Now(),
		State:            strings.TrimSpace(input.State),
		City:             strings.TrimSpace(input.City),
		Area:             strings.TrimSpace(input.Area),
		Category:         strings.TrimSpace(input.Category),
		SeverityReported: input.Severity,
		Description:      strings.TrimSpace(input.Description),
		ImageRef:         imageRef,
		Status:           domain.StatusOpen,
		AICategory:       analysis.Category,
		AISeverity:       analysis.Severity,
		AIPriorityScore:  analysis.PriorityScore,
		AIConfidence:     analysis.Confidence,
		AIReasoning:      analysis.Reasoning,
	}

	records, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, errorutil.NewUnavailable("complaint ledger unavailable", err)
	}
	records = append(records, record)
	if err := s.ledger.Save(ctx, records); err != nil {
		return nil, errorutil.NewUnavailable("complaint could not be filed", err)
	}

	s.metrics.RecordComplaintFiled()
	s.logger.Info("complaint filed",
		zap.String("tracking_id", record.TrackingID),
		zap.String("city", record.City),
		zap.String("ai_category", record.AICategory),
		zap.String("ai_severity", string(record.AISeverity)),
	)

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventComplaintFiled,
		TrackingID: record.TrackingID,
		Actor:      events.ActorCitizen,
		Payload: events.ComplaintFiledPayload{
			City:          record.City,
			Category:      record.Category,
			Severity:      record.AISeverity,
			PriorityScore: record.AIPriorityScore,
		},
	})

	return &record, nil
}

// TrackComplaint looks a complaint up by tracking id. A missing id is the
// normal "no matching record" outcome, reported as not found. When the record
// carries evidence, a temporary URL for it is returned alongside.
func (s *IntakeService) TrackComplaint(ctx context.Context, trackingID string) (*domain.Complaint, string, error) {
	records, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, "", errorutil.NewUnavailable("complaint ledger unavailable", err)
	}

	for i := range records {
		if records[i].TrackingID != trackingID {
			continue
		}
		record := records[i]

		url := ""
		if record.HasEvidence() {
			url, err = s.evidence.TemporaryURL(ctx, record.ImageRef)
			if err != nil {
				return nil, "", errorutil.NewUnavailable("evidence store unavailable", err)
			}
		}
		return &record, url, nil
	}

	return nil, "", errorutil.NewNotFound("complaint", map[string]any{"tracking_id": trackingID})
}

func (s *IntakeService) storeEvidence(ctx context.Context, trackingID string, upload *EvidenceUpload) (string, error) {
	filename := strings.TrimSpace(upload.Filename)
	if filename == "" {
		return "", errorutil.NewValidationError("evidence filename is required", nil)
	}

	name, err := s.evidence.Put(ctx, upload.Data, upload.ContentType, evidence.ObjectName(trackingID, filename))
	if err != nil {
		return "", errorutil.NewUnavailable("evidence store unavailable", err)
	}
	return name, nil
}

func validateInput(input ComplaintInput) error {
	required := []struct {
		name  string
		value string
	}{
		{"state", input.State},
		{"city", input.City},
		{"area", input.Area},
		{"category", input.Category},
		{"severity", string(input.Severity)},
		{"description", input.Description},
	}

	missing := []string{}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return errorutil.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	return nil
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}
