package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/escalation"
	"github.com/civic-kit/complaint-service/internal/events"
	"github.com/civic-kit/complaint-service/internal/observability"
	"github.com/civic-kit/complaint-service/internal/repository"
	"github.com/civic-kit/complaint-service/pkg/errorutil"
)

// Sort orders accepted by ListComplaints.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortPriority = "priority"
)

// TriageService handles authority-side complaint workflows. Every ledger
// load on this side runs a burst detector pass first, so authorities always
// see escalations computed against the current record set.
type TriageService struct {
	ledger     repository.LedgerStore
	detector   *escalation.Detector
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// TriageDependencies bundles collaborators for the triage service.
type TriageDependencies struct {
	Ledger     repository.LedgerStore
	Detector   *escalation.Detector
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// TriageFilter narrows and orders the triage listing. Empty fields match
// everything.
type TriageFilter struct {
	City     string
	Category string
	Status   string
	Sort     string
}

// TriageStats summarizes the ledger for the authority dashboard.
type TriageStats struct {
	Total       int
	Critical    int
	Open        int
	BurstAlerts int
}

// NewTriageService constructs the service.
func NewTriageService(deps TriageDependencies) *TriageService {
	return &TriageService{
		ledger:     deps.Ledger,
		detector:   deps.Detector,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// ListComplaints returns the ledger filtered and sorted for triage.
func (s *TriageService) ListComplaints(ctx context.Context, filter TriageFilter) ([]domain.Complaint, error) {
	records, err := s.loadAndSweep(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Complaint, 0, len(records))
	for _, r := range records {
		if filter.City != "" && r.City != filter.City {
			continue
		}
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		filtered = append(filtered, r)
	}

	sortComplaints(filtered, filter.Sort)
	return filtered, nil
}

// Stats returns dashboard counters over the full ledger.
func (s *TriageService) Stats(ctx context.Context) (TriageStats, error) {
	records, err := s.loadAndSweep(ctx)
	if err != nil {
		return TriageStats{}, err
	}

	stats := TriageStats{Total: len(records)}
	for _, r := range records {
		if r.AISeverity == domain.SeverityCritical {
			stats.Critical++
		}
		if r.Status == domain.StatusOpen {
			stats.Open++
		}
		if r.ClusterFlag {
			stats.BurstAlerts++
		}
	}
	return stats, nil
}

// UpdateComplaint sets a complaint's status and optionally its remarks in one
// authority action. Any current status may move to any other; there is no
// enforced ordering. AI fields are never touched here.
func (s *TriageService) UpdateComplaint(ctx context.Context, trackingID string, status domain.Status, remarks *string) (*domain.Complaint, error) {
	if !status.Valid() {
		return nil, errorutil.NewValidationError("invalid status", map[string]any{
			"status":  status,
			"allowed": domain.Statuses,
		})
	}

	records, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, errorutil.NewUnavailable("complaint ledger unavailable", err)
	}

	for i := range records {
		if records[i].TrackingID != trackingID {
			continue
		}

		oldStatus := records[i].Status
		records[i].Status = status
		if remarks != nil {
			records[i].AdminRemarks = strings.TrimSpace(*remarks)
		}

		if err := s.ledger.Save(ctx, records); err != nil {
			return nil, errorutil.NewUnavailable("complaint update could not be saved", err)
		}

		s.logger.Info("complaint updated",
			zap.String("tracking_id", trackingID),
			zap.String("old_status", string(oldStatus)),
			zap.String("new_status", string(status)),
		)

		publishEvent(ctx, s.dispatcher, events.Event{
			Type:       events.EventComplaintStatusChanged,
			TrackingID: trackingID,
			Actor:      events.ActorAuthority,
			Payload: events.ComplaintStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: status,
				Remarks:   records[i].AdminRemarks,
			},
		})

		record := records[i]
		return &record, nil
	}

	return nil, errorutil.NewNotFound("complaint", map[string]any{"tracking_id": trackingID})
}

// loadAndSweep loads the ledger, runs a burst pass over it, and persists the
// result when the pass reports a change. Sweep escalations reach the stored
// ledger here and nowhere else.
func (s *TriageService) loadAndSweep(ctx context.Context) ([]domain.Complaint, error) {
	records, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, errorutil.NewUnavailable("complaint ledger unavailable", err)
	}

	result := s.detector.Sweep(records)
	s.metrics.RecordSweep(len(result.Bursts))

	if result.Changed {
		if err := s.ledger.Save(ctx, records); err != nil {
			return nil, errorutil.NewUnavailable("escalation results could not be saved", err)
		}

		for _, burst := range result.Bursts {
			s.logger.Warn("burst detected",
				zap.String("city", burst.City),
				zap.String("category", burst.Category),
				zap.Int("count", burst.Count),
			)
			publishEvent(ctx, s.dispatcher, events.Event{
				Type:  events.EventBurstDetected,
				Actor: events.ActorEscalator,
				Payload: events.BurstDetectedPayload{
					City:     burst.City,
					Category: burst.Category,
					Count:    burst.Count,
				},
			})
		}
	}

	return records, nil
}

func sortComplaints(records []domain.Complaint, order string) {
	switch order {
	case SortOldest:
		sort.SliceStable(records, func(a, b int) bool {
			return records[a].FiledAt.Before(records[b].FiledAt)
		})
	case SortPriority:
		sort.SliceStable(records, func(a, b int) bool {
			return records[a].AIPriorityScore > records[b].AIPriorityScore
		})
	default:
		sort.SliceStable(records, func(a, b int) bool {
			return records[a].FiledAt.After(records[b].FiledAt)
		})
	}
}
