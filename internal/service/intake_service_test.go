package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/classify"
	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/events"
	"github.com/civic-kit/complaint-service/internal/evidence"
	"github.com/civic-kit/complaint-service/internal/observability"
	"github.com/civic-kit/complaint-service/internal/repository"
	"github.com/civic-kit/complaint-service/pkg/errorutil"
)

// failingLedger wraps a real store and injects failures per call.
type failingLedger struct {
	inner   repository.LedgerStore
	loadErr error
	saveErr error
}

func (f *failingLedger) Load(ctx context.Context) ([]domain.Complaint, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.inner.Load(ctx)
}

func (f *failingLedger) Save(ctx context.Context, records []domain.Complaint) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.inner.Save(ctx, records)
}

type failingEvidence struct {
	putErr error
	urlErr error
}

func (f *failingEvidence) Put(context.Context, []byte, string, string) (string, error) {
	return "", f.putErr
}

func (f *failingEvidence) TemporaryURL(context.Context, string) (string, error) {
	return "", f.urlErr
}

func newIntakeFixture(ledger repository.LedgerStore, store evidence.Store) (*IntakeService, events.Dispatcher) {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewIntakeService(IntakeDependencies{
		Ledger:     ledger,
		Evidence:   store,
		Classifier: classify.NewClassifier(classify.DefaultRuleSet()),
		Dispatcher: dispatcher,
		Metrics:    observability.NewMetrics(),
		Logger:     zap.NewNop(),
	})
	return svc, dispatcher
}

func validInput() ComplaintInput {
	return ComplaintInput{
		State:       "Maharashtra",
		City:        "Pune",
		Area:        "Kothrud",
		Category:    "Other",
		Severity:    domain.SeverityHigh,
		Description: "Deep pothole on the main road",
	}
}

func TestSubmitComplaintFilesRecord(t *testing.T) {
	ctx := context.Background()
	ledger := repository.NewMemoryLedger()
	svc, _ := newIntakeFixture(ledger, evidence.NewMemoryStore())

	record, err := svc.SubmitComplaint(ctx, validInput())
	require.NoError(t, err)

	assert.True(t, domain.ValidTrackingID(record.TrackingID))
	assert.Equal(t, domain.StatusOpen, record.Status)
	assert.False(t, record.FiledAt.IsZero())
	assert.Equal(t, "Road", record.AICategory, "description triggers reclassification")
	assert.Equal(t, domain.SeverityHigh, record.AISeverity)
	assert.Equal(t, 8, record.AIPriorityScore)
	assert.Equal(t, classify.Confidence, record.AIConfidence)
	assert.Equal(t, "Classified 'Road'. Severity 'High'.", record.AIReasoning)
	assert.Equal(t, domain.ImageRefNone, record.ImageRef)
	assert.Empty(t, record.AdminRemarks)
	assert.False(t, record.ClusterFlag)

	stored, err := ledger.Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, record.TrackingID, stored[0].TrackingID)
}

func TestSubmitComplaintAppendsToExistingLedger(t *testing.T) {
	ctx := context.Background()
	ledger := repository.NewMemoryLedger()
	svc, _ := newIntakeFixture(ledger, evidence.NewMemoryStore())

	_, err := svc.SubmitComplaint(ctx, validInput())
	require.NoError(t, err)
	_, err = svc.SubmitComplaint(ctx, validInput())
	require.NoError(t, err)

	stored, err := ledger.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestSubmitComplaintValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntakeFixture(repository.NewMemoryLedger(), evidence.NewMemoryStore())

	input := validInput()
	input.City = "   "
	input.Description = ""

	_, err := svc.SubmitComplaint(ctx, input)
	require.Error(t, err)

	domainErr := errorutil.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.ElementsMatch(t, []string{"city", "description"}, domainErr.Details["fields"])
}

func TestSubmitComplaintKeepsDeclaredCategory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntakeFixture(repository.NewMemoryLedger(), evidence.NewMemoryStore())

	input := validInput()
	input.Category = "Traffic"
	input.Description = "constant jam at the junction every evening"

	record, err := svc.SubmitComplaint(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "Traffic", record.AICategory)
}

func TestSubmitComplaintCriticalTrigger(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntakeFixture(repository.NewMemoryLedger(), evidence.NewMemoryStore())

	input := validInput()
	input.Severity = domain.SeverityLow
	input.Description = "transformer wire sparking near the school"

	record, err := svc.SubmitComplaint(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityCritical, record.AISeverity)
	assert.Equal(t, 10, record.AIPriorityScore)
	assert.Equal(t, domain.SeverityLow, record.SeverityReported, "declared severity is immutable")
}

func TestSubmitComplaintWithEvidence(t *testing.T) {
	ctx := context.Background()
	store := evidence.NewMemoryStore()
	svc, _ := newIntakeFixture(repository.NewMemoryLedger(), store)

	input := validInput()
	input.Evidence = &EvidenceUpload{
		Filename:    "pothole.jpg",
		ContentType: "image/jpeg",
		Data:        []byte("jpeg-bytes"),
	}

	record, err := svc.SubmitComplaint(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, evidence.ObjectName(record.TrackingID, "pothole.jpg"), record.ImageRef)

	url, err := store.TemporaryURL(ctx, record.ImageRef)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
}

func TestSubmitComplaintWithPreStoredImageRef(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntakeFixture(repository.NewMemoryLedger(), evidence.NewMemoryStore())

	input := validInput()
	input.ImageRef = "EXISTING1_leak.jpg"

	record, err := svc.SubmitComplaint(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "EXISTING1_leak.jpg", record.ImageRef)
}

func TestSubmitComplaintEvidenceFailure(t *testing.T) {
	ctx := context.Background()
	ledger := repository.NewMemoryLedger()
	svc, _ := newIntakeFixture(ledger, &failingEvidence{putErr: errors.New("bucket down")})

	input := validInput()
	input.Evidence = &EvidenceUpload{Filename: "pothole.jpg", Data: []byte("x")}

	_, err := svc.SubmitComplaint(ctx, input)
	require.Error(t, err)
	assert.Equal(t, "STORE_UNAVAILABLE", errorutil.ToDomainError(err).Code)

	stored, err := ledger.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored, "failed upload must not file a record")
}

func TestSubmitComplaintSaveFailure(t *testing.T) {
	ctx := context.Background()
	ledger := &failingLedger{inner: repository.NewMemoryLedger(), saveErr: errors.New("write refused")}
	svc, _ := newIntakeFixture(ledger, evidence.NewMemoryStore())

	_, err := svc.SubmitComplaint(ctx, validInput())
	require.Error(t, err)
	assert.Equal(t, "STORE_UNAVAILABLE", errorutil.ToDomainError(err).Code)
}

func TestSubmitComplaintPublishesEvent(t *testing.T) {
	ctx := context.Background()
	svc, dispatcher := newIntakeFixture(repository.NewMemoryLedger(), evidence.NewMemoryStore())

	var captured []events.Event
	dispatcher.Subscribe(events.EventComplaintFiled, func(_ context.Context, event events.Event) error {
		captured = append(captured, event)
		return nil
	})

	record, err := svc.SubmitComplaint(ctx, validInput())
	require.NoError(t, err)

	require.Len(t, captured, 1)
	event := captured[0]
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, record.TrackingID, event.TrackingID)
	assert.Equal(t, events.ActorCitizen, event.Actor)

	payload, ok := event.Payload.(events.ComplaintFiledPayload)
	require.True(t, ok)
	assert.Equal(t, "Pune", payload.City)
	assert.Equal(t, record.AISeverity, payload.Severity)
	assert.Equal(t, record.AIPriorityScore, payload.PriorityScore)
}

func TestTrackComplaint(t *testing.T) {
	ctx := context.Background()
	store := evidence.NewMemoryStore()
	svc, _ := newIntakeFixture(repository.NewMemoryLedger(), store)

	input := validInput()
	input.Evidence = &EvidenceUpload{Filename: "pothole.jpg", Data: []byte("x")}
	filed, err := svc.SubmitComplaint(ctx, input)
	require.NoError(t, err)

	record, url, err := svc.TrackComplaint(ctx, filed.TrackingID)
	require.NoError(t, err)
	assert.Equal(t, filed.TrackingID, record.TrackingID)
	assert.Equal(t, "memory://evidence/"+filed.ImageRef, url)
}

func TestTrackComplaintWithoutEvidence(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntakeFixture(repository.NewMemoryLedger(), evidence.NewMemoryStore())

	filed, err := svc.SubmitComplaint(ctx, validInput())
	require.NoError(t, err)

	_, url, err := svc.TrackComplaint(ctx, filed.TrackingID)
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestTrackComplaintNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newIntakeFixture(repository.NewMemoryLedger(), evidence.NewMemoryStore())

	_, _, err := svc.TrackComplaint(ctx, "NOSUCHID")
	require.Error(t, err)

	domainErr := errorutil.ToDomainError(err)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}

func TestTrackComplaintLoadFailure(t *testing.T) {
	ctx := context.Background()
	ledger := &failingLedger{inner: repository.NewMemoryLedger(), loadErr: errors.New("read refused")}
	svc, _ := newIntakeFixture(ledger, evidence.NewMemoryStore())

	_, _, err := svc.TrackComplaint(ctx, "A1B2C3D4")
	require.Error(t, err)
	assert.Equal(t, "STORE_UNAVAILABLE", errorutil.ToDomainError(err).Code)
}
