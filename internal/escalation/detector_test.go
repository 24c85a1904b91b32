package escalation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-kit/complaint-service/internal/domain"
)

func complaint(city, category string, status domain.Status) domain.Complaint {
	return domain.Complaint{
		TrackingID:      domain.GenerateTrackingID(),
		City:            city,
		Category:        category,
		Status:          status,
		AICategory:      category,
		AISeverity:      domain.SeverityMedium,
		AIPriorityScore: 5,
		AIReasoning:     "Classified '" + category + "'. Severity 'Medium'.",
	}
}

func markerCount(reasoning string) int {
	return strings.Count(reasoning, markerPrefix)
}

func TestSweepEscalatesBurstGroup(t *testing.T) {
	records := []domain.Complaint{
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Road", domain.StatusInProgress),
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Nashik", "Water", domain.StatusOpen),
	}

	result := NewDetector().Sweep(records)

	assert.True(t, result.Changed)
	require.Len(t, result.Bursts, 1)
	assert.Equal(t, BurstGroup{City: "Pune", Category: "Road", Count: 3}, result.Bursts[0])

	for i := 0; i < 3; i++ {
		assert.Equal(t, domain.SeverityCritical, records[i].AISeverity)
		assert.Equal(t, 10, records[i].AIPriorityScore)
		assert.True(t, records[i].ClusterFlag)
		assert.Equal(t, 1, markerCount(records[i].AIReasoning))
		assert.Contains(t, records[i].AIReasoning, "[AI BURST: 3 reports in Pune]")
	}

	// The Nashik record is outside the burst and stays untouched.
	assert.Equal(t, domain.SeverityMedium, records[3].AISeverity)
	assert.Equal(t, 5, records[3].AIPriorityScore)
	assert.False(t, records[3].ClusterFlag)
	assert.Equal(t, 0, markerCount(records[3].AIReasoning))
}

func TestSweepIsIdempotentOnNarrative(t *testing.T) {
	records := []domain.Complaint{
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Road", domain.StatusOpen),
	}

	d := NewDetector()
	d.Sweep(records)
	result := d.Sweep(records)

	// The group still meets the threshold, so the pass reports changed, but
	// no record gains a second marker.
	assert.True(t, result.Changed)
	for _, r := range records {
		assert.Equal(t, 1, markerCount(r.AIReasoning))
	}
}

func TestSweepMarkerCountIsNotRefreshed(t *testing.T) {
	records := []domain.Complaint{
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Road", domain.StatusOpen),
	}

	d := NewDetector()
	d.Sweep(records)

	records = append(records, complaint("Pune", "Road", domain.StatusOpen))
	result := d.Sweep(records)

	require.Len(t, result.Bursts, 1)
	assert.Equal(t, 4, result.Bursts[0].Count)

	// The three original narratives keep the stale count; only the newcomer
	// gets the current one.
	for i := 0; i < 3; i++ {
		assert.Contains(t, records[i].AIReasoning, "[AI BURST: 3 reports in Pune]")
		assert.Equal(t, 1, markerCount(records[i].AIReasoning))
	}
	assert.Contains(t, records[3].AIReasoning, "[AI BURST: 4 reports in Pune]")
}

func TestSweepBelowThreshold(t *testing.T) {
	records := []domain.Complaint{
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Road", domain.StatusOpen),
	}

	result := NewDetector().Sweep(records)

	assert.False(t, result.Changed)
	assert.Empty(t, result.Bursts)
	for _, r := range records {
		assert.False(t, r.ClusterFlag)
		assert.Equal(t, domain.SeverityMedium, r.AISeverity)
		assert.Equal(t, 5, r.AIPriorityScore)
		assert.Equal(t, 0, markerCount(r.AIReasoning))
	}
}

func TestSweepOnlyCountsActiveRecords(t *testing.T) {
	records := []domain.Complaint{
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Road", domain.StatusResolved),
		complaint("Pune", "Road", domain.StatusRejected),
	}

	result := NewDetector().Sweep(records)

	assert.False(t, result.Changed)
	for _, r := range records {
		assert.False(t, r.ClusterFlag)
	}
}

func TestSweepStickyEscalation(t *testing.T) {
	records := []domain.Complaint{
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Road", domain.StatusOpen),
	}

	d := NewDetector()
	d.Sweep(records)

	records[1].Status = domain.StatusResolved
	result := d.Sweep(records)

	assert.False(t, result.Changed, "two active records no longer form a burst")

	// Flags are recomputed from scratch and revert everywhere, but the
	// escalated severity and score are never rolled back.
	for _, r := range records {
		assert.False(t, r.ClusterFlag)
		assert.Equal(t, domain.SeverityCritical, r.AISeverity)
		assert.Equal(t, 10, r.AIPriorityScore)
		assert.Equal(t, 1, markerCount(r.AIReasoning))
	}
}

func TestSweepGroupsByCityAndCategory(t *testing.T) {
	records := []domain.Complaint{
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Water", domain.StatusOpen),
		complaint("Nashik", "Road", domain.StatusOpen),
	}

	result := NewDetector().Sweep(records)

	assert.False(t, result.Changed, "no single (city, category) group reaches the threshold")
}

func TestSweepMultipleGroups(t *testing.T) {
	records := []domain.Complaint{
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Pune", "Road", domain.StatusOpen),
		complaint("Nashik", "Water", domain.StatusOpen),
		complaint("Nashik", "Water", domain.StatusOpen),
		complaint("Nashik", "Water", domain.StatusOpen),
		complaint("Nashik", "Water", domain.StatusOpen),
	}

	result := NewDetector().Sweep(records)

	require.Len(t, result.Bursts, 2)
	assert.Equal(t, BurstGroup{City: "Nashik", Category: "Water", Count: 4}, result.Bursts[0])
	assert.Equal(t, BurstGroup{City: "Pune", Category: "Road", Count: 3}, result.Bursts[1])
}

func TestSweepEmptyLedger(t *testing.T) {
	result := NewDetector().Sweep(nil)

	assert.False(t, result.Changed)
	assert.Empty(t, result.Bursts)
}
