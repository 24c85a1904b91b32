package escalation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// BurstThreshold is the minimum number of active complaints sharing a city
// and category that counts as a burst.
const BurstThreshold = 3

// markerPrefix guards the narrative append: once any burst marker is present
// in a record's reasoning, no further marker is added. The count embedded in
// an existing marker is never refreshed, even if the cluster keeps growing.
const markerPrefix = "[AI BURST:"

// BurstGroup identifies one qualifying cluster found during a sweep.
type BurstGroup struct {
	City     string
	Category string
	Count    int
}

// SweepResult reports what a sweep did. Changed is a coarse persist signal:
// it is true whenever at least one group met the threshold on this pass, not
// a before/after diff of the records.
type SweepResult struct {
	Changed bool
	Bursts  []BurstGroup
}

// Detector finds bursts of active complaints and escalates their members.
type Detector struct{}

// NewDetector creates a burst detector.
func NewDetector() *Detector {
	return &Detector{}
}

type groupKey struct {
	city     string
	category string
}

// Sweep recomputes cluster membership across the whole ledger and escalates
// burst groups in place. Cluster flags are reset and rebuilt from scratch on
// every pass, so a record keeps its flag only while its group stays at or
// above the threshold. Escalated severity and score are sticky: they are
// never rolled back when a record drops out of a burst.
func (d *Detector) Sweep(records []domain.Complaint) SweepResult {
	for i := range records {
		records[i].ClusterFlag = false
	}

	groups := make(map[groupKey][]int)
	for i := range records {
		if !records[i].Active() {
			continue
		}
		key := groupKey{city: records[i].City, category: records[i].Category}
		groups[key] = append(groups[key], i)
	}

	var result SweepResult
	for key, members := range groups {
		if len(members) < BurstThreshold {
			continue
		}

		result.Changed = true
		result.Bursts = append(result.Bursts, BurstGroup{
			City:     key.city,
			Category: key.category,
			Count:    len(members),
		})

		marker := burstMarker(len(members), key.city)
		for _, i := range members {
			records[i].AISeverity = domain.SeverityCritical
			records[i].AIPriorityScore = 10
			records[i].ClusterFlag = true
			if !strings.Contains(records[i].AIReasoning, markerPrefix) {
				records[i].AIReasoning += marker
			}
		}
	}

	// Map iteration order is random; sort so event emission and tests see a
	// stable sequence.
	sort.Slice(result.Bursts, func(a, b int) bool {
		if result.Bursts[a].City != result.Bursts[b].City {
			return result.Bursts[a].City < result.Bursts[b].City
		}
		return result.Bursts[a].Category < result.Bursts[b].Category
	})

	return result
}

func burstMarker(count int, city string) string {
	return fmt.Sprintf(" [AI BURST: %d reports in %s]", count, city)
}
