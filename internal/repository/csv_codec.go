package repository

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// timestampFormat is the layout the ledger files carry for filing times.
const timestampFormat = "2006-01-02 15:04:05"

// decodeCSV parses a stored ledger payload. Decoding is header-driven: the
// first row names the columns, canonical columns absent from the header are
// back-filled with type-appropriate defaults, and columns outside the schema
// are ignored. Individual cells that fail to parse coerce to their default
// instead of failing the row; only a structurally unparseable payload returns
// an error.
func decodeCSV(data []byte) ([]domain.Complaint, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Complaint{}, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse ledger csv: %w", err)
	}
	if len(rows) == 0 {
		return []domain.Complaint{}, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}

	records := make([]domain.Complaint, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, decodeRow(row, index))
	}
	return records, nil
}

func decodeRow(row []string, index map[string]int) domain.Complaint {
	str := func(field string) string {
		v, ok := cell(row, index, field)
		if !ok {
			return domain.PlaceholderValue
		}
		return v
	}

	imageRef := domain.ImageRefNone
	if v, ok := cell(row, index, domain.FieldImageRef); ok && strings.TrimSpace(v) != "" {
		imageRef = v
	}

	return domain.Complaint{
		TrackingID:       str(domain.FieldTrackingID),
		FiledAt:          parseTime(row, index),
		State:            str(domain.FieldState),
		City:             str(domain.FieldCity),
		Area:             str(domain.FieldArea),
		Category:         str(domain.FieldCategory),
		SeverityReported: domain.Severity(str(domain.FieldSeverityReported)),
		Description:      str(domain.FieldDescription),
		ImageRef:         imageRef,
		Status:           domain.Status(str(domain.FieldStatus)),
		AdminRemarks:     remarksValue(row, index),
		AICategory:       str(domain.FieldAICategory),
		AISeverity:       domain.Severity(str(domain.FieldAISeverity)),
		AIPriorityScore:  parseScore(row, index),
		AIConfidence:     parseConfidence(row, index),
		AIReasoning:      str(domain.FieldAIReasoning),
		ClusterFlag:      parseFlag(row, index),
	}
}

func cell(row []string, index map[string]int, field string) (string, bool) {
	i, ok := index[field]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

// remarksValue keeps a present-but-empty remark empty: complaints without an
// authority note are the common case, not missing data.
func remarksValue(row []string, index map[string]int) string {
	v, ok := cell(row, index, domain.FieldAdminRemarks)
	if !ok {
		return ""
	}
	return v
}

func parseTime(row []string, index map[string]int) time.Time {
	v, ok := cell(row, index, domain.FieldTimestamp)
	if !ok {
		return time.Time{}
	}
	if t, err := time.Parse(timestampFormat, v); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	return time.Time{}
}

func parseScore(row []string, index map[string]int) int {
	v, ok := cell(row, index, domain.FieldAIPriorityScore)
	if !ok {
		return 0
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		return n
	}
	// Older exports carried scores as floats ("10.0").
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		return int(f)
	}
	return 0
}

func parseConfidence(row []string, index map[string]int) float64 {
	v, ok := cell(row, index, domain.FieldAIConfidence)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseFlag(row []string, index map[string]int) bool {
	v, ok := cell(row, index, domain.FieldClusterFlag)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return b
}

// encodeCSV renders the full ledger with the canonical 17-column header.
func encodeCSV(records []domain.Complaint) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(domain.Schema()); err != nil {
		return nil, fmt.Errorf("encode ledger header: %w", err)
	}
	for _, c := range records {
		row := []string{
			c.TrackingID,
			c.FiledAt.Format(timestampFormat),
			c.State,
			c.City,
			c.Area,
			c.Category,
			string(c.SeverityReported),
			c.Description,
			c.ImageRef,
			string(c.Status),
			c.AdminRemarks,
			c.AICategory,
			string(c.AISeverity),
			strconv.Itoa(c.AIPriorityScore),
			strconv.FormatFloat(c.AIConfidence, 'g', -1, 64),
			c.AIReasoning,
			formatBool(c.ClusterFlag),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("encode ledger row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush ledger csv: %w", err)
	}
	return buf.Bytes(), nil
}

// formatBool matches the True/False casing found in the existing ledger
// exports.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
