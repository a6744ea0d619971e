package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hukukai-backend/models"

	"github.com/google/uuid"
)

var ErrReportNotFound = errors.New("analysis report not found")

const reportContentType = "application/json"

// ReportStore persists analysis reports as JSON documents on a Storage backend
type ReportStore struct {
	backend Storage
}

// NewReportStore creates a report store on top of backend
func NewReportStore(backend Storage) *ReportStore {
	return &ReportStore{backend: backend}
}

// reportKey shards reports by the first two characters of their id
func reportKey(id uuid.UUID) string {
	s := id.String()
	return fmt.Sprintf("reports/%s/%s.json", s[:2], s)
}

// Save stores report, assigning an id when it has none
func (s *ReportStore) Save(ctx context.Context, report *models.AnalysisReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := s.backend.Upload(ctx, reportKey(report.ID), reportContentType, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// Load returns the report stored under id
func (s *ReportStore) Load(ctx context.Context, id uuid.UUID) (*models.AnalysisReport, error) {
	body, err := s.backend.Download(ctx, reportKey(id))
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}
	defer body.Close()

	var report models.AnalysisReport
	if err := json.NewDecoder(body).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &report, nil
}

// Delete removes the report stored under id
func (s *ReportStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.backend.Delete(ctx, reportKey(id)); err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	return nil
}
