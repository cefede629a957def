package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/campus-scrud/enrollment-service/internal/repositories"
)

type exportService struct {
	repo    repositories.Repository
	logger  *slog.Logger
	grading GradingService
}

func NewExportService(repo repositories.Repository, logger *slog.Logger, grading GradingService) ExportService {
	return &exportService{
		repo:    repo,
		logger:  logger,
		grading: grading,
	}
}

// ExportRoster renders the course roster as an xlsx workbook. Returns the
// file contents and a suggested filename. Access control is the roster's.
func (s *exportService) ExportRoster(ctx context.Context, userID, courseID int) ([]byte, string, error) {
	roster, err := s.grading.Roster(ctx, userID, courseID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	const sheet = "Roster"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, "", fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{"Student ID", "Last Name", "First Name", "Level", "Grade"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, entry := range roster.Entries {
		level := ""
		if entry.Level != nil {
			level = string(*entry.Level)
		}
		values := []interface{}{entry.StudentID, entry.LastName, entry.FirstName, level, entry.Score}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, "", fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write roster row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("roster_course_%d.xlsx", courseID)
	s.logger.Info("Roster exported", "course_id", courseID, "rows", len(roster.Entries))

	return buf.Bytes(), filename, nil
}
