package usecase

import (
	"context"
	"fmt"
	"io"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Applications"

var exportHeaders = []string{
	"Application ID", "Applicant", "Email", "Status", "Matching Ratio", "Applied At", "Last Update", "Cover Letter",
}

// ExportForJob writes an xlsx workbook of every application to one of the caller's jobs.
func (uc *applicationUsecase) ExportForJob(ctx context.Context, p domain.Principal, jobID int64, w io.Writer) error {
	job, err := uc.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return notFoundOr(err, fmt.Sprintf("Job with ID %d not found", jobID))
	}
	if job.PostedBy != p.UserID {
		return apperror.Forbidden("You are not permitted to export applications of this job")
	}

	apps, err := uc.Apps.ListAllByJob(ctx, p.UserID, jobID)
	if err != nil {
		return apperror.Internal(err)
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", exportSheet)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(exportSheet, "A1", endCell, headerStyle)

	for i, app := range apps {
		status, _ := app.Status.MarshalText()
		coverLetter := ""
		if app.CoverLetter != nil {
			coverLetter = *app.CoverLetter
		}
		row := []any{
			app.ID,
			app.ApplicantName,
			app.ApplicantEmail,
			string(status),
			app.MatchingRatio,
			app.AppliedAt.Format("2006-01-02 15:04"),
			app.LastUpdate.Format("2006-01-02 15:04"),
			coverLetter,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return apperror.Internal(err)
		}
	}

	for i := range exportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheet, col, col, 20)
	}

	if _, err := f.WriteTo(w); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
