package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"cardfolio-backend/internal/domains/cardrequest/model"
	"cardfolio-backend/internal/shared/authz"
)

// ExportToExcel builds an Excel workbook of card requests for the admin
// back office, using the same filters as List.
func (s *cardRequestService) ExportToExcel(
	ctx context.Context,
	actor authz.AuthContext,
	req model.ListCardRequestsRequest,
) (*excelize.File, error) {
	if req.Limit <= 0 {
		req.Limit = 100
	}
	if req.Limit > 500 {
		req.Limit = 500
	}

	result, err := s.List(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	f, err := buildCardRequestsExcelFile(result.CardRequests)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}

	return f, nil
}

func buildCardRequestsExcelFile(cards []model.CardRequest) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Card requests"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{
		"ID",
		"Owner",
		"Display Name",
		"Company",
		"Theme",
		"Status",
		"Public",
		"Share Slug",
		"Like Count",
		"Illustration URL",
		"Submitted At",
		"Updated At",
	}

	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheetName, "A1", lastCol, headerStyle)
	}

	for i, card := range cards {
		rowNum := i + 2
		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}

		f.SetCellValue(sheetName, cell(1), card.ID.String())
		f.SetCellValue(sheetName, cell(2), card.OwnerEmail)
		f.SetCellValue(sheetName, cell(3), card.DisplayName)
		if card.Company != nil {
			f.SetCellValue(sheetName, cell(4), *card.Company)
		}
		f.SetCellValue(sheetName, cell(5), card.Theme)
		f.SetCellValue(sheetName, cell(6), string(card.Status))
		f.SetCellValue(sheetName, cell(7), card.IsPublic)
		f.SetCellValue(sheetName, cell(8), card.ShareSlug)
		f.SetCellValue(sheetName, cell(9), card.LikeCount)
		if card.IllustrationURL != nil {
			f.SetCellValue(sheetName, cell(10), *card.IllustrationURL)
		}
		f.SetCellValue(sheetName, cell(11), card.SubmittedAt.Format(time.RFC3339))
		f.SetCellValue(sheetName, cell(12), card.UpdatedAt.Format(time.RFC3339))
	}

	return f, nil
}

// ExportFileName builds the attachment name for a card request export.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("card-requests-%s.xlsx", now.UTC().Format("2006-01-02-150405"))
}
