// Package export renders console lists as spreadsheets for download from the
// association console.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/lankaspa/portal/internal/model"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Spas renders the spa list as an xlsx workbook.
func (s *Service) Spas(spas []model.Spa) ([]byte, error) {
	headers := []string{"ID", "Name", "Owner", "Email", "Phone", "City", "Category", "Status", "Registered"}
	rows := make([][]interface{}, 0, len(spas))
	for _, sp := range spas {
		rows = append(rows, []interface{}{
			sp.ID, sp.Name, sp.OwnerName, sp.OwnerEmail, sp.OwnerPhone,
			sp.City, sp.Category, string(sp.Status), sp.CreatedAt.Format("2006-01-02"),
		})
	}
	return workbook("Spas", headers, rows)
}

// Therapists renders the therapist list as an xlsx workbook.
func (s *Service) Therapists(therapists []model.Therapist) ([]byte, error) {
	headers := []string{"ID", "Name", "NIC", "Email", "Phone", "Spa", "Status", "Registered"}
	rows := make([][]interface{}, 0, len(therapists))
	for _, t := range therapists {
		rows = append(rows, []interface{}{
			t.ID, t.FullName, t.NIC, t.Email, t.Phone, t.SpaName,
			string(t.Status), t.CreatedAt.Format("2006-01-02"),
		})
	}
	return workbook("Therapists", headers, rows)
}

func workbook(sheet string, headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
