package storage

import (
	"context"
	"fmt"

	"catalog-crawler/pkg/models"

	"github.com/xuri/excelize/v2"
)

const productsSheet = "Products"

// ExcelSink writes the result set to a single workbook, replacing any previous file.
type ExcelSink struct {
	Path string
}

func NewExcelSink(path string) *ExcelSink {
	return &ExcelSink{Path: path}
}

func (s *ExcelSink) Name() string { return "excel" }

func (s *ExcelSink) Save(_ context.Context, result *models.ResultSet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", productsSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(models.Columns))
	for i, c := range models.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(productsSheet, "A1", &header); err != nil {
		return err
	}

	for i, p := range result.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := p.Row()
		if err := f.SetSheetRow(productsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(s.Path); err != nil {
		return fmt.Errorf("save %s: %w", s.Path, err)
	}
	return nil
}
