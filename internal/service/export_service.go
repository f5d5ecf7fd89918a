package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/ports"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	tourismExportHeader = []any{"ID", "Name", "Slug", "Location", "Category ID", "Status", "Featured", "Views", "Images", "Created At"}
	umkmExportHeader    = []any{"ID", "Name", "Slug", "Owner", "WhatsApp", "Category ID", "Price", "Price Max", "Status", "Featured", "Views", "Created At"}
)

// ExportService writes full admin tables to XLSX workbooks, one row per
// record in list order.
type ExportService struct {
	tourism ports.TourismRepository
	umkm    ports.UmkmRepository
}

func NewExportService(tourism ports.TourismRepository, umkm ports.UmkmRepository) *ExportService {
	return &ExportService{tourism: tourism, umkm: umkm}
}

func (s *ExportService) Tourism(ctx context.Context, q domain.ListQuery) ([]byte, error) {
	rows, err := s.tourism.List(ctx, q)
	if err != nil {
		return nil, err
	}
	records := make([][]any, 0, len(rows))
	for _, d := range rows {
		records = append(records, []any{
			d.ID.String(), d.Name, d.Slug, deref(d.Location), d.ItemCategory(),
			string(d.Status), d.IsFeatured, d.ViewCount, len(d.Images), d.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return writeWorkbook("Tourism", tourismExportHeader, records)
}

func (s *ExportService) Umkm(ctx context.Context, q domain.ListQuery) ([]byte, error) {
	rows, err := s.umkm.List(ctx, q)
	if err != nil {
		return nil, err
	}
	records := make([][]any, 0, len(rows))
	for _, p := range rows {
		var priceMax any = ""
		if p.PriceMax != nil {
			priceMax = *p.PriceMax
		}
		records = append(records, []any{
			p.ID.String(), p.Name, p.Slug, p.OwnerName, p.WhatsappNumber, p.ItemCategory(),
			p.Price, priceMax, string(p.Status), p.IsFeatured, p.ViewCount, p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return writeWorkbook("UMKM", umkmExportHeader, records)
}

func writeWorkbook(sheet string, header []any, records [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := record
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
