package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
)

func TestExportUmkmWorkbook(t *testing.T) {
	priceMax := int64(50000)
	product := domain.UmkmProduct{
		ID:             uuid.New(),
		Name:           "Batik Tulis",
		Slug:           "batik-tulis",
		OwnerName:      "Bu Sri",
		WhatsappNumber: "628123",
		Price:          35000,
		PriceMax:       &priceMax,
		Status:         domain.UmkmStatusVerified,
		CreatedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	umkm := newFakeUmkmRepo(product)
	svc := NewExportService(newFakeTourismRepo(), umkm)

	data, err := svc.Umkm(context.Background(), domain.DefaultListQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("UMKM")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and one row, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][3] != "Owner" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	row := rows[1]
	if row[1] != "Batik Tulis" || row[3] != "Bu Sri" || row[6] != "35000" || row[7] != "50000" || row[8] != "verified" {
		t.Fatalf("unexpected row %v", row)
	}
	if row[11] != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected created at %q", row[11])
	}
}

func TestExportTourismEmptyTable(t *testing.T) {
	svc := NewExportService(newFakeTourismRepo(), newFakeUmkmRepo())

	data, err := svc.Tourism(context.Background(), domain.DefaultListQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Tourism")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 1 || rows[0][1] != "Name" {
		t.Fatalf("expected header only, got %v", rows)
	}
}
