// Package reports arma los documentos exportables del inventario: CSV con BOM
// UTF-8 (compatible con Excel), XLSX vía excelize y PDF vía el puerto
// StockPDFGenerator. Cada documento sale listo para enviarse como adjunto.
package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/bodega-bot/internal/domain/entity"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	sheetName  = "Inventario"
)

var exportHeaders = []string{"id", "sku", "name", "qty", "unit", "warehouse", "location", "min_qty", "updated_at"}

// Document es un archivo exportado listo para adjuntar.
type Document struct {
	Bytes    []byte
	Filename string
	Caption  string
}

// Service construye los reportes de stock.
type Service struct {
	pdf StockPDFGenerator
}

// NewService construye el servicio de reportes.
func NewService(pdf StockPDFGenerator) *Service {
	return &Service{pdf: pdf}
}

// CSV exporta el inventario completo. El BOM UTF-8 inicial evita que Excel
// rompa los acentos al abrir el archivo.
func (s *Service) CSV(items []*entity.Item) (*Document, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, it := range items {
		row := []string{
			fmt.Sprintf("%d", it.ID),
			it.SKU,
			it.Name,
			it.Qty.String(),
			it.Unit,
			derefOr(it.Warehouse, ""),
			derefOr(it.Location, ""),
			it.MinQty.String(),
			it.UpdatedAt.Format(timeLayout),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return &Document{Bytes: buf.Bytes(), Filename: "stock_export.csv", Caption: "Exportación de stock"}, nil
}

// XLSX exporta el inventario como hoja de cálculo con celdas tipadas.
func (s *Service) XLSX(items []*entity.Item) (*Document, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write xlsx header: %w", err)
		}
	}
	for i, it := range items {
		values := []any{
			it.ID,
			it.SKU,
			it.Name,
			it.Qty.InexactFloat64(),
			it.Unit,
			derefOr(it.Warehouse, ""),
			derefOr(it.Location, ""),
			it.MinQty.InexactFloat64(),
			it.UpdatedAt.Format(timeLayout),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write xlsx row: %w", err)
			}
		}
	}
	_ = f.SetColWidth(sheetName, "B", "C", 24)
	_ = f.SetColWidth(sheetName, "F", "G", 16)
	_ = f.SetColWidth(sheetName, "I", "I", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize xlsx: %w", err)
	}
	return &Document{Bytes: buf.Bytes(), Filename: "stock_export.xlsx", Caption: "Exportación de stock"}, nil
}

// PDF exporta el inventario como reporte PDF.
func (s *Service) PDF(items []*entity.Item) (*Document, error) {
	data, err := s.pdf.GenerateStockPDF(items, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate stock pdf: %w", err)
	}
	return &Document{Bytes: data, Filename: "stock_report.pdf", Caption: "Reporte de stock"}, nil
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
