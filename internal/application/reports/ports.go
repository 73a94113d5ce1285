package reports

import (
	"time"

	"github.com/jhoicas/bodega-bot/internal/domain/entity"
)

// StockPDFGenerator genera la representación PDF del reporte de stock.
// Implementado en infrastructure/pdf con Maroto.
type StockPDFGenerator interface {
	GenerateStockPDF(items []*entity.Item, generatedAt time.Time) ([]byte, error)
}
