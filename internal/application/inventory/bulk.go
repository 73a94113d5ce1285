package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
)

// maxBulkErrors limita cuántos errores por fila se muestran en el resumen.
const maxBulkErrors = 10

// BulkReport resume una carga masiva: cada fila se valida y confirma de forma
// independiente (semántica de fallo parcial, nunca todo-o-nada).
type BulkReport struct {
	Created int
	Skipped int
	Errors  []string
}

// Summary arma el texto del resumen: totales más los primeros errores y un
// contador de desborde.
func (r *BulkReport) Summary() string {
	lines := []string{fmt.Sprintf("Listo. Creados: %d. Omitidos: %d.", r.Created, r.Skipped)}
	if len(r.Errors) > 0 {
		lines = append(lines, "Errores:")
		shown := r.Errors
		if len(shown) > maxBulkErrors {
			shown = shown[:maxBulkErrors]
		}
		lines = append(lines, shown...)
		if rest := len(r.Errors) - maxBulkErrors; rest > 0 {
			lines = append(lines, fmt.Sprintf("... %d más", rest))
		}
	}
	return strings.Join(lines, "\n")
}

// BulkAdd procesa un bloque de texto con una fila CSV por línea:
//
//	sku,name,qty[,unit[,location[,warehouse[,min_qty]]]]
//
// Los campos finales son opcionales (unit="pcs", min_qty=0). Las bodegas
// citadas que no existan se crean automáticamente. Una fila mala se anota y
// el procesamiento continúa con la siguiente. Devuelve domain.ErrInvalidInput
// si el bloque no trae ninguna fila.
func (uc *UseCase) BulkAdd(text string) (*BulkReport, error) {
	rows := parseBulkLines(text)
	if len(rows) == 0 {
		return nil, domain.ErrInvalidInput
	}

	report := &BulkReport{}
	for idx, row := range rows {
		line := idx + 1
		rec, errMsg := parseBulkRow(line, row)
		if errMsg != "" {
			report.Errors = append(report.Errors, errMsg)
			continue
		}

		if rec.Warehouse != nil {
			if err := uc.ensureWarehouse(*rec.Warehouse); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("Fila %d: bodega: %v", line, err))
				continue
			}
		}

		_, err := uc.AddItem(*rec)
		switch {
		case err == nil:
			report.Created++
		case errors.Is(err, domain.ErrDuplicate):
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("Fila %d: el SKU ya existe", line))
		default:
			report.Errors = append(report.Errors, fmt.Sprintf("Fila %d: %v", line, err))
		}
	}
	return report, nil
}

// parseBulkLines separa el bloque en filas CSV, una por línea no vacía.
func parseBulkLines(text string) [][]string {
	var rows [][]string
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		reader := csv.NewReader(strings.NewReader(line))
		reader.TrimLeadingSpace = true
		reader.FieldsPerRecord = -1
		rec, err := reader.Read()
		if err != nil {
			rows = append(rows, []string{line})
			continue
		}
		rows = append(rows, rec)
	}
	return rows
}

// parseBulkRow valida una fila y la convierte en AddItemInput.
// Devuelve el mensaje de error de la fila, o "" si es válida.
func parseBulkRow(line int, row []string) (*AddItemInput, string) {
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	sku, name, qtyRaw := field(0), field(1), field(2)
	if sku == "" || name == "" || qtyRaw == "" {
		return nil, fmt.Sprintf("Fila %d: se requiere sku,name,qty", line)
	}
	qty, err := ParseNumber(qtyRaw)
	if err != nil {
		return nil, fmt.Sprintf("Fila %d: qty inválido", line)
	}
	unit := field(3)
	if unit == "" {
		unit = DefaultUnit
	}
	minQty := decimal.Zero
	if raw := field(6); raw != "" {
		minQty, err = ParseNumber(raw)
		if err != nil {
			return nil, fmt.Sprintf("Fila %d: min_qty inválido", line)
		}
	}
	in := &AddItemInput{SKU: sku, Name: name, Qty: qty, Unit: unit, MinQty: minQty}
	if loc := field(4); loc != "" {
		in.Location = &loc
	}
	if wh := field(5); wh != "" {
		in.Warehouse = &wh
	}
	return in, ""
}

// ensureWarehouse crea la bodega si no existe; tolera la carrera de creación concurrente.
func (uc *UseCase) ensureWarehouse(name string) error {
	existing, err := uc.warehouses.GetByName(name)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	err = uc.warehouses.Create(&entity.Warehouse{Name: name, CreatedAt: time.Now()})
	if errors.Is(err, domain.ErrDuplicate) {
		return nil
	}
	return err
}
