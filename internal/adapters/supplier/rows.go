package supplier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
)

var (
	ErrHeaderNotFound = fmt.Errorf("%w: header row not found", models.ErrParse)
	ErrColumnMissing  = fmt.Errorf("%w: required column missing", models.ErrParse)
	ErrSheet          = fmt.Errorf("%w: spreadsheet", models.ErrParse)
)

// RecordsFromRows превращает строки листа в записи прайса.
// Строка headerRow (с нуля) содержит имена колонок, данные идут ниже.
// Отсутствующие ячейки считаются пустыми строками, полностью пустые строки пропускаются.
func RecordsFromRows(rows [][]string, headerRow int, columns models.Columns) ([]models.SupplierRecord, error) {
	if headerRow < 0 || len(rows) <= headerRow {
		return nil, fmt.Errorf("%w: sheet has %d rows, header expected at %d", ErrHeaderNotFound, len(rows), headerRow)
	}

	header := headerNames(rows[headerRow])
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	codeCol, ok := index[columns.Code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnMissing, columns.Code)
	}
	qtyCol, ok := index[columns.Quantity]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnMissing, columns.Quantity)
	}
	priceCol, hasPrice := index[columns.Price]

	records := make([]models.SupplierRecord, 0, len(rows)-headerRow-1)
	for _, row := range rows[headerRow+1:] {
		if isBlank(row) {
			continue
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			fields[name] = cell(row, i)
		}

		record := models.SupplierRecord{
			Code:     normalizeCode(cell(row, codeCol)),
			Quantity: strings.TrimSpace(cell(row, qtyCol)),
			HasPrice: hasPrice,
			Fields:   fields,
		}
		if hasPrice {
			record.Price = strings.TrimSpace(cell(row, priceCol))
		}

		records = append(records, record)
	}

	return records, nil
}

func headerNames(row []string) []string {
	names := make([]string, len(row))
	for i, raw := range row {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		names[i] = name
	}
	return names
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// normalizeCode приводит числовой артикул, прочитанный как "123.0", к "123"
func normalizeCode(raw string) string {
	code := strings.TrimSpace(raw)
	if whole, ok := strings.CutSuffix(code, ".0"); ok && whole != "" {
		if _, err := strconv.ParseUint(whole, 10, 64); err == nil {
			return whole
		}
	}
	return code
}
