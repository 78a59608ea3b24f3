package supplier

import (
	"fmt"
	"os"

	"github.com/extrame/xls"
)

// SheetReader читает первый лист файла таблицы в виде строк ячеек
type SheetReader interface {
	ReadRows(path string) ([][]string, error)
}

// XLSReader читает файлы Excel 97-2003 (.xls)
type XLSReader struct {
	Charset string
}

// NewXLSReader создает читатель .xls с кодировкой строк по умолчанию
func NewXLSReader(charset string) *XLSReader {
	if charset == "" {
		charset = "utf-8"
	}
	return &XLSReader{Charset: charset}
}

// ReadRows возвращает все строки первого листа, отсутствующие строки представлены nil
func (r *XLSReader) ReadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sheet: %w", err)
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, r.Charset)
	if err != nil {
		return nil, fmt.Errorf("%w: read xls: %w", ErrSheet, err)
	}
	if wb == nil {
		return nil, fmt.Errorf("%w: no workbook stream", ErrSheet)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrSheet)
	}
	// лист из одной строки не может содержать заголовок и данные,
	// а ReadAllCells в этом случае перешел бы к следующему листу
	if sheet.MaxRow == 0 {
		return nil, nil
	}

	// Row(i) паникует на строке без записей, поэтому читаем через ReadAllCells
	return wb.ReadAllCells(int(sheet.MaxRow) + 1), nil
}
