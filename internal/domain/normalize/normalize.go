// Package normalize приводит сырые значения прайса поставщика к виду,
// который принимают маркетплейсы.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/athebyme/gomarket-stocksync/internal/domain/models"
)

const (
	// MoreThanTen значение остатка в прайсе, когда на складе больше десяти штук
	MoreThanTen = ">10"
	// LastUnit последняя штука в резерве, на маркетплейсах считаем ее отсутствующей
	LastUnit = "1"

	moreThanTenStock = 100
)

var (
	ErrInvalidQuantity = fmt.Errorf("%w: invalid quantity", models.ErrParse)
	ErrEmptyPrice      = fmt.Errorf("%w: empty price", models.ErrParse)
)

// Quantity переводит остаток из прайса в число штук для маркетплейса
func Quantity(raw string) (int, error) {
	switch raw {
	case MoreThanTen:
		return moreThanTenStock, nil
	case LastUnit:
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidQuantity, raw, err)
	}
	return n, nil
}

// Price оставляет от цены вида "5'990.00 руб." только цифры рублей: "5990"
func Price(raw string) string {
	whole, _, _ := strings.Cut(raw, ".")

	var b strings.Builder
	b.Grow(len(whole))
	for i := 0; i < len(whole); i++ {
		if c := whole[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// RecordPrice нормализует цену записи; пустая или отсутствующая цена дает ErrEmptyPrice
func RecordPrice(record models.SupplierRecord) (string, error) {
	if !record.HasPrice || strings.TrimSpace(record.Price) == "" {
		return "", fmt.Errorf("%w: code %q", ErrEmptyPrice, record.Code)
	}
	return Price(record.Price), nil
}
