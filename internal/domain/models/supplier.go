package models

// SupplierRecord представляет одну строку прайса поставщика
type SupplierRecord struct {
	// Code артикул товара, по нему запись сопоставляется с offer id маркетплейса
	Code string `json:"code"`
	// Quantity сырое значение остатка: число, ">10" или "1"
	Quantity string `json:"quantity"`
	// Price сырая цена вида "5'990.00 руб."
	Price string `json:"price"`
	// HasPrice false, если в прайсе нет колонки цены
	HasPrice bool `json:"has_price"`
	// Fields все колонки строки: имя колонки -> значение ячейки
	Fields map[string]string `json:"fields,omitempty"`
}

// Columns имена колонок прайса, из которых берутся артикул, остаток и цена
type Columns struct {
	Code     string
	Quantity string
	Price    string
}

// DefaultColumns колонки прайса timeworld
var DefaultColumns = Columns{
	Code:     "Код",
	Quantity: "Количество",
	Price:    "Цена",
}
