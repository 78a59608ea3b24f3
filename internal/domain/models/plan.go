package models

import "context"

// StepKind тип шага загрузки
type StepKind string

const (
	StepStock StepKind = "stock"
	StepPrice StepKind = "price"
)

// StockLevel платформонезависимый остаток по одному offer id
type StockLevel struct {
	OfferID string `json:"offer_id"`
	Count   int    `json:"count"`
}

// PriceLevel платформонезависимая цена по одному offer id
type PriceLevel struct {
	OfferID string `json:"offer_id"`
	Price   string `json:"price"`
}

// UploadStep один пакетный запрос к маркетплейсу
type UploadStep struct {
	Kind  StepKind
	Index int
	Size  int
	Run   func(ctx context.Context) error
}

// Plan результат подготовки данных для одной цели синхронизации
type Plan struct {
	Stocks        []StockLevel
	InStock       []StockLevel
	Prices        []PriceLevel
	SkippedPrices int
	Steps         []UploadStep
}
