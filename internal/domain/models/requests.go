package models

// Requests for the trading API endpoints. Defined in domain for consistency and reuse.

type TradeRequest struct {
	UserID   string `json:"user" validate:"required"`
	Symbol   string `json:"symbol" validate:"required,uppercase,min=1,max=10"`
	Action   string `json:"action" validate:"required,oneof=BUY SELL"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

type TradesQuery struct {
	UserID string `query:"user" json:"user" validate:"required"`
	Symbol string `query:"symbol" json:"symbol" validate:"omitempty,uppercase"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type WatchRequest struct {
	UserID string `json:"user" validate:"required"`
	Symbol string `json:"symbol" validate:"required,uppercase,min=1,max=10"`
}

type SentimentQuery struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,uppercase"`
}
