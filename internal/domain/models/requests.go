package models

// Requests for the dashboard HTTP endpoints.

type SeriesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"max=64"`
}

type TerminalRequest struct {
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// UpdateConfigRequest is a PUT body. Omitted fields take their defaults;
// an explicit zero is kept.
type UpdateConfigRequest struct {
	RiskPercent *float64 `json:"riskPercent" validate:"omitempty,gt=0,lte=100"`
	MagicNumber *int     `json:"magicNumber" validate:"omitempty,gte=0"`
	Slippage    *int     `json:"slippage" validate:"omitempty,gte=0"`
	Symbol      *string  `json:"symbol" validate:"omitempty,max=64"`
	Timeframe   *string  `json:"timeframe" validate:"omitempty,oneof=M1 M5 M15 M30 H1 H4 D1"`
}

// Config resolves the request against DefaultEAConfig.
func (r UpdateConfigRequest) Config() EAConfig {
	cfg := DefaultEAConfig()
	if r.RiskPercent != nil {
		cfg.RiskPercent = *r.RiskPercent
	}
	if r.MagicNumber != nil {
		cfg.MagicNumber = *r.MagicNumber
	}
	if r.Slippage != nil {
		cfg.Slippage = *r.Slippage
	}
	if r.Symbol != nil {
		cfg.Symbol = *r.Symbol
	}
	if r.Timeframe != nil {
		cfg.Timeframe = *r.Timeframe
	}
	return cfg
}
