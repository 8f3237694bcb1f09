package models

// Timeframes accepted in EAConfig.Timeframe.
var Timeframes = []string{"M1", "M5", "M15", "M30", "H1", "H4", "D1"}

// EAConfig holds the user-editable robot parameters for one session.
type EAConfig struct {
	RiskPercent float64 `json:"riskPercent" yaml:"risk_percent" default:"1.0" validate:"gt=0,lte=100"`
	MagicNumber int     `json:"magicNumber" yaml:"magic_number" default:"777" validate:"gte=0"`
	Slippage    int     `json:"slippage" yaml:"slippage" default:"10" validate:"gte=0"`
	Symbol      string  `json:"symbol" yaml:"symbol" default:"Vol 75 (1s)" validate:"required,max=64"`
	Timeframe   string  `json:"timeframe" yaml:"timeframe" default:"H1" validate:"oneof=M1 M5 M15 M30 H1 H4 D1"`
}

// DefaultEAConfig returns the configuration a new session starts with.
func DefaultEAConfig() EAConfig {
	return EAConfig{
		RiskPercent: 1.0,
		MagicNumber: 777,
		Slippage:    10,
		Symbol:      "Vol 75 (1s)",
		Timeframe:   "H1",
	}
}
