package domain

import "time"

// MarkupPolicy decide o que fazer com tags HTML na entrada.
type MarkupPolicy string

const (
	// MarkupEscape mantém as tags como texto e escapa tudo (<b> vira &lt;b&gt;).
	MarkupEscape MarkupPolicy = "escape"
	// MarkupStrip remove as tags antes de escapar (<b>hi</b> vira hi).
	MarkupStrip MarkupPolicy = "strip"
)

// Limits concentra a configuração que antes era global: caps de tamanho,
// capacidade do store e janela do rate limit. É injetada no Service na construção.
type Limits struct {
	MaxNameLength    int           `validate:"gt=0"`
	MaxMessageLength int           `validate:"gt=0"`
	MaxMessages      int           `validate:"gt=0"`
	RateLimitWindow  time.Duration `validate:"gte=0"`
	Markup           MarkupPolicy  `validate:"oneof=escape strip"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxNameLength:    20,
		MaxMessageLength: 200,
		MaxMessages:      100,
		RateLimitWindow:  60 * time.Second,
		Markup:           MarkupEscape,
	}
}
