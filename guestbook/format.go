package guestbook

import (
	"math"
	"strconv"
	"time"
)

func formatInt(v int) string { return strconv.Itoa(v) }

// retryAfterSeconds arredonda para cima; Retry-After nunca deve ser 0 quando bloqueia.
func retryAfterSeconds(d time.Duration) string {
	return formatInt(max(1, int(math.Ceil(d.Seconds()))))
}

// sem notação científica para valores comuns
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
