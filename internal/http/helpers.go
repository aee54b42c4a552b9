package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MarcoIannucci/spotify-tracking/internal/core"
)

// parseMonthParam reads the "month" parameter, falling back to the current
// month when absent or malformed.
func parseMonthParam(r *http.Request) core.MonthKey {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" {
		v = strings.TrimSpace(r.FormValue("month"))
	}
	if v != "" {
		if m, err := core.ParseMonthKey(v); err == nil {
			return m
		}
	}
	return core.CurrentMonth()
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// formatAmountInput renders an amount for a numeric form input, without
// currency symbol or trailing zeros.
func formatAmountInput(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// statusLabel maps a payment status to its Italian display label.
func statusLabel(st core.Status) string {
	switch st {
	case core.StatusPaid:
		return "Pagato"
	case core.StatusPartial:
		return "Parziale"
	default:
		return "Non pagato"
	}
}
