package model

import (
	"fmt"
	"strings"

	"abrengine/internal/domain"
	"abrengine/internal/domain/ports"
)

// New builds a predictor by name. The empty name selects the default.
func New(name string) (ports.Model, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "trend":
		return NewTrend(), nil
	case "constant":
		return NewConstant(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownModel, name)
	}
}
