package domain

import (
	"fmt"
	"math"
	"time"
)

// NetworkSample is a single host-reported observation of network and buffer
// conditions. Immutable once recorded.
type NetworkSample struct {
	Timestamp    time.Time `json:"timestamp"`
	Bandwidth    float64   `json:"bandwidth"`    // bytes per second
	Latency      float64   `json:"latency"`      // milliseconds
	PacketLoss   float64   `json:"packetLoss"`   // fraction in [0,1]
	BufferHealth float64   `json:"bufferHealth"` // seconds of media buffered
}

// Validate rejects out-of-range samples at the ingestion boundary. Values are
// never clamped; a host passing garbage should find out.
func (s NetworkSample) Validate() error {
	if !isFinite(s.Bandwidth) || s.Bandwidth < 0 {
		return fmt.Errorf("%w: bandwidth %v", ErrInvalidSample, s.Bandwidth)
	}
	if !isFinite(s.Latency) || s.Latency < 0 {
		return fmt.Errorf("%w: latency %v", ErrInvalidSample, s.Latency)
	}
	if !isFinite(s.PacketLoss) || s.PacketLoss < 0 || s.PacketLoss > 1 {
		return fmt.Errorf("%w: packet loss %v", ErrInvalidSample, s.PacketLoss)
	}
	if !isFinite(s.BufferHealth) || s.BufferHealth < 0 {
		return fmt.Errorf("%w: buffer health %v", ErrInvalidSample, s.BufferHealth)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
