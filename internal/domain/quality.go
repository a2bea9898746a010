package domain

// QualityLevel is one rung of the bitrate ladder.
type QualityLevel struct {
	Name       string `json:"name"`
	MinBitrate int64  `json:"minBitrate"` // bits the tier needs, in bytes/sec terms of the forecast
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// DefaultQuality is reported before the first decision cycle completes.
const DefaultQuality = "1080p"

// qualityLadder is the fixed tier table, ascending by bitrate. Order is stable
// for the process lifetime.
var qualityLadder = []QualityLevel{
	{Name: "240p", MinBitrate: 300_000, Width: 426, Height: 240},
	{Name: "360p", MinBitrate: 750_000, Width: 640, Height: 360},
	{Name: "480p", MinBitrate: 1_500_000, Width: 854, Height: 480},
	{Name: "720p", MinBitrate: 3_000_000, Width: 1280, Height: 720},
	{Name: "1080p", MinBitrate: 6_000_000, Width: 1920, Height: 1080},
	{Name: "4K", MinBitrate: 20_000_000, Width: 3840, Height: 2160},
}

// QualityLadder returns a copy of the tier table, lowest first.
func QualityLadder() []QualityLevel {
	out := make([]QualityLevel, len(qualityLadder))
	copy(out, qualityLadder)
	return out
}

// QualityIndex returns the ladder position of the named tier, or -1.
func QualityIndex(name string) int {
	for i, level := range qualityLadder {
		if level.Name == name {
			return i
		}
	}
	return -1
}

// QualityAt returns the tier at a ladder position, clamped to valid range.
func QualityAt(index int) QualityLevel {
	if index < 0 {
		index = 0
	}
	if index >= len(qualityLadder) {
		index = len(qualityLadder) - 1
	}
	return qualityLadder[index]
}

// LowestQuality is the floor tier used when no rung is supportable.
func LowestQuality() QualityLevel {
	return qualityLadder[0]
}

func QualityCount() int {
	return len(qualityLadder)
}
