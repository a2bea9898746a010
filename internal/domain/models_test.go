package domain

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestQualityLadderOrder(t *testing.T) {
	ladder := QualityLadder()
	if len(ladder) != 6 {
		t.Fatalf("ladder length = %d, want 6", len(ladder))
	}
	names := []string{"240p", "360p", "480p", "720p", "1080p", "4K"}
	bitrates := []int64{300_000, 750_000, 1_500_000, 3_000_000, 6_000_000, 20_000_000}
	for i, level := range ladder {
		if level.Name != names[i] {
			t.Errorf("ladder[%d].Name = %q, want %q", i, level.Name, names[i])
		}
		if level.MinBitrate != bitrates[i] {
			t.Errorf("ladder[%d].MinBitrate = %d, want %d", i, level.MinBitrate, bitrates[i])
		}
		if i > 0 && level.MinBitrate <= ladder[i-1].MinBitrate {
			t.Errorf("ladder not ascending at %d", i)
		}
	}
}

func TestQualityLadderReturnsCopy(t *testing.T) {
	ladder := QualityLadder()
	ladder[0].Name = "mutated"
	if QualityLadder()[0].Name != "240p" {
		t.Fatalf("ladder table mutated through returned copy")
	}
}

func TestQualityIndex(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"240p", 0},
		{"480p", 2},
		{"1080p", 4},
		{"4K", 5},
		{"8K", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := QualityIndex(tt.name); got != tt.want {
			t.Errorf("QualityIndex(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestQualityAtClamps(t *testing.T) {
	if got := QualityAt(-3).Name; got != "240p" {
		t.Errorf("QualityAt(-3) = %q, want 240p", got)
	}
	if got := QualityAt(99).Name; got != "4K" {
		t.Errorf("QualityAt(99) = %q, want 4K", got)
	}
	if got := QualityAt(3).Name; got != "720p" {
		t.Errorf("QualityAt(3) = %q, want 720p", got)
	}
}

func TestDefaultQualityIsOnLadder(t *testing.T) {
	if QualityIndex(DefaultQuality) == -1 {
		t.Fatalf("DefaultQuality %q not on ladder", DefaultQuality)
	}
}

func TestNetworkSampleValidate(t *testing.T) {
	valid := NetworkSample{Bandwidth: 5_000_000, Latency: 40, PacketLoss: 0.01, BufferHealth: 12}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid sample rejected: %v", err)
	}

	tests := []struct {
		name   string
		sample NetworkSample
	}{
		{"negative bandwidth", NetworkSample{Bandwidth: -1, Latency: 40, PacketLoss: 0.1, BufferHealth: 5}},
		{"negative latency", NetworkSample{Bandwidth: 1, Latency: -0.5, PacketLoss: 0.1, BufferHealth: 5}},
		{"loss below zero", NetworkSample{Bandwidth: 1, Latency: 40, PacketLoss: -0.1, BufferHealth: 5}},
		{"loss above one", NetworkSample{Bandwidth: 1, Latency: 40, PacketLoss: 1.01, BufferHealth: 5}},
		{"negative buffer", NetworkSample{Bandwidth: 1, Latency: 40, PacketLoss: 0.1, BufferHealth: -5}},
		{"nan bandwidth", NetworkSample{Bandwidth: math.NaN(), Latency: 40, PacketLoss: 0.1, BufferHealth: 5}},
		{"inf latency", NetworkSample{Bandwidth: 1, Latency: math.Inf(1), PacketLoss: 0.1, BufferHealth: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sample.Validate()
			if !errors.Is(err, ErrInvalidSample) {
				t.Fatalf("err = %v, want ErrInvalidSample", err)
			}
		})
	}
}

func TestViewingRecordValidate(t *testing.T) {
	if err := (ViewingRecord{SegmentID: 3, WatchDuration: 8.5}).Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}
	if err := (ViewingRecord{SegmentID: -1, WatchDuration: 1}).Validate(); !errors.Is(err, ErrInvalidViewingEvent) {
		t.Fatalf("negative segment: err = %v", err)
	}
	if err := (ViewingRecord{SegmentID: 0, WatchDuration: -1}).Validate(); !errors.Is(err, ErrInvalidViewingEvent) {
		t.Fatalf("negative duration: err = %v", err)
	}
	if err := (ViewingRecord{SegmentID: 0, WatchDuration: math.NaN()}).Validate(); !errors.Is(err, ErrInvalidViewingEvent) {
		t.Fatalf("nan duration: err = %v", err)
	}
}

func TestClassifyCondition(t *testing.T) {
	tests := []struct {
		name string
		f    Forecast
		want NetworkCondition
	}{
		{"excellent", Forecast{Bandwidth: 12_000_000, PacketLoss: 0.0}, ConditionExcellent},
		{"good", Forecast{Bandwidth: 6_000_000, PacketLoss: 0.01}, ConditionGood},
		{"fair", Forecast{Bandwidth: 3_000_000, PacketLoss: 0.0}, ConditionFair},
		{"poor", Forecast{Bandwidth: 500_000, PacketLoss: 0.0}, ConditionPoor},
		{"loss demotes to fair", Forecast{Bandwidth: 12_000_000, PacketLoss: 0.06}, ConditionFair},
		{"heavy loss demotes to poor", Forecast{Bandwidth: 12_000_000, PacketLoss: 0.2}, ConditionPoor},
		{"fair unaffected by mild loss", Forecast{Bandwidth: 3_000_000, PacketLoss: 0.06}, ConditionFair},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyCondition(tt.f); got != tt.want {
				t.Errorf("ClassifyCondition = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConditionRank(t *testing.T) {
	order := []NetworkCondition{ConditionPoor, ConditionFair, ConditionGood, ConditionExcellent}
	for i, c := range order {
		if !c.Valid() {
			t.Errorf("%q should be valid", c)
		}
		if c.Rank() != i {
			t.Errorf("%q rank = %d, want %d", c, c.Rank(), i)
		}
	}
	if NetworkCondition("garbage").Valid() {
		t.Errorf("garbage condition should be invalid")
	}
}

func TestSnapshotClone(t *testing.T) {
	snap := Snapshot{
		Quality:         "720p",
		PreloadSegments: []int{4, 5, 6},
		Forecast:        Forecast{Bandwidth: 1_000_000},
	}
	clone := snap.Clone()
	clone.PreloadSegments[0] = 99
	if snap.PreloadSegments[0] != 4 {
		t.Fatalf("clone shares segment slice with original")
	}
	if !reflect.DeepEqual(snap.Clone().Forecast, snap.Forecast) {
		t.Fatalf("forecast not copied")
	}
}

func TestSnapshotJSONTags(t *testing.T) {
	expectJSONTag(t, Snapshot{}, "Quality", "quality")
	expectJSONTag(t, Snapshot{}, "PreloadSegments", "preloadSegments")
	expectJSONTag(t, Snapshot{}, "Forecast", "forecast")
	expectJSONTag(t, Snapshot{}, "Condition", "condition")
	expectJSONTag(t, Snapshot{}, "Position", "position")
	expectJSONTag(t, Snapshot{}, "BufferHealth", "bufferHealth")
	expectJSONTag(t, Snapshot{}, "HorizonSeconds", "horizonSeconds")
	expectJSONTag(t, Snapshot{}, "Cycle", "cycle")
	expectJSONTag(t, Snapshot{}, "UpdatedAt", "updatedAt")
}

func TestNetworkSampleJSONTags(t *testing.T) {
	expectJSONTag(t, NetworkSample{}, "Timestamp", "timestamp")
	expectJSONTag(t, NetworkSample{}, "Bandwidth", "bandwidth")
	expectJSONTag(t, NetworkSample{}, "Latency", "latency")
	expectJSONTag(t, NetworkSample{}, "PacketLoss", "packetLoss")
	expectJSONTag(t, NetworkSample{}, "BufferHealth", "bufferHealth")
}

func TestViewingRecordJSONTags(t *testing.T) {
	expectJSONTag(t, ViewingRecord{}, "SegmentID", "segmentId")
	expectJSONTag(t, ViewingRecord{}, "WatchDuration", "watchDuration")
}

func expectJSONTag(t *testing.T, v interface{}, fieldName, want string) {
	t.Helper()
	typ := reflect.TypeOf(v)
	field, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("missing field %s", fieldName)
	}
	if got := field.Tag.Get("json"); got != want {
		t.Fatalf("%s json tag = %q, want %q", fieldName, got, want)
	}
}
