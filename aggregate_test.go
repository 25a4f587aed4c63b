package certdel

import (
	"reflect"
	"testing"
)

func TestSplitCounts(t *testing.T) {
	raw := MeasurementCounts{
		"00 11": 3,
		"01 10": 2,
	}
	first, second, faults := SplitCounts(raw)
	if len(faults) != 0 {
		t.Fatalf("unexpected faults: %v", faults)
	}
	wantFirst := MeasurementCounts{"00": 3, "01": 2}
	wantSecond := MeasurementCounts{"11": 3, "10": 2}
	if !reflect.DeepEqual(first, wantFirst) {
		t.Errorf("first == %v, want %v", first, wantFirst)
	}
	if !reflect.DeepEqual(second, wantSecond) {
		t.Errorf("second == %v, want %v", second, wantSecond)
	}
}

func TestSplitCountsAggregatesSharedHalves(t *testing.T) {
	raw := MeasurementCounts{
		"00 11": 3,
		"00 10": 4,
		"01 10": 5,
	}
	first, second, faults := SplitCounts(raw)
	if len(faults) != 0 {
		t.Fatalf("unexpected faults: %v", faults)
	}
	if first["00"] != 7 || first["01"] != 5 {
		t.Errorf("first == %v, want 00:7 01:5", first)
	}
	if second["10"] != 9 || second["11"] != 3 {
		t.Errorf("second == %v, want 10:9 11:3", second)
	}
	if first.Shots() != raw.Shots() || second.Shots() != raw.Shots() {
		t.Errorf("shots not preserved: raw %d, first %d, second %d",
			raw.Shots(), first.Shots(), second.Shots())
	}
}

func TestSplitCountsIsolatesMalformedKeys(t *testing.T) {
	raw := MeasurementCounts{
		"00 11":    3,
		"0011":     2,
		"00 11 01": 1,
	}
	first, second, faults := SplitCounts(raw)
	if len(faults) != 2 {
		t.Fatalf("got %d faults, want 2: %v", len(faults), faults)
	}
	if first.Shots() != 3 || second.Shots() != 3 {
		t.Errorf("well-formed shots == (%d, %d), want (3, 3)", first.Shots(), second.Shots())
	}
}

func TestCorrelate(t *testing.T) {
	raw := MeasurementCounts{
		"00 11": 3,
		"00 10": 4,
		"01 10": 5,
		"10 01": 6,
	}
	accepted := map[string]struct{}{"00": {}, "01": {}}
	got, faults := Correlate(raw, accepted)
	if len(faults) != 0 {
		t.Fatalf("unexpected faults: %v", faults)
	}
	want := MeasurementCounts{"11": 3, "10": 9}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Correlate == %v, want %v", got, want)
	}
}

func TestCorrelateEmptyAcceptance(t *testing.T) {
	raw := MeasurementCounts{"00 11": 3}
	got, faults := Correlate(raw, nil)
	if len(faults) != 0 {
		t.Fatalf("unexpected faults: %v", faults)
	}
	if got.Shots() != 0 {
		t.Errorf("empty acceptance set kept %d shots", got.Shots())
	}
}
