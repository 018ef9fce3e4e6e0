package record

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mapfield/components/mapfield"
)

var _ mapfield.Record = (*MapRecord)(nil)

func placeRecord() *MapRecord {
	return NewMapRecord("Place",
		WithKinds(map[string]Kind{
			"Lat":       KindDecimal,
			"Lng":       KindDecimal,
			"MapZoom":   KindInt,
			"MapBounds": KindText,
		}),
		WithValues(map[string]any{
			"Lat": 51.5,
			"Lng": -0.12,
		}),
	)
}

func TestMapRecord_SaveIntoCastsDeclaredKinds(t *testing.T) {
	rec := placeRecord()
	field := mapfield.New(rec, "Location", mapfield.OptionSet{
		mapfield.OptionFieldNames: map[string]any{
			mapfield.Latitude:  "Lat",
			mapfield.Longitude: "Lng",
			mapfield.Zoom:      "MapZoom",
			mapfield.Bounds:    "MapBounds",
		},
	})

	lat, _ := field.Child(mapfield.Latitude)
	if lat.Value() != 51.5 {
		t.Fatalf("expected record latitude, got %#v", lat.Value())
	}

	field.SetValue(map[string]any{
		mapfield.Latitude:  "10.0",
		mapfield.Longitude: "20.25",
		mapfield.Zoom:      "5",
		mapfield.Bounds:    "b1",
	})
	if err := field.SaveInto(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	want := map[string]any{
		"Lat":       10.0,
		"Lng":       20.25,
		"MapZoom":   int64(5),
		"MapBounds": "b1",
	}
	if diff := cmp.Diff(want, rec.Attributes()); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestMapRecord_CastFailurePropagates(t *testing.T) {
	rec := placeRecord()
	field := mapfield.New(rec, "Location", mapfield.OptionSet{
		mapfield.OptionFieldNames: map[string]any{
			mapfield.Latitude:  "Lat",
			mapfield.Longitude: "Lng",
			mapfield.Zoom:      "MapZoom",
			mapfield.Bounds:    "MapBounds",
		},
	})
	field.SetValue(map[string]any{
		mapfield.Latitude:  "1",
		mapfield.Longitude: "not-a-number",
	})

	err := field.SaveInto(rec)
	var castErr *CastError
	if !errors.As(err, &castErr) {
		t.Fatalf("expected CastError, got %v", err)
	}
	if castErr.Attribute != "Lng" || castErr.Kind != KindDecimal {
		t.Fatalf("unexpected cast error: %#v", castErr)
	}
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Fatalf("expected wrapped parse error, got %v", err)
	}

	if got, _ := rec.Get("Lat"); got != 1.0 {
		t.Fatalf("earlier write should stay applied, got %#v", got)
	}
	if got, _ := rec.Get("Lng"); got != -0.12 {
		t.Fatalf("failed write should leave the value untouched, got %#v", got)
	}
}

func TestMapRecord_UndeclaredStoresVerbatim(t *testing.T) {
	rec := NewMapRecord("Place")
	if err := rec.SetCastedField("Latitude", "10.0"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, ok := rec.Get("Latitude"); !ok || got != "10.0" {
		t.Fatalf("unexpected value: %#v (%v)", got, ok)
	}
	if _, ok := rec.Get("Longitude"); ok {
		t.Fatalf("did not expect unset attribute to be present")
	}
	if diff := cmp.Diff([]string{"Latitude"}, rec.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestCast(t *testing.T) {
	cases := []struct {
		kind    Kind
		in      any
		want    any
		wantErr bool
	}{
		{KindAny, "x", "x", false},
		{KindString, 12, "12", false},
		{KindString, nil, nil, false},
		{KindDecimal, "  ", nil, false},
		{KindDecimal, "1.25", 1.25, false},
		{KindDecimal, 3, 3.0, false},
		{KindDecimal, "NaN", nil, true},
		{KindDecimal, true, nil, true},
		{KindInt, "7", int64(7), false},
		{KindInt, "7.6", int64(8), false},
		{KindInt, 4.4, int64(4), false},
		{KindInt, "seven", nil, true},
		{Kind("bogus"), "x", nil, true},
	}

	for _, tc := range cases {
		got, err := Cast(tc.kind, tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Cast(%q, %#v): expected error", tc.kind, tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Cast(%q, %#v): %v", tc.kind, tc.in, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("Cast(%q, %#v) mismatch (-want +got):\n%s", tc.kind, tc.in, diff)
		}
	}
}

func TestLocationKinds_FollowsMapping(t *testing.T) {
	got := LocationKinds(mapfield.OptionSet{
		mapfield.OptionFieldNames: map[string]any{"Latitude": "Lat", "Longitude": "Lng"},
	})
	want := map[string]Kind{
		"Lat":    KindDecimal,
		"Lng":    KindDecimal,
		"Zoom":   KindInt,
		"Bounds": KindText,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}
