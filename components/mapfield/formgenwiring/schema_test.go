package formgenwiring

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mapfield/components/mapfield"
)

func TestLocationSchema_Defaults(t *testing.T) {
	schema := LocationSchema(nil)

	for _, name := range mapfield.LogicalNames() {
		if _, ok := schema.Properties[name]; !ok {
			t.Fatalf("expected property %q", name)
		}
	}

	ext, ok := schema.Extensions[ExtensionKey].(map[string]any)
	if !ok {
		t.Fatalf("expected %s extension, got %#v", ExtensionKey, schema.Extensions)
	}
	if ext["widget"] != Widget {
		t.Fatalf("unexpected widget: %v", ext["widget"])
	}
	if ext["showSearchBox"] != false {
		t.Fatalf("search box should default off")
	}
	want := map[string]any{
		"Latitude":  "Latitude",
		"Longitude": "Longitude",
		"Zoom":      "Zoom",
		"Bounds":    "Bounds",
	}
	if diff := cmp.Diff(want, ext["fieldNames"]); diff != "" {
		t.Fatalf("field names mismatch (-want +got):\n%s", diff)
	}
}

func TestLocationSchema_CustomMapping(t *testing.T) {
	schema := LocationSchema(mapfield.OptionSet{
		mapfield.OptionShowSearchBox: true,
		mapfield.OptionFieldNames: map[string]any{
			"Latitude":  "Lat",
			"Longitude": "Lng",
		},
	})

	ext := schema.Extensions[ExtensionKey].(map[string]any)
	if ext["showSearchBox"] != true {
		t.Fatalf("expected search box flag")
	}
	names := ext["fieldNames"].(map[string]any)
	if names["Latitude"] != "Lat" || names["Longitude"] != "Lng" || names["Zoom"] != "Zoom" {
		t.Fatalf("unexpected field names: %#v", names)
	}
}

func TestValidateSubmission(t *testing.T) {
	cases := []struct {
		name    string
		values  map[string]any
		wantErr bool
	}{
		{name: "valid", values: map[string]any{"Latitude": 51.5, "Longitude": -0.12, "Zoom": 14.0}},
		{name: "nulls", values: map[string]any{"Latitude": nil, "Bounds": nil}},
		{name: "empty", values: nil},
		{name: "latitude out of range", values: map[string]any{"Latitude": 95.0}, wantErr: true},
		{name: "longitude out of range", values: map[string]any{"Longitude": -181.0}, wantErr: true},
		{name: "fractional zoom", values: map[string]any{"Zoom": 3.5}, wantErr: true},
		{name: "text latitude", values: map[string]any{"Latitude": "north"}, wantErr: true},
		{name: "decimal strings", values: map[string]any{"Latitude": "10.0", "Longitude": "-20.5", "Zoom": "5", "Bounds": "b1"}},
		{name: "cleared strings", values: map[string]any{"Latitude": "", "Longitude": "", "Zoom": ""}},
		{name: "fractional zoom string", values: map[string]any{"Zoom": "5.5"}, wantErr: true},
		{name: "boolean longitude", values: map[string]any{"Longitude": true}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSubmission(context.Background(), nil, tc.values)
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateSubmission_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ValidateSubmission(ctx, nil, nil); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestInvalidField(t *testing.T) {
	err := ValidateSubmission(context.Background(), nil, map[string]any{"Longitude": "east"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if got := InvalidField(err); got != mapfield.Longitude {
		t.Fatalf("expected %q, got %q", mapfield.Longitude, got)
	}
	if got := InvalidField(context.Canceled); got != "" {
		t.Fatalf("expected no field for a non schema error, got %q", got)
	}
}
