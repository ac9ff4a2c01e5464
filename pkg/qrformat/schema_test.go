package qrformat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSchemaFor_EveryKindHasFields(t *testing.T) {
	kinds := AllKinds()
	if len(kinds) != 10 {
		t.Fatalf("Expected 10 kinds, got %d", len(kinds))
	}

	for _, kind := range kinds {
		fields := SchemaFor(kind)
		if len(fields) == 0 {
			t.Errorf("%s: expected fields", kind)
			continue
		}

		seen := make(map[string]bool)
		required := 0
		for _, f := range fields {
			if f.ID == "" || f.Label == "" {
				t.Errorf("%s: field with empty id or label: %+v", kind, f)
			}
			if seen[f.ID] {
				t.Errorf("%s: duplicate field id %s", kind, f.ID)
			}
			seen[f.ID] = true
			if f.Required {
				required++
			}
			if (f.Input == InputSelect) != (len(f.Options) > 0) {
				t.Errorf("%s: field %s has options but is not a select (or vice versa)", kind, f.ID)
			}
		}
		if required != 1 {
			t.Errorf("%s: expected exactly one required field, got %d", kind, required)
		}
	}
}

func TestSchemaFor_UnknownKind(t *testing.T) {
	if fields := SchemaFor(Kind("nope")); len(fields) != 0 {
		t.Errorf("Expected empty schema, got %v", fields)
	}
}

func TestSchemaFor_ReturnsCopy(t *testing.T) {
	fields := SchemaFor(KindWiFi)
	fields[0].Label = "changed"
	fields[2].Options[0] = "changed"

	again := SchemaFor(KindWiFi)
	if again[0].Label != "Network SSID" {
		t.Errorf("Registry label was mutated: %q", again[0].Label)
	}
	if again[2].Options[0] != AuthWPA {
		t.Errorf("Registry options were mutated: %v", again[2].Options)
	}
}

func TestSchemaFor_WiFi(t *testing.T) {
	want := []FieldDescriptor{
		{ID: "value_ssid", Label: "Network SSID", Input: InputText, Required: true},
		{ID: "value_password", Label: "Password", Input: InputPassword},
		{ID: "value_auth", Label: "Encryption", Input: InputSelect, Options: []string{"WPA", "WEP", "nopass"}, Default: "WPA"},
	}
	if diff := cmp.Diff(want, SchemaFor(KindWiFi)); diff != "" {
		t.Errorf("wifi schema mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_KindsAreUniqueAndLabelled(t *testing.T) {
	seen := make(map[Kind]bool)
	for _, p := range registry {
		k := p.kind()
		if seen[k] {
			t.Errorf("kind %s registered twice", k)
		}
		seen[k] = true
		if _, ok := kindLabels[k]; !ok {
			t.Errorf("kind %s has no selector label", k)
		}
		if p.missing() == "" {
			t.Errorf("kind %s has no missing-value message", k)
		}
	}
	if len(kindLabels) != len(registry) {
		t.Errorf("Expected %d labels, got %d", len(registry), len(kindLabels))
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" WiFi ")
	if err != nil {
		t.Fatalf("ParseKind failed: %v", err)
	}
	if k != KindWiFi {
		t.Errorf("Expected wifi, got %s", k)
	}

	if _, err := ParseKind("fax"); err == nil {
		t.Error("Expected error for unknown kind")
	}
}

func TestField(t *testing.T) {
	f, ok := Field(KindUPI, "value_amount")
	if !ok {
		t.Fatal("Expected value_amount field")
	}
	if f.Input != InputNumber {
		t.Errorf("Expected number input, got %s", f.Input)
	}
	if _, ok := Field(KindUPI, "value_url"); ok {
		t.Error("Expected value_url to be absent from upi schema")
	}
}
