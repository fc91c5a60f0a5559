package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "01-01-2023", "2023/01/01", ""}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{"2025-06-01", "2025-06-01T09:30:00Z", "2025-06-01T09:30:00+05:30"}
	invalid := []string{"2025-06-01 09:30", "June 1", ""}
	for _, s := range valid {
		if _, ok := IsValidDateTime(s); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDateTime(s); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", s)
		}
	}
}

func TestIsValidLeaveTypeCode(t *testing.T) {
	valid := []string{"CL", "SICK", "PERMISSION", "ABCDEFGHIJKLMNOP"}
	invalid := []string{"c", "cl", "C", "CL1", "TOO_LONG_CODE_ABCDEF", "", "C L"}
	for _, s := range valid {
		if !IsValidLeaveTypeCode(s) {
			t.Errorf("IsValidLeaveTypeCode(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidLeaveTypeCode(s) {
			t.Errorf("IsValidLeaveTypeCode(%q) = true, want false", s)
		}
	}
}

func TestIsValidRegionCode(t *testing.T) {
	valid := []string{"IN", "US", "KA", "BLR1", "A"}
	invalid := []string{"", "in", "TOOLONGRG", "IN-KA"}
	for _, s := range valid {
		if !IsValidRegionCode(s) {
			t.Errorf("IsValidRegionCode(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidRegionCode(s) {
			t.Errorf("IsValidRegionCode(%q) = true, want false", s)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "code", Message: "code is required"},
		{Field: "year", Message: "year is out of range"},
	}
	m := errs.ToMap()
	if len(m) != 2 {
		t.Fatalf("ToMap() returned %d entries, want 2", len(m))
	}
	if m["code"] != "code is required" {
		t.Errorf("ToMap()[code] = %q", m["code"])
	}
}
