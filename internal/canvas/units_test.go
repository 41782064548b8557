package canvas

import "testing"

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		mag  float64
		unit Unit
	}{
		{"120px", 120, UnitPx},
		{"50%", 50, UnitPercent},
		{"-8.5px", -8.5, UnitPx},
		{"1.5rem", 1.5, UnitRem},
		{"2em", 2, UnitEm},
		{"30vw", 30, UnitVw},
		{"45vh", 45, UnitVh},
		{"300", 300, UnitPx},
		{"  16px ", 16, UnitPx},
		{"", 0, UnitPx},
		{"garbage", 0, UnitPx},
		{"NaNpx", 0, UnitPx},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := ParseValue(tt.in)
			if v.Magnitude != tt.mag || v.Unit != tt.unit {
				t.Errorf("ParseValue(%q) = {%v %v}, want {%v %v}", tt.in, v.Magnitude, v.Unit, tt.mag, tt.unit)
			}
		})
	}
}

func TestValuePx(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		ref  float64
		want float64
	}{
		{"px ignores reference", Value{120, UnitPx}, 999, 120},
		{"percent of parent", Value{50, UnitPercent}, 640, 320},
		{"rem against root font", Value{2, UnitRem}, 0, 32},
		{"em against root font", Value{1.5, UnitEm}, 0, 24},
		{"vw against viewport", Value{10, UnitVw}, 1280, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Px(tt.ref); got != tt.want {
				t.Errorf("Px(%v) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	if got := (Value{50, UnitPercent}).String(); got != "50%" {
		t.Errorf("got %q, want 50%%", got)
	}
	if got := (Value{12.5, UnitPx}).String(); got != "12.5px" {
		t.Errorf("got %q, want 12.5px", got)
	}
	if got := (Value{42, UnitPx}).String(); got != "42px" {
		t.Errorf("got %q, want 42px", got)
	}
}

func TestParseAngle(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"45deg", 45},
		{"-90deg", -90},
		{"0deg", 0},
		{"12.5", 12.5},
		{"", 0},
		{"sideways", 0},
	}

	for _, tt := range tests {
		if got := ParseAngle(tt.in); got != tt.want {
			t.Errorf("ParseAngle(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatters(t *testing.T) {
	if got := FormatPx(200); got != "200px" {
		t.Errorf("FormatPx(200) = %q", got)
	}
	if got := FormatAngle(45); got != "45deg" {
		t.Errorf("FormatAngle(45) = %q", got)
	}
	if got := FormatPercent(33.5); got != "33.5%" {
		t.Errorf("FormatPercent(33.5) = %q", got)
	}
}
