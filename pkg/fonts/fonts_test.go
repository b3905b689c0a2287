package fonts

import "testing"

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"", Normal, false},
		{"normal", Normal, false},
		{"Italic", Italic, false},
		{"oblique", Italic, false},
		{"bold", Bold, false},
		{"mono", Mono, false},
		{"fancy", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStyle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFaceIsCached(t *testing.T) {
	a, err := Face(Normal)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	b, err := Face(Normal)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	if a != b {
		t.Error("Face(Normal) parsed twice")
	}
	if a.UnitsPerEm() == 0 {
		t.Error("UnitsPerEm() = 0")
	}
}

func TestFaceUnknownStyle(t *testing.T) {
	if _, err := Face(Style("gothic")); err == nil {
		t.Error("expected error for unknown style")
	}
}
