package cli

import "testing"

func TestParseResize(t *testing.T) {
	tests := []struct {
		spec    string
		wantW   int
		wantH   int
		wantErr bool
	}{
		{"", 0, 0, false},
		{"1920x1080", 1920, 1080, false},
		{"1920X1080", 1920, 1080, false},
		{"1920x", 1920, 0, false},
		{"x1080", 0, 1080, false},
		{"1920", 0, 0, true},
		{"x", 0, 0, true},
		{"axb", 0, 0, true},
		{"-5x100", 0, 0, true},
		{"0x0", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			w, h, err := parseResize(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseResize(%q) expected error", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseResize(%q) error: %v", tt.spec, err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("parseResize(%q) = %dx%d, want %dx%d", tt.spec, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
