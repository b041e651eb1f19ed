package prompt

import "testing"

func TestDefaultCompressionLimits(t *testing.T) {
	l := DefaultCompressionLimits()
	if l.MinAlbumsPerGroup != 3 {
		t.Errorf("min albums per group: got %d, want 3", l.MinAlbumsPerGroup)
	}
	if l.MaxRelaxedInflation != 3.0 {
		t.Errorf("max relaxed inflation: got %g, want 3.0", l.MaxRelaxedInflation)
	}
	if l.AbsoluteRelaxedCap != 5000 {
		t.Errorf("absolute relaxed cap: got %d, want 5000", l.AbsoluteRelaxedCap)
	}
}

func TestNewCompressionLimits_Validation(t *testing.T) {
	tests := []struct {
		name      string
		min       int
		inflation float64
		abs       int
		wantErr   bool
	}{
		{"valid", 3, 3.0, 5000, false},
		{"minimal valid", 1, 1.0, 1, false},
		{"zero min group", 0, 3.0, 5000, true},
		{"inflation below one", 3, 0.9, 5000, true},
		{"cap below min group", 5, 3.0, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCompressionLimits(tt.min, tt.inflation, tt.abs)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestRelaxedCap(t *testing.T) {
	l := DefaultCompressionLimits()

	if got := l.RelaxedCap(100); got != 300 {
		t.Errorf("RelaxedCap(100): got %d, want 300", got)
	}
	// Hard ceiling wins over inflation.
	if got := l.RelaxedCap(4000); got != 5000 {
		t.Errorf("RelaxedCap(4000): got %d, want 5000", got)
	}
	// Never below the group minimum.
	if got := l.RelaxedCap(0); got != 3 {
		t.Errorf("RelaxedCap(0): got %d, want 3", got)
	}
}
