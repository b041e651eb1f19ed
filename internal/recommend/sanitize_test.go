package recommend

import "testing"

func TestLikelyValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"bare array", `[{"artist":"A","album":"B"}]`, true},
		{"array of scalars", `[1,2,3]`, true},
		{"empty array", `[]`, true},
		{"recommendations envelope", `{"recommendations":[{"artist":"A","album":"B"}]}`, true},
		{"albums envelope", `{"albums":[{"artist":"A","album":"B"}]}`, true},
		{"leading whitespace", "\n  [1]", true},
		{"plain prose", `not json`, false},
		{"bare object", `{"artist":"A"}`, false},
		{"envelope with non-array member", `{"recommendations":{"artist":"A"}}`, false},
		{"truncated array", `[{"artist":"A"`, false},
		{"empty string", ``, false},
		{"json string root", `"[1,2,3]"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LikelyValid(tt.in); got != tt.want {
				t.Errorf("LikelyValid(%q): got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTryRepair(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"prose around array", `Here is the data: [{"a":1}] -- enjoy!`, `[{"a":1}]`, true},
		{"markdown fence", "```json\n[{\"artist\":\"A\"}]\n```", `[{"artist":"A"}]`, true},
		{"already clean", `[1,2]`, `[1,2]`, true},
		{"no brackets", `no brackets here`, ``, false},
		{"only open bracket", `start [ but never closed`, ``, false},
		{"close before open", `] backwards [`, ``, false},
		{"empty", ``, ``, false},
		{"blank", "   \n\t", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TryRepair(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("TryRepair(%q): ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("TryRepair(%q): got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTryRepair_SingleShotNotRecursive(t *testing.T) {
	// The repair grabs the outermost bracket pair; it does not try to
	// find an inner well-formed array.
	in := `junk [ broken [1,2] trailing ] junk`
	got, ok := TryRepair(in)
	if !ok {
		t.Fatal("expected a repair candidate")
	}
	if got != `[ broken [1,2] trailing ]` {
		t.Errorf("got %q", got)
	}
	// The candidate is still invalid; callers stop here.
	if LikelyValid(got) {
		t.Error("candidate should fail re-validation")
	}
}
