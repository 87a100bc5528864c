package upload

import "testing"

func TestWindowContains(t *testing.T) {
	tests := []struct {
		name   string
		window Window
		hour   int
		want   bool
	}{
		{"nightly window start", Window{20, 4}, 20, true},
		{"nightly window late evening", Window{20, 4}, 23, true},
		{"nightly window past midnight", Window{20, 4}, 0, true},
		{"nightly window last hour", Window{20, 4}, 3, true},
		{"nightly window closes at end", Window{20, 4}, 4, false},
		{"nightly window morning", Window{20, 4}, 10, false},
		{"nightly window just before start", Window{20, 4}, 19, false},
		{"daytime window start", Window{8, 17}, 8, true},
		{"daytime window middle", Window{8, 17}, 12, true},
		{"daytime window closes at end", Window{8, 17}, 17, false},
		{"daytime window early morning", Window{8, 17}, 7, false},
		{"degenerate window is always open", Window{5, 5}, 0, true},
		{"degenerate window is always open at night", Window{5, 5}, 23, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window.Contains(tt.hour); got != tt.want {
				t.Errorf("Window{%d, %d}.Contains(%d) = %v, want %v", tt.window.Start, tt.window.End, tt.hour, got, tt.want)
			}
		})
	}
}
