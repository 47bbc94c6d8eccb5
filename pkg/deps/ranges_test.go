package deps

import "testing"

func TestSemverRangesValid(t *testing.T) {
	r := NewSemverRanges(16)

	tests := []struct {
		spec string
		want bool
	}{
		{"", true},
		{"*", true},
		{"1.2.3", true},
		{"v1.2.3", true},
		{"^1.0.0", true},
		{"~2.1", true},
		{">=1.0.0 <2.0.0", true},
		{"1.x", true},
		{"1.0.0 - 2.0.0", true},
		{"^1.0.0 || ^2.0.0", true},

		{"latest", false},
		{"next", false},
		{"github:acme/lib", false},
		{"https://example.com/lib.tgz", false},
		{"npm:other@^1.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			if got := r.Valid(tt.spec); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestSemverRangesMaxSatisfying(t *testing.T) {
	r := NewSemverRanges(16)
	versions := []string{"1.0.0", "1.5.0", "2.0.0-beta.1", "not-a-version"}

	tests := []struct {
		spec   string
		want   string
		wantOK bool
	}{
		{"^1.0.0", "1.5.0", true},
		{"~1.0.0", "1.0.0", true},
		{"<1.5.0", "1.0.0", true},
		{"*", "2.0.0-beta.1", true},
		{"^", "2.0.0-beta.1", true},
		{"", "2.0.0-beta.1", true},
		{"^2.0.0", "", false},
		{">=3", "", false},
		{"latest", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, ok := r.MaxSatisfying(tt.spec, versions)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("MaxSatisfying(%q) = %q, %v; want %q, %v", tt.spec, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSemverRangesCacheReuse(t *testing.T) {
	r := NewSemverRanges(1)

	for range 3 {
		if got, _ := r.MaxSatisfying("^1.0.0", []string{"1.1.0"}); got != "1.1.0" {
			t.Fatalf("MaxSatisfying() = %q, want 1.1.0", got)
		}
		if got, _ := r.MaxSatisfying("~1.1.0", []string{"1.1.5", "1.2.0"}); got != "1.1.5" {
			t.Fatalf("MaxSatisfying() = %q, want 1.1.5", got)
		}
	}
	if r.cache.Len() != 1 {
		t.Errorf("cache.Len() = %d, want 1", r.cache.Len())
	}
}
