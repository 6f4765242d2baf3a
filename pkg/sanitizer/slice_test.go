package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeVenueNames(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "nil input",
			input: nil,
			want:  []string{},
		},
		{
			name:  "trims and collapses",
			input: []string{"  Hall   A ", "Terrace"},
			want:  []string{"Hall A", "Terrace"},
		},
		{
			name:  "case-insensitive duplicates keep first spelling",
			input: []string{"Hall A", "hall a", "HALL  A"},
			want:  []string{"Hall A"},
		},
		{
			name:  "drops blanks",
			input: []string{"", "  ", "Hall B"},
			want:  []string{"Hall B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeVenueNames(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeVenueNames(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
