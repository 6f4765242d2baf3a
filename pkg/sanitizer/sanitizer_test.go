package sanitizer

import "testing"

func TestCollapseSpace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  hello  ",
			want:  "hello",
		},
		{
			name:  "multiple spaces",
			input: "hello    world",
			want:  "hello world",
		},
		{
			name:  "tabs and newlines",
			input: "hello\t\nworld",
			want:  "hello world",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Hall™ ",
			want:  "Café & Hall™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollapseSpace(tt.input)
			if got != tt.want {
				t.Errorf("CollapseSpace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Hall A", want: "hall a"},
		{input: "  HALL   a ", want: "hall a"},
		{input: "Café & Spa", want: "café & spa"},
		{input: "\t", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeKey(tt.input); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Hall A", want: "hall_a"},
		{input: "Hall A / Upper", want: "hall_a_upper"},
		{input: "__Main--Hall__", want: "main_hall"},
		{input: "  ", want: ""},
	}

	for _, tt := range tests {
		if got := Slug(tt.input); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
