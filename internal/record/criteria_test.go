package record

import (
	"strings"
	"testing"
)

func TestParseCriteria_Errors(t *testing.T) {
	tests := []string{
		"surname",
		"colour=blue",
		"birth=abc",
		"birth_range=1900",
		"birth_range=1900-1800",
		"death_range=x-1900",
		"surname=(",
		"living=maybe",
		"surname=Smith:birth",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseCriteria(in); err == nil {
				t.Errorf("expected error for %q", in)
			}
		})
	}
}

func TestCriteria_Match(t *testing.T) {
	all := Individuals(parse(t, tree))

	tests := []struct {
		criteria string
		want     string
	}{
		{"", "@I1@,@I2@,@I3@"},
		{"surname=smith", "@I1@,@I3@"},
		{"surname=^jones$", "@I2@"},
		{"name=^John", "@I1@"},
		{"sex=f", "@I2@"},
		{"birth=1855", "@I2@"},
		{"birth_range=1850-1860", "@I1@,@I2@"},
		{"death_range=1900-1920", "@I1@"},
		{"living=true", "@I2@,@I3@"},
		{"surname=Smith, birth_range=1870-1890", "@I3@"},
		{"surname=Nobody", ""},
		{"surname=Smith:birth=1850", "@I1@"},
		{"surname=smith:birth_range=1870-1890", "@I3@"},
		{"given_name=^John:death=1911", "@I1@"},
		{"surname=smith:birth=1900", ""},
	}
	for _, tt := range tests {
		t.Run(tt.criteria, func(t *testing.T) {
			c, err := ParseCriteria(tt.criteria)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got []string
			for _, ind := range c.Filter(all) {
				got = append(got, ind.Pointer)
			}
			if strings.Join(got, ",") != tt.want {
				t.Errorf("expected %q, got %q", tt.want, strings.Join(got, ","))
			}
		})
	}
}
