package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Modern Villa":            "modern-villa",
		"  Lakeside  Cottage  ":   "lakeside-cottage",
		"3-Bedroom House!":        "3-bedroom-house",
		"Côte d'Azur Villa":       "c-te-d-azur-villa",
		"UPPER case TITLE":        "upper-case-title",
		"multiple---hyphens here": "multiple-hyphens-here",
	}
	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input: %q", input)
	}
}
