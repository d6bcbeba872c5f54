package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContinentOf(t *testing.T) {
	tests := []struct {
		name     string
		country  string
		expected string
	}{
		{name: "european country", country: "Italy", expected: "Europe"},
		{name: "asian country", country: "Japan", expected: "Asia"},
		{name: "americas long form", country: "United States", expected: "Americas"},
		{name: "americas short form", country: "USA", expected: "Americas"},
		{name: "african country", country: "Nigeria", expected: "Africa"},
		{name: "oceanian country", country: "Australia", expected: "Oceania"},
		{name: "unknown country", country: "Narnia", expected: ContinentOther},
		{name: "empty string", country: "", expected: ContinentOther},
		{name: "case sensitive lookup", country: "italy", expected: ContinentOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContinentOf(tt.country))
		})
	}
}
