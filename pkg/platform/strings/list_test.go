package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: []string{}},
		{name: "only separators", input: " , ,", expected: []string{}},
		{name: "single", input: "localhost:9092", expected: []string{"localhost:9092"}},
		{name: "trims and dedupes", input: " a:9092, b:9092,,a:9092 ", expected: []string{"a:9092", "b:9092"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input, ","))
		})
	}
}
