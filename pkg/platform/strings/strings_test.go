package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{name: "trims whitespace", input: []string{"  jobTitle  ", "employerName  "}, expected: []string{"jobTitle", "employerName"}},
		{name: "removes duplicates preserving order", input: []string{"a", "b", "a", "c", "b"}, expected: []string{"a", "b", "c"}},
		{name: "removes empty strings", input: []string{"a", "", "  ", "b"}, expected: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList("   "))
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, SplitList("kafka-1:9092, kafka-2:9092,,kafka-1:9092"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("", "anything"))
	assert.True(t, ContainsFold("SKILLED", "Skilled Independent visa"))
	assert.True(t, ContainsFold("ref", "Partner visa", "REF-2024-001"))
	assert.False(t, ContainsFold("student", "Partner visa", "REF-2024-001"))
}
