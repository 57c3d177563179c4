package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		address  string
		expected string
	}{
		{"jane.doe@example.com", "Jane Doe"},
		{"JANE@example.com", "Jane"},
		{"mary_ann-smith@example.com", "Mary Smith"},
		{"rita+desk@example.com", "Rita Desk"},
		{"@example.com", "Resident"},
		{"", "Resident"},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayName(tt.address))
		})
	}
}
