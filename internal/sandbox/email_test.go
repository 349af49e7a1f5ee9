package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailOf(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"blank", "   \t ", ""},
		{"two words", "Jane Doe", "jane.doe@example.com"},
		{"single word", "Cher", "cher@example.com"},
		{"collapses spaces", "Jane   Q  Doe", "jane.q.doe@example.com"},
		{"trims", "  Jane Doe  ", "jane.doe@example.com"},
		{"tabs and newlines", "Jane\tQ\nDoe", "jane.q.doe@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EmailOf(tt.input))
		})
	}
}

func TestEmailOfDomain(t *testing.T) {
	assert.Equal(t, "jane.doe@sandbox.test", EmailOfDomain("Jane Doe", "sandbox.test"))
	assert.Equal(t, "", EmailOfDomain("", "sandbox.test"))
}
