package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "+6582938737", Normalize(" +65 8293-8737 "))
	assert.Equal(t, "92374993872", Normalize("92-3749-93872"))
}

func TestValid(t *testing.T) {
	valid := []string{"+6582938737", "6582938737", "+123456789012345"}
	for _, v := range valid {
		assert.True(t, Valid(v), v)
	}

	invalid := []string{
		"",
		"+0582938737",     // leading zero
		"123456789",       // too short
		"+1234567890123456", // too long
		"+65abc938737",
		"65 8293 8737", // not normalized
	}
	for _, v := range invalid {
		assert.False(t, Valid(v), v)
	}
}
