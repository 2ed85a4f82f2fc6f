package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	t.Run("matches the subset definition for every pair", func(t *testing.T) {
		for granted := Flags(0); granted < 1<<6; granted++ {
			for required := Flags(0); required < 1<<6; required++ {
				expected := required&^granted == 0
				assert.Equal(t, expected, Evaluate(granted, required), "granted=%d required=%d", granted, required)
			}
		}
	})

	t.Run("None is always satisfied", func(t *testing.T) {
		assert.True(t, Evaluate(None, None))
		assert.True(t, Evaluate(PinCreate, None))
	})

	t.Run("requires every bit", func(t *testing.T) {
		assert.False(t, Evaluate(PinCreate, PinCreate|PinQuery))
		assert.True(t, Evaluate(PinCreate|PinQuery|Locate, PinCreate|PinQuery))
	})
}

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		flags    Flags
		expected string
	}{
		{name: "empty set", flags: None, expected: "None"},
		{name: "single flag", flags: Locate, expected: "Locate"},
		{name: "declared order", flags: Statistics | PinCreate, expected: "PinCreate, Statistics"},
		{name: "unknown bits", flags: UserAdmin | 1<<7, expected: "UserAdmin, 128"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.flags.String())
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("parses names case-insensitively", func(t *testing.T) {
		flag, ok := Parse("statistics")
		assert.True(t, ok)
		assert.Equal(t, Statistics, flag)

		flag, ok = Parse(" PinQuery ")
		assert.True(t, ok)
		assert.Equal(t, PinQuery, flag)
	})

	t.Run("rejects None and unknown names", func(t *testing.T) {
		_, ok := Parse("None")
		assert.False(t, ok)

		_, ok = Parse("Superuser")
		assert.False(t, ok)

		_, ok = Parse("")
		assert.False(t, ok)
	})
}

func TestHeldAndMissing(t *testing.T) {
	acl := PinCreate | Statistics

	assert.Equal(t, []Flags{PinCreate, Statistics}, acl.Held())
	assert.Equal(t, []Flags{UserAdmin, PinQuery, Locate}, acl.Missing())
	assert.Empty(t, None.Held())
	assert.Len(t, None.Missing(), 5)
}

func TestAddRemove(t *testing.T) {
	acl := PinCreate.Add(Statistics)
	assert.Equal(t, PinCreate|Statistics, acl)
	assert.Equal(t, PinCreate, acl.Remove(Statistics))
	assert.Equal(t, acl, acl.Remove(Locate))
}
