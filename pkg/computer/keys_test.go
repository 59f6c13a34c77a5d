package computer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ctrl", "Control"},
		{"CTRL", "Control"},
		{"Enter", "Enter"},
		{"esc", "Escape"},
		{"space", " "},
		{"cmd", "Meta"},
		{"super", "Meta"},
		{"win", "Meta"},
		{"option", "Alt"},
		{"/", "Divide"},
		{"\\", "Backslash"},
		{"ArrowDown", "ArrowDown"},
		{"a", "a"},
		{"F5", "F5"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MapKey(tt.in))
		})
	}
}

func TestMapKeysPreservesOrderAndDuplicates(t *testing.T) {
	got := MapKeys([]string{"ctrl", "shift", "x", "ctrl"})
	assert.Equal(t, []string{"Control", "Shift", "x", "Control"}, got)
	assert.Empty(t, MapKeys(nil))
}
