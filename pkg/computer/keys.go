package computer

import "strings"

// keyMap translates abstract key names to the names the automation engine
// expects. It is never written after init.
var keyMap = map[string]string{
	"/":          "Divide",
	"\\":         "Backslash",
	"alt":        "Alt",
	"arrowdown":  "ArrowDown",
	"arrowleft":  "ArrowLeft",
	"arrowright": "ArrowRight",
	"arrowup":    "ArrowUp",
	"backspace":  "Backspace",
	"capslock":   "CapsLock",
	"cmd":        "Meta",
	"ctrl":       "Control",
	"delete":     "Delete",
	"end":        "End",
	"enter":      "Enter",
	"esc":        "Escape",
	"home":       "Home",
	"insert":     "Insert",
	"option":     "Alt",
	"pagedown":   "PageDown",
	"pageup":     "PageUp",
	"shift":      "Shift",
	"space":      " ",
	"super":      "Meta",
	"tab":        "Tab",
	"win":        "Meta",
}

// MapKey returns the engine key for name, matching case-insensitively.
// Unknown names are returned unchanged.
func MapKey(name string) string {
	if mapped, ok := keyMap[strings.ToLower(name)]; ok {
		return mapped
	}
	return name
}

// MapKeys maps every element of names, preserving order and duplicates.
func MapKeys(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = MapKey(name)
	}
	return out
}
