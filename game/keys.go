package game

import "unicode"

// Key is a recognized host key action.
type Key int

const (
	KeyNone Key = iota
	KeySaveFrame
	KeyClearTrails
	KeyToggleFade
	KeyReset
	KeyToggleAudio
	KeyToggleHUD
	KeyScene
)

var keyNames = map[Key]string{
	KeyNone:        "none",
	KeySaveFrame:   "save_frame",
	KeyClearTrails: "clear_trails",
	KeyToggleFade:  "toggle_fade",
	KeyReset:       "reset",
	KeyToggleAudio: "toggle_audio",
	KeyToggleHUD:   "toggle_hud",
	KeyScene:       "scene",
}

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return "unknown"
}

// KeyFromRune maps a typed character to its action, ignoring case. Tab
// switches scenes.
func KeyFromRune(r rune) Key {
	switch unicode.ToLower(r) {
	case 's':
		return KeySaveFrame
	case 'c':
		return KeyClearTrails
	case 'f':
		return KeyToggleFade
	case 'r':
		return KeyReset
	case 'm':
		return KeyToggleAudio
	case 'h':
		return KeyToggleHUD
	case '\t':
		return KeyScene
	}
	return KeyNone
}
