// Package emoji maps symbolic keys to glyphs with ASCII fallbacks
package emoji

import "sync/atomic"

// [emoji, fallback]
var emojiMap = map[string][2]string{
	"image":    {"🖼️", "[IMG]"},
	"camera":   {"📷", "[CAM]"},
	"search":   {"🔭", "[?]"},
	"calendar": {"📅", "[DATE]"},
	"link":     {"🔗", "[URL]"},
	"error":    {"❌", "[ERR]"},
	"warning":  {"⚠️", "[WRN]"},
	"loading":  {"🛰️", "[...]"},
	"empty":    {"🌌", "[--]"},
	"page":     {"📄", "[PG]"},
	"success":  {"✅", "[OK]"},
	"help":     {"❓", "[?]"},
	"rocket":   {"🚀", "[>]"},
	"door":     {"🚪", "[EXIT]"},
}

const unknown = "[?]"

var emojiDisabled atomic.Bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled.Store(disabled)
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled.Load()
}

// GetEmoji returns emoji or fallback based on the global setting
func GetEmoji(key string) string {
	if IsEmojiDisabled() {
		return Fallback(key)
	}
	return Symbol(key)
}

// Symbol returns the glyph for key regardless of the global setting
func Symbol(key string) string {
	if mapping, ok := emojiMap[key]; ok {
		return mapping[0]
	}
	return unknown
}

// Fallback returns the ASCII form of key
func Fallback(key string) string {
	if mapping, ok := emojiMap[key]; ok {
		return mapping[1]
	}
	return unknown
}

// Keys lists every known key
func Keys() []string {
	keys := make([]string, 0, len(emojiMap))
	for k := range emojiMap {
		keys = append(keys, k)
	}
	return keys
}
