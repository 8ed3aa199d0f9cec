package discord

import "strings"

const (

	// Discord caps channel names at 100 characters.
	maxChannelName = 100
)

// Derives the Discord channel name for a container.
//
// Discord rewrites channel names containing uppercase letters or
// punctuation, which would break the name lookup on later passes. The name
// is therefore normalized locally: lowercased, with every rune outside
// [a-z0-9_-] replaced by a dash. Names over 100 characters are truncated.
func ChannelName(container string) string {
	name := strings.ToLower(strings.TrimPrefix(container, "/"))

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	// All runes are ASCII after normalization, so byte slicing is safe.
	name = b.String()
	if len(name) > maxChannelName {
		name = name[:maxChannelName]
	}

	return name
}
