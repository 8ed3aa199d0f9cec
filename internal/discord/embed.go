package discord

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/Raspitainment/discord-docker-status/internal"
	"github.com/Raspitainment/discord-docker-status/internal/runtime"
)

const (

	// Accent color of the status embeds.
	embedColor = 0x3772FF

	// Upper bound on the log excerpt. Discord caps embed descriptions at
	// 4096 characters and the surrounding markup needs room too.
	maxLogChars = 3900
)

// Matches ANSI escape sequences, which Discord renders literally.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// Builds the status embed for one container.
//
// The embed shows the image, the running command and the tail of the
// container logs inside a code block. Logs are stripped of ANSI escapes
// and bounded to their last 3900 characters so the description stays
// within the Discord limit.
func StatusEmbed(ctr runtime.Summary, logs string) *discordgo.MessageEmbed {
	logs = tailString(stripANSI(logs), maxLogChars)

	return &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: fmt.Sprintf("%s (%s)", ctr.Name, ctr.ID),
		},
		Title:       ctr.Status,
		Color:       embedColor,
		Description: fmt.Sprintf("Image `%s`\nRunning `%s`:\n```%s```", ctr.Image, ctr.Command, logs),
		Footer: &discordgo.MessageEmbedFooter{
			Text: internal.Tag(),
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Removes ANSI escape sequences.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// Returns at most the last n bytes of s, advanced past any partial rune at
// the cut.
func tailString(s string, n int) string {
	if len(s) <= n {
		return s
	}

	i := len(s) - n
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}

	return s[i:]
}
