package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

var (
	ErrDiscord = errors.New("discord error")
)

// Reports whether the error is Discord's "unknown channel" response,
// meaning the channel no longer exists.
func IsUnknownChannel(err error) bool {
	return isErrCode(err, discordgo.ErrCodeUnknownChannel)
}

// Reports whether the error is Discord's "unknown message" response,
// meaning the message no longer exists.
func IsUnknownMessage(err error) bool {
	return isErrCode(err, discordgo.ErrCodeUnknownMessage)
}

// Matches a Discord API error code anywhere in the error chain.
func isErrCode(err error, code int) bool {
	var rerr *discordgo.RESTError
	if !errors.As(err, &rerr) {
		return false
	}
	return rerr.Message != nil && rerr.Message.Code == code
}
