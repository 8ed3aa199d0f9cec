// Package discord maintains the mirror's footprint in a Discord guild.
//
// A [Client] wraps the Discord REST API for a single guild and category.
// It lists, creates and deletes the text channels that stand in for
// containers, and edits the single status message each channel holds. No
// gateway connection is opened; the daemon only ever pushes state.
//
// [StatusEmbed] renders a container summary and its recent logs into the
// embed that [Client.UpdateStatus] writes, and [ChannelName] maps container
// names onto names Discord will store unchanged.
//
// Example usage:
//
//	dc, err := discord.New(token, guildID, categoryID)
//	if err != nil {
//	    return err
//	}
//
//	ch, err := dc.CreateChannel(ctx, "nginx")
//	if err != nil {
//	    return err
//	}
//
//	msg, err := dc.SeedMessage(ctx, ch.ID)
//	if err != nil {
//	    return err
//	}
//
//	err = dc.UpdateStatus(ctx, msg, discord.StatusEmbed(summary, logs))
package discord
