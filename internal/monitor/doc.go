// Package monitor reconciles local containers into Discord channels.
//
// A [Monitor] periodically lists the containers on the engine and shapes a
// Discord category after them: every container gets a text channel holding
// a single status message, channels of vanished containers are deleted,
// and each pass rewrites the status messages with the container's state
// and recent logs.
//
// The container-to-channel mapping is held in memory. On startup
// [Monitor.Adopt] rebuilds it from the channels already present, matching
// them to containers by name, so restarts do not litter the category with
// duplicates.
//
// Example usage:
//
//	m := monitor.New(rt, dc, 30*time.Second, 40)
//	go m.Run(ctx)
//
//	stats, err := m.Sync(ctx)
package monitor
