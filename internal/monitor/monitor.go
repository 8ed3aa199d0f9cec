package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Raspitainment/discord-docker-status/internal/discord"
	"github.com/Raspitainment/discord-docker-status/internal/runtime"
)

var (
	ErrSync = errors.New("sync failed")
)

// Observes the container side of the mirror.
type ContainerSource interface {
	ListContainers(ctx context.Context) ([]runtime.Summary, error)
	TailLogs(ctx context.Context, id string, tail int) (string, error)
}

// Maintains the Discord side of the mirror.
type ChannelSink interface {
	MirrorChannels(ctx context.Context) ([]discord.Channel, error)
	CreateChannel(ctx context.Context, containerName string) (discord.Channel, error)
	DeleteChannel(ctx context.Context, id string) error
	SeedMessage(ctx context.Context, channelID string) (discord.Message, error)
	UpdateStatus(ctx context.Context, msg discord.Message, embed *discordgo.MessageEmbed) error
}

// Where a container's status lives on Discord.
type entry struct {
	channelID string
	messageID string
}

// Counts what one reconcile pass changed.
type Stats struct {
	Created  int           // Channels created for new containers.
	Removed  int           // Channels deleted for vanished containers.
	Updated  int           // Status messages rewritten.
	Duration time.Duration // Wall-clock time of the pass.
}

// Point-in-time monitor state.
type Status struct {
	Tracked  int       // Containers currently mirrored.
	Syncs    int       // Completed reconcile passes.
	LastSync time.Time // End of the last successful pass. Zero before the first.
}

// Keeps a Discord category in step with the local containers.
//
// One channel per container, one status message per channel. The mapping
// from container name to channel and message lives in memory and is
// rebuilt from Discord on startup by [Monitor.Adopt].
type Monitor struct {
	containers ContainerSource
	channels   ChannelSink
	interval   time.Duration
	tail       int

	mu       sync.Mutex
	cache    map[string]entry // Container name to its channel and message.
	syncs    int
	lastSync time.Time
}

// Creates a monitor that reconciles once per interval, showing the last
// tail log lines of each container.
func New(containers ContainerSource, channels ChannelSink, interval time.Duration, tail int) *Monitor {
	return &Monitor{
		containers: containers,
		channels:   channels,
		interval:   interval,
		tail:       tail,
		cache:      map[string]entry{},
	}
}

// Runs the reconcile loop until the context is cancelled.
//
// Existing channels are adopted first so a restart carries on with the
// channels of the previous run. Then one pass runs immediately and one per
// interval tick. A failed pass is logged and the loop keeps going.
func (m *Monitor) Run(ctx context.Context) {
	if err := m.Adopt(ctx); err != nil {
		slog.Error("adopting existing channels failed", "error", err)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if _, err := m.Sync(ctx); err != nil && ctx.Err() == nil {
			slog.Error("sync failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Runs one reconcile pass.
//
// Channels of vanished containers are deleted, new containers get a
// channel with a seed message, and every tracked status message is
// rewritten with the current state and logs. Passes serialize on the
// monitor lock, so a forced pass cannot interleave with the loop.
func (m *Monitor) Sync(ctx context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()

	list, err := m.containers.ListContainers(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrSync, err)
	}

	live := make(map[string]runtime.Summary, len(list))
	for _, ctr := range list {
		live[ctr.Name] = ctr
	}

	var stats Stats

	for name, ent := range m.cache {
		if _, ok := live[name]; ok {
			continue
		}
		if err := m.channels.DeleteChannel(ctx, ent.channelID); err != nil {
			return Stats{}, fmt.Errorf("%w: %w", ErrSync, err)
		}
		delete(m.cache, name)
		stats.Removed++
		slog.Info("removed channel of vanished container", "container", name)
	}

	for name := range live {
		if _, ok := m.cache[name]; ok {
			continue
		}
		ch, err := m.channels.CreateChannel(ctx, name)
		if err != nil {
			return Stats{}, fmt.Errorf("%w: %w", ErrSync, err)
		}
		msg, err := m.channels.SeedMessage(ctx, ch.ID)
		if err != nil {
			return Stats{}, fmt.Errorf("%w: %w", ErrSync, err)
		}
		m.cache[name] = entry{channelID: ch.ID, messageID: msg.ID}
		stats.Created++
		slog.Info("created channel for container", "container", name, "channel", ch.Name)
	}

	for name, ent := range m.cache {
		ctr, ok := live[name]
		if !ok {
			return Stats{}, fmt.Errorf("%w: container %s not in listing", ErrSync, name)
		}

		logs, err := m.containers.TailLogs(ctx, ctr.ID, m.tail)
		if err != nil {
			slog.Warn("reading container logs failed", "container", name, "error", err)
			logs = fmt.Sprintf("-- failed to read logs: %v", err)
		}

		embed := discord.StatusEmbed(ctr, logs)
		msg := discord.Message{ChannelID: ent.channelID, ID: ent.messageID}
		err = m.channels.UpdateStatus(ctx, msg, embed)
		switch {
		case err == nil:
		case discord.IsUnknownChannel(err):
			// The channel was deleted by hand. Forget the pair; the next
			// pass creates a fresh one.
			slog.Warn("tracked channel is gone", "container", name)
			delete(m.cache, name)
			continue
		case discord.IsUnknownMessage(err):
			// Only the message was deleted by hand. Reseed into the same
			// channel instead of recreating it.
			slog.Warn("tracked message is gone, reseeding", "container", name)
			msg, err = m.channels.SeedMessage(ctx, ent.channelID)
			if err != nil {
				return Stats{}, fmt.Errorf("%w: %w", ErrSync, err)
			}
			m.cache[name] = entry{channelID: ent.channelID, messageID: msg.ID}
			if err := m.channels.UpdateStatus(ctx, msg, embed); err != nil {
				return Stats{}, fmt.Errorf("%w: %w", ErrSync, err)
			}
		default:
			return Stats{}, fmt.Errorf("%w: %w", ErrSync, err)
		}
		stats.Updated++
		slog.Debug("updated status message", "container", name)
	}

	m.syncs++
	m.lastSync = time.Now()
	stats.Duration = time.Since(start)

	slog.Debug("sync complete",
		"created", stats.Created,
		"removed", stats.Removed,
		"updated", stats.Updated,
		"duration", stats.Duration,
	)

	return stats, nil
}

// Rebuilds the container-to-channel mapping from Discord.
//
// Category channels whose names match a live container's normalized name
// are taken over with a fresh seed message, so a restarted daemon reuses
// its channels instead of creating a second set. Channels matching no
// container are deleted. Each channel is claimed at most once.
func (m *Monitor) Adopt(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	channels, err := m.channels.MirrorChannels(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSync, err)
	}
	if len(channels) == 0 {
		return nil
	}

	list, err := m.containers.ListContainers(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSync, err)
	}

	claimed := make(map[string]bool, len(channels))
	for _, ctr := range list {
		if _, ok := m.cache[ctr.Name]; ok {
			continue
		}
		for _, ch := range channels {
			if claimed[ch.ID] || ch.Name != discord.ChannelName(ctr.Name) {
				continue
			}
			msg, err := m.channels.SeedMessage(ctx, ch.ID)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrSync, err)
			}
			m.cache[ctr.Name] = entry{channelID: ch.ID, messageID: msg.ID}
			claimed[ch.ID] = true
			slog.Info("adopted existing channel", "container", ctr.Name, "channel", ch.Name)
			break
		}
	}

	for _, ch := range channels {
		if claimed[ch.ID] {
			continue
		}
		if err := m.channels.DeleteChannel(ctx, ch.ID); err != nil {
			return fmt.Errorf("%w: %w", ErrSync, err)
		}
		slog.Info("removed channel without container", "channel", ch.Name)
	}

	return nil
}

// Returns the current monitor state.
func (m *Monitor) Snapshot() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Status{
		Tracked:  len(m.cache),
		Syncs:    m.syncs,
		LastSync: m.lastSync,
	}
}
