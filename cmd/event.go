package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/marketplace/internal/core/events"
	"github.com/frahmantamala/marketplace/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Inspect and replay marketplace events",
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a store, branch or custom event",
	Long: `Publish one event synchronously. By default a logging subscriber prints the
payload. With --live the event goes through the same notification subscribers
as the HTTP server, so matching notifications are written to the database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishEvent(cmd.Context(), args[0])
	},
}

var (
	eventData    string
	eventStoreID string
	eventOwnerID string
	eventLive    bool
)

func publishEvent(ctx context.Context, eventType string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	bus, lg, cleanup, err := eventBusFor()
	if err != nil {
		return err
	}
	defer cleanup()

	bus.Subscribe(eventType, func(_ context.Context, e events.Event) error {
		lg.Info("event delivered",
			"event_id", e.EventID(),
			"event_type", e.EventType(),
			"payload", e.Payload())
		return nil
	})

	event := buildEvent(eventType)
	if err := bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	lg.Info("event published", "event_type", eventType, "event_id", event.EventID(), "subscribers", bus.Subscribers(eventType))
	return nil
}

// eventBusFor returns a bare bus, or with --live a bus carrying the
// server's notification subscribers.
func eventBusFor() (*events.EventBus, *slog.Logger, func(), error) {
	if !eventLive {
		lg := logger.LoggerWrapper()
		return events.NewEventBus(lg), lg, func() {}, nil
	}

	deps, err := initializeDependencies()
	if err != nil {
		return nil, nil, nil, err
	}
	if _, _, err := buildHandlers(deps); err != nil {
		_ = deps.DB.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		deps.Close(ctx)
	}
	return deps.EventBus, deps.Logger, cleanup, nil
}

func buildEvent(eventType string) events.Event {
	id := fmt.Sprintf("cli-%d", time.Now().UnixNano())

	switch {
	case eventType == events.EventTypeStoreApproved:
		return events.NewStoreReviewedEvent(true, eventStoreID, eventOwnerID, "cli store", "")
	case eventType == events.EventTypeStoreRejected:
		return events.NewStoreReviewedEvent(false, eventStoreID, eventOwnerID, "cli store", eventData)
	case strings.HasPrefix(eventType, "branch."):
		return events.NewBranchEvent(eventType, id, "pending", eventStoreID)
	}

	return events.BaseEvent{
		ID:        id,
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]any{
			"message": eventData,
			"source":  "cli",
		},
	}
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "", "Free-form message, or the reject reason for store.rejected")
	publishEventCmd.Flags().StringVar(&eventStoreID, "store-id", "", "Store the event refers to")
	publishEventCmd.Flags().StringVar(&eventOwnerID, "owner-id", "", "Store owner notified by store review events")
	publishEventCmd.Flags().BoolVar(&eventLive, "live", false, "Deliver through the notification subscribers against the configured database")

	eventCmd.AddCommand(publishEventCmd)
	rootCmd.AddCommand(eventCmd)
}
