package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/marketplace/internal/notification"
	"github.com/frahmantamala/marketplace/pkg/broker"
	"github.com/spf13/cobra"
)

const workerShutdownTimeout = 30 * time.Second

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run background consumers",
}

var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Deliver dispatched notifications from kafka",
	Long: `Consume the notification topic written by the HTTP server and hand each
message to the delivery handler. Flags override the kafka section of the config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNotificationWorker(cmd.Context())
	},
}

var (
	workerBrokers []string
	workerGroup   string
	workerTopic   string
)

func runNotificationWorker(parent context.Context) error {
	config, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	lg := initLogger(config)

	brokers := workerBrokers
	if len(brokers) == 0 {
		brokers = config.Kafka.Brokers
	}
	if len(brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}
	group := firstNonEmpty(workerGroup, config.Kafka.ConsumerGroup)
	topic := firstNonEmpty(workerTopic, config.Kafka.NotificationTopic)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("notification worker starting", "brokers", brokers, "group_id", group, "topic", topic)

	delivery := notification.NewDelivery(lg)
	consumer := broker.NewConsumer(lg, brokers, group, topic).
		Handle(topic, delivery.HandleMessage).
		Consume(ctx)

	<-ctx.Done()
	lg.Info("notification worker stopping")

	done := make(chan struct{})
	go func() {
		consumer.Close()
		close(done)
	}()

	select {
	case <-done:
		lg.Info("notification worker stopped")
		return nil
	case <-time.After(workerShutdownTimeout):
		return fmt.Errorf("consumer did not stop within %s", workerShutdownTimeout)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	notificationWorkerCmd.Flags().StringSliceVar(&workerBrokers, "brokers", nil, "Kafka brokers")
	notificationWorkerCmd.Flags().StringVar(&workerGroup, "group", "", "Consumer group id")
	notificationWorkerCmd.Flags().StringVar(&workerTopic, "topic", "", "Notification topic")

	workerCmd.AddCommand(notificationWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
