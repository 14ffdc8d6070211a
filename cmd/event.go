package cmd

import (
	"context"
	"strconv"
	"time"

	"github.com/frahmantamala/compliance-tracker/internal/core/events"
	"github.com/frahmantamala/compliance-tracker/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test events, monitor event bus, inspect handlers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [training-id]",
	Short: "Publish a test documents-uploaded event",
	Long:  `Publish a test documents-uploaded event to the event bus for testing and debugging`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent(args[0])
	},
}

var eventDocumentCount int

func publishTestEvent(trainingIDArg string) {
	logger := logger.LoggerWrapper()

	trainingID, err := strconv.ParseInt(trainingIDArg, 10, 64)
	if err != nil {
		logger.Error("invalid training id", "value", trainingIDArg, "error", err)
		return
	}

	eventBus := events.NewEventBus(logger)

	eventBus.Subscribe(events.EventTypeDocumentsUploaded, func(ctx context.Context, event events.Event) error {
		logger.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	testEvent := events.NewDocumentsUploadedEvent(trainingID, time.Now(), eventDocumentCount)

	logger.Info("publishing test event",
		"event_type", testEvent.EventType(),
		"event_id", testEvent.EventID())

	ctx := context.Background()
	if err := eventBus.Publish(ctx, testEvent); err != nil {
		logger.Error("failed to publish event", "error", err)
		return
	}

	time.Sleep(100 * time.Millisecond)
	logger.Info("test event published successfully")
}

func init() {

	publishEventCmd.Flags().IntVar(&eventDocumentCount, "documents", 1, "Number of uploaded documents")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
