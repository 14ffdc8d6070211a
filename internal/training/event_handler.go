package training

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/compliance-tracker/internal/core/events"
)

// EventHandler wires the document subsystem's upload event to the
// completion transition.
type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) HandleDocumentsUploaded(ctx context.Context, event events.Event) error {
	uploadEvent, ok := event.(*events.DocumentsUploadedEvent)
	if !ok {
		h.logger.Error("invalid event type for documents uploaded handler", "event_type", event.EventType())
		return fmt.Errorf("expected DocumentsUploadedEvent, got %T", event)
	}

	h.logger.Info("handling documents uploaded event",
		"training_id", uploadEvent.TrainingID,
		"completion_date", uploadEvent.CompletionDate,
		"document_count", uploadEvent.DocumentCount,
		"event_id", uploadEvent.EventID())

	_, err := h.service.Complete(ctx, uploadEvent.TrainingID, CompleteTrainingDTO{
		CompletionDate: uploadEvent.CompletionDate,
		DocumentCount:  uploadEvent.DocumentCount,
	})
	if err != nil {
		h.logger.Error("failed to complete training from upload event",
			"error", err,
			"training_id", uploadEvent.TrainingID,
			"event_id", uploadEvent.EventID())
		return fmt.Errorf("training completion failed for training %d: %w", uploadEvent.TrainingID, err)
	}

	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeDocumentsUploaded, h.HandleDocumentsUploaded)

	h.logger.Info("training event handlers registered",
		"handlers", []string{events.EventTypeDocumentsUploaded})
}
