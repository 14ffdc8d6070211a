package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// EventTypeDocumentsUploaded is emitted by the document subsystem once
	// certificates for a training have been stored. It is the trigger for
	// the pending -> completed transition.
	EventTypeDocumentsUploaded = "training.documents_uploaded"
	EventTypeTrainingCompleted = "training.completed"
)

type DocumentsUploadedEvent struct {
	BaseEvent
	TrainingID     int64     `json:"training_id"`
	CompletionDate time.Time `json:"completion_date"`
	DocumentCount  int       `json:"document_count"`
}

func NewDocumentsUploadedEvent(trainingID int64, completionDate time.Time, documentCount int) *DocumentsUploadedEvent {
	return &DocumentsUploadedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDocumentsUploaded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"training_id":     trainingID,
				"completion_date": completionDate,
				"document_count":  documentCount,
			},
		},
		TrainingID:     trainingID,
		CompletionDate: completionDate,
		DocumentCount:  documentCount,
	}
}

type TrainingCompletedEvent struct {
	BaseEvent
	TrainingID      int64     `json:"training_id"`
	QualificationID int64     `json:"qualification_id"`
	CompletedDate   time.Time `json:"completed_date"`
	ParticipantIDs  []int64   `json:"participant_ids"`
	GrantsWritten   int       `json:"grants_written"`
}

func NewTrainingCompletedEvent(trainingID, qualificationID int64, completedDate time.Time, participantIDs []int64, grantsWritten int) *TrainingCompletedEvent {
	return &TrainingCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTrainingCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"training_id":      trainingID,
				"qualification_id": qualificationID,
				"completed_date":   completedDate,
				"participant_ids":  participantIDs,
				"grants_written":   grantsWritten,
			},
		},
		TrainingID:      trainingID,
		QualificationID: qualificationID,
		CompletedDate:   completedDate,
		ParticipantIDs:  participantIDs,
		GrantsWritten:   grantsWritten,
	}
}
