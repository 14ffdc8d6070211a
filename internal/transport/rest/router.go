package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/compliance-tracker/internal/ledger"
	"github.com/frahmantamala/compliance-tracker/internal/qualification"
	"github.com/frahmantamala/compliance-tracker/internal/trainer"
	"github.com/frahmantamala/compliance-tracker/internal/training"
	"github.com/frahmantamala/compliance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/compliance-tracker/internal/transport/swagger"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	qualificationHandler *qualification.Handler,
	trainerHandler *trainer.Handler,
	ledgerHandler *ledger.Handler,
	trainingHandler *training.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Qualification registry routes
		if qualificationHandler != nil {
			r.Route("/qualifications", func(qr chi.Router) {
				qr.Get("/", qualificationHandler.ListQualifications)
				qr.Post("/", qualificationHandler.CreateQualification)
				qr.Get("/untrained", qualificationHandler.ListUntrained)
				qr.Get("/{id}", qualificationHandler.GetQualification)
				qr.Put("/{id}", qualificationHandler.UpdateQualification)
				qr.Get("/{id}/eligible", qualificationHandler.ListEligible)
				if trainerHandler != nil {
					qr.Get("/{id}/trainers", trainerHandler.ListTrainersFor)
				}
			})
		}

		// Trainer registry routes
		if trainerHandler != nil {
			r.Route("/trainers", func(tr chi.Router) {
				tr.Post("/", trainerHandler.AddTrainer)
				tr.Delete("/", trainerHandler.RemoveTrainer)
			})
			r.Get("/employees/{id}/trainer-toggle", trainerHandler.CanToggleTrainerFlag)
			r.Put("/employees/{id}/trainer-flag", trainerHandler.SetTrainerFlag)
		}

		// Qualification ledger routes
		if ledgerHandler != nil {
			r.Post("/grants", ledgerHandler.Grant)
			r.Get("/employees/{id}/qualifications/{qid}/status", ledgerHandler.GetStatus)
			r.Get("/employees/{id}/qualifications/{qid}/history", ledgerHandler.GetHistory)
		}

		// Training lifecycle routes
		if trainingHandler != nil {
			r.Route("/trainings", func(tr chi.Router) {
				tr.Post("/", trainingHandler.CreateTraining)
				tr.Get("/", trainingHandler.ListTrainings)
				tr.Get("/{id}", trainingHandler.GetTraining)
				tr.Get("/{id}/participants", trainingHandler.GetParticipants)
				tr.Post("/{id}/participants", trainingHandler.AssignEmployees)
				tr.Delete("/{id}/participants/{employeeId}", trainingHandler.RemoveParticipant)
				tr.Post("/{id}/complete", trainingHandler.CompleteTraining)
				tr.Get("/{id}/reconcile", trainingHandler.ReconcileTraining)
			})
		}
	})
}
