package main

import (
	"github.com/hibiken/asynq"

	cardJob "cardfolio-backend/internal/domains/cardrequest/job"
	feedJob "cardfolio-backend/internal/domains/feed/job"
	"cardfolio-backend/internal/shared"
	"cardfolio-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	processIllustration  *cardJob.ProcessIllustrationHandler
	statusEmail          *cardJob.StatusEmailHandler
	publishSweep         *feedJob.PublishSweepHandler
	cleanupIllustrations *cardJob.CleanupIllustrationsHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		processIllustration:  cardJob.NewProcessIllustrationHandler(c.IllustrationService),
		statusEmail:          cardJob.NewStatusEmailHandler(c.CardRequestRepo, c.EmailService),
		publishSweep:         feedJob.NewPublishSweepHandler(c.CardRequestRepo, c.Cache),
		cleanupIllustrations: cardJob.NewCleanupIllustrationsHandler(c.CardRequestRepo, c.Storage),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeProcessIllustration, h.processIllustration.ProcessTask)
	mux.HandleFunc(shared.TypeStatusEmail, h.statusEmail.ProcessTask)
	mux.HandleFunc(shared.TypePublishSweep, h.publishSweep.ProcessTask)
	mux.HandleFunc(shared.TypeCleanupThumbnails, h.cleanupIllustrations.ProcessTask)
}
