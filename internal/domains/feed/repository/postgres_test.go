package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	cardModel "cardfolio-backend/internal/domains/cardrequest/model"
)

func TestListableStatuses(t *testing.T) {
	statuses := listableStatuses()

	// Listings show everything public that has not ended in cancelled or
	// rejected; an admin-published card in an earlier status stays visible.
	assert.ElementsMatch(t, []string{
		string(cardModel.StatusSubmitted),
		string(cardModel.StatusRevisionRequested),
		string(cardModel.StatusProcessing),
		string(cardModel.StatusConfirmed),
		string(cardModel.StatusDelivered),
	}, statuses)

	assert.NotContains(t, statuses, string(cardModel.StatusCancelled))
	assert.NotContains(t, statuses, string(cardModel.StatusRejected))
}
