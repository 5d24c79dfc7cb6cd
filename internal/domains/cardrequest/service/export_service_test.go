package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardfolio-backend/internal/domains/cardrequest/model"
)

func TestExportToExcel(t *testing.T) {
	h := newServiceHarness()
	h.seedCard(t, model.StatusSubmitted)
	h.seedCard(t, model.StatusConfirmed)

	t.Run("requires admin", func(t *testing.T) {
		_, err := h.svc.ExportToExcel(context.Background(), ownerActor, model.ListCardRequestsRequest{})
		assertCardCode(t, err, model.ErrCodeForbidden)
	})

	t.Run("one row per card plus header", func(t *testing.T) {
		f, err := h.svc.ExportToExcel(context.Background(), adminActor, model.ListCardRequestsRequest{})
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Card requests")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "ID", rows[0][0])
		assert.Equal(t, "Display Name", rows[0][2])
	})

	t.Run("status filter applies", func(t *testing.T) {
		f, err := h.svc.ExportToExcel(context.Background(), adminActor, model.ListCardRequestsRequest{Status: "confirmed"})
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Card requests")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "confirmed", rows[1][5])
	})
}

func TestExportFileName(t *testing.T) {
	at := time.Date(2026, 7, 9, 14, 30, 5, 0, time.UTC)
	assert.Equal(t, "card-requests-2026-07-09-143005.xlsx", ExportFileName(at))
}
