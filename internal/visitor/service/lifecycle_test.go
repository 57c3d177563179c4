package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/visitor/models"
	traystore "gatehouse/internal/visitor/store/tray"
	visitorstore "gatehouse/internal/visitor/store/visitor"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/requestcontext"
	"gatehouse/pkg/testutil"
)

func TestVisitLifecycle(t *testing.T) {
	testutil.Given(t, "a front desk with two trays", func(t *testing.T) {
		trays := traystore.NewInMemory(2)
		svc := New(visitorstore.NewInMemory(), trays, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		ctx := requestcontext.WithTime(context.Background(), time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))

		var first, second *models.Visitor
		testutil.When(t, "two visitors check in", func(t *testing.T) {
			var err error
			first, err = svc.CheckIn(ctx, &models.CheckInRequest{Name: "Ann", HostName: "Unit 4", Purpose: "business"})
			require.NoError(t, err)
			second, err = svc.CheckIn(ctx, &models.CheckInRequest{Name: "Ben", HostName: "Unit 9", Purpose: "delivery"})
			require.NoError(t, err)

			testutil.Then(t, "trays are handed out in order", func(t *testing.T) {
				assert.Equal(t, "T-001", first.TrayNumber)
				assert.Equal(t, "T-002", second.TrayNumber)
			})

			testutil.Then(t, "a third visitor is turned away", func(t *testing.T) {
				_, err := svc.CheckIn(ctx, &models.CheckInRequest{Name: "Cal", HostName: "Unit 1", Purpose: "business"})
				assert.True(t, dErrors.HasCode(err, dErrors.CodeResourceExhausted))
			})
		})

		testutil.When(t, "both leave through bulk check-out with a repeat", func(t *testing.T) {
			result := svc.BulkCheckOut(ctx, []string{first.ID.String(), second.ID.String(), first.ID.String()})

			testutil.Then(t, "each visitor is checked out once and the repeat is reported", func(t *testing.T) {
				assert.Len(t, result.CheckedOut, 2)
				require.Len(t, result.Failures, 1)
				assert.Equal(t, first.ID.String(), result.Failures[0].VisitorID)
			})

			testutil.Then(t, "every tray is free again", func(t *testing.T) {
				stats, err := svc.TrayStats(ctx)
				require.NoError(t, err)
				assert.Equal(t, 2, stats.Available)
			})
		})
	})
}
