package lifecycle_test

import (
	"net/http"
	"rento/internal/domains/booking/lifecycle"
	notificationModel "rento/internal/domains/notification/model"
	"rento/shared/constant"
	"rento/shared/failure"
	"testing"

	"github.com/stretchr/testify/assert"
)

var parties = lifecycle.Parties{OwnerID: "owner-1", RenterID: "renter-1"}

func TestDecide_Permitted(t *testing.T) {
	tests := []struct {
		name      string
		status    lifecycle.Status
		intent    lifecycle.Intent
		actor     string
		to        lifecycle.Status
		notify    notificationModel.Type
		recipient string
	}{
		{
			name:      "owner approves pending booking",
			status:    lifecycle.StatusPending,
			intent:    lifecycle.IntentApprove,
			actor:     "owner-1",
			to:        lifecycle.StatusConfirmed,
			notify:    notificationModel.TypeBookingApproved,
			recipient: "renter-1",
		},
		{
			name:      "owner rejects pending booking",
			status:    lifecycle.StatusPending,
			intent:    lifecycle.IntentReject,
			actor:     "owner-1",
			to:        lifecycle.StatusCancelled,
			notify:    notificationModel.TypeBookingRejected,
			recipient: "renter-1",
		},
		{
			name:      "renter cancels pending booking",
			status:    lifecycle.StatusPending,
			intent:    lifecycle.IntentCancel,
			actor:     "renter-1",
			to:        lifecycle.StatusCancelled,
			notify:    notificationModel.TypeBookingCancelled,
			recipient: "owner-1",
		},
		{
			name:      "owner completes confirmed booking",
			status:    lifecycle.StatusConfirmed,
			intent:    lifecycle.IntentComplete,
			actor:     "owner-1",
			to:        lifecycle.StatusCompleted,
			notify:    notificationModel.TypeBookingCompleted,
			recipient: "renter-1",
		},
		{
			name:      "system completes confirmed booking",
			status:    lifecycle.StatusConfirmed,
			intent:    lifecycle.IntentComplete,
			actor:     constant.ActorSystem,
			to:        lifecycle.StatusCompleted,
			notify:    notificationModel.TypeBookingCompleted,
			recipient: "renter-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := lifecycle.Decide(tt.status, tt.intent, parties, tt.actor)

			assert.NoError(t, err)
			assert.Equal(t, tt.status, decision.From)
			assert.Equal(t, tt.to, decision.To)
			assert.Equal(t, tt.notify, decision.Notification)
			assert.Equal(t, tt.recipient, decision.RecipientID)
		})
	}
}

func TestDecide_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		status lifecycle.Status
		intent lifecycle.Intent
		actor  string
		code   int
	}{
		{name: "stranger approves", status: lifecycle.StatusPending, intent: lifecycle.IntentApprove, actor: "stranger", code: http.StatusForbidden},
		{name: "stranger cancels", status: lifecycle.StatusPending, intent: lifecycle.IntentCancel, actor: "stranger", code: http.StatusForbidden},
		{name: "anonymous actor", status: lifecycle.StatusPending, intent: lifecycle.IntentCancel, actor: "", code: http.StatusForbidden},
		{name: "renter approves own request", status: lifecycle.StatusPending, intent: lifecycle.IntentApprove, actor: "renter-1", code: http.StatusForbidden},
		{name: "renter rejects", status: lifecycle.StatusPending, intent: lifecycle.IntentReject, actor: "renter-1", code: http.StatusForbidden},
		{name: "owner uses renter cancel", status: lifecycle.StatusPending, intent: lifecycle.IntentCancel, actor: "owner-1", code: http.StatusForbidden},
		{name: "renter completes", status: lifecycle.StatusConfirmed, intent: lifecycle.IntentComplete, actor: "renter-1", code: http.StatusForbidden},
		{name: "system approves", status: lifecycle.StatusPending, intent: lifecycle.IntentApprove, actor: constant.ActorSystem, code: http.StatusForbidden},
		{name: "approve twice", status: lifecycle.StatusConfirmed, intent: lifecycle.IntentApprove, actor: "owner-1", code: http.StatusConflict},
		{name: "approve cancelled", status: lifecycle.StatusCancelled, intent: lifecycle.IntentApprove, actor: "owner-1", code: http.StatusConflict},
		{name: "cancel confirmed", status: lifecycle.StatusConfirmed, intent: lifecycle.IntentCancel, actor: "renter-1", code: http.StatusConflict},
		{name: "reject confirmed", status: lifecycle.StatusConfirmed, intent: lifecycle.IntentReject, actor: "owner-1", code: http.StatusConflict},
		{name: "complete pending", status: lifecycle.StatusPending, intent: lifecycle.IntentComplete, actor: "owner-1", code: http.StatusConflict},
		{name: "complete completed", status: lifecycle.StatusCompleted, intent: lifecycle.IntentComplete, actor: constant.ActorSystem, code: http.StatusConflict},
		{name: "unknown intent", status: lifecycle.StatusPending, intent: lifecycle.Intent("delete"), actor: "owner-1", code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lifecycle.Decide(tt.status, tt.intent, parties, tt.actor)

			assert.Error(t, err)
			assert.Equal(t, tt.code, failure.GetCode(err))
		})
	}
}

func TestDecide_TerminalStatusesAcceptNothing(t *testing.T) {
	intents := []lifecycle.Intent{lifecycle.IntentApprove, lifecycle.IntentReject, lifecycle.IntentCancel, lifecycle.IntentComplete}

	for _, status := range []lifecycle.Status{lifecycle.StatusCancelled, lifecycle.StatusCompleted} {
		assert.True(t, status.Terminal())

		for _, intent := range intents {
			for _, actor := range []string{"owner-1", "renter-1", constant.ActorSystem} {
				_, err := lifecycle.Decide(status, intent, parties, actor)
				assert.Error(t, err, "%s on %s by %s", intent, status, actor)
			}
		}
	}
}

func TestResolveCancellation(t *testing.T) {
	intent, err := lifecycle.ResolveCancellation(parties, "owner-1")
	assert.NoError(t, err)
	assert.Equal(t, lifecycle.IntentReject, intent)

	intent, err = lifecycle.ResolveCancellation(parties, "renter-1")
	assert.NoError(t, err)
	assert.Equal(t, lifecycle.IntentCancel, intent)

	_, err = lifecycle.ResolveCancellation(parties, "stranger")
	assert.True(t, failure.Is(err, http.StatusForbidden))

	_, err = lifecycle.ResolveCancellation(parties, constant.ActorSystem)
	assert.True(t, failure.Is(err, http.StatusForbidden))
}

func TestParseIntent(t *testing.T) {
	for _, value := range []string{"approve", "reject", "cancel", "complete"} {
		intent, err := lifecycle.ParseIntent(value)
		assert.NoError(t, err)
		assert.Equal(t, lifecycle.Intent(value), intent)
	}

	_, err := lifecycle.ParseIntent("APPROVE")
	assert.True(t, failure.Is(err, http.StatusBadRequest))
}

func TestParties(t *testing.T) {
	assert.True(t, parties.Involves("owner-1"))
	assert.True(t, parties.Involves("renter-1"))
	assert.False(t, parties.Involves("stranger"))
	assert.False(t, parties.Involves(""))

	assert.Equal(t, "renter-1", parties.Counterparty("owner-1"))
	assert.Equal(t, "owner-1", parties.Counterparty("renter-1"))
}

func TestStatus(t *testing.T) {
	assert.True(t, lifecycle.StatusPending.Valid())
	assert.False(t, lifecycle.Status("pending").Valid())

	assert.True(t, lifecycle.StatusPending.Active())
	assert.True(t, lifecycle.StatusConfirmed.Active())
	assert.False(t, lifecycle.StatusCancelled.Active())
	assert.False(t, lifecycle.StatusCompleted.Active())
}
