package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSendToUserNotConnected(t *testing.T) {
	hub := NewHub()

	err := hub.SendToUser(primitive.NewObjectID(), Notification{Type: NotificationTypeTrialOutcome})
	assert.Error(t, err)
}

func TestNotifyHelpersPropagateDeliveryFailure(t *testing.T) {
	hub := NewHub()
	userID := primitive.NewObjectID()

	assert.Error(t, hub.NotifyApplicationReviewed(userID, map[string]string{"status": "approved"}))
	assert.Error(t, hub.NotifyTrialOutcome(userID, map[string]string{"status": "completed"}))
}

func TestBroadcastToAdminsWithNoClients(t *testing.T) {
	hub := NewHub()

	// Must not panic or block with an empty client set
	hub.NotifyPartnerStatusChange(map[string]string{"status": "screening"})
	hub.NotifyApplicationSubmitted(map[string]string{"businessName": "Acme"})
}
