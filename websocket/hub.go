package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Define notification types
const (
	NotificationTypePartnerStatus        = "partner_status_changed"
	NotificationTypeApplicationSubmitted = "application_submitted"
	NotificationTypeApplicationReviewed  = "application_reviewed"
	NotificationTypeTrialOutcome         = "trial_outcome"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type         string      `json:"type"`
	Message      string      `json:"message"`
	Data         interface{} `json:"data,omitempty"`
	UserID       string      `json:"userID,omitempty"`
	RequiresAuth bool        `json:"requiresAuth,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID        primitive.ObjectID
	UserType      string
	Conn          *websocket.Conn
	Authenticated bool
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients                map[primitive.ObjectID]*Client
	unauthenticatedClients map[*Client]bool
	register               chan *Client
	unregister             chan *Client
	mu                     sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:                make(map[primitive.ObjectID]*Client),
		unauthenticatedClients: make(map[*Client]bool),
		register:               make(chan *Client),
		unregister:             make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if client.Authenticated && client.UserID != primitive.NilObjectID {
				h.clients[client.UserID] = client
			} else {
				h.unauthenticatedClients[client] = true
			}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if client.Authenticated && client.UserID != primitive.NilObjectID {
				if _, ok := h.clients[client.UserID]; ok {
					delete(h.clients, client.UserID)
				}
			} else {
				delete(h.unauthenticatedClients, client)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.Conn.WriteJSON(notification)
}

// BroadcastToAdmins sends a message to every connected admin client
func (h *Hub) BroadcastToAdmins(notification Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.UserType == "admin" {
			client.Conn.WriteJSON(notification)
		}
	}
}

// AuthenticateClient moves a client from unauthenticated to authenticated state
func (h *Hub) AuthenticateClient(client *Client, userID primitive.ObjectID, userType string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Remove from unauthenticated clients
	if _, ok := h.unauthenticatedClients[client]; ok {
		delete(h.unauthenticatedClients, client)
	}

	// Set client as authenticated
	client.Authenticated = true
	client.UserID = userID
	client.UserType = userType

	// Add to authenticated clients
	h.clients[userID] = client

	return nil
}

// NotifyPartnerStatusChange tells connected admins that a partner moved to a
// new lifecycle status
func (h *Hub) NotifyPartnerStatusChange(partnerData interface{}) {
	h.BroadcastToAdmins(Notification{
		Type:    NotificationTypePartnerStatus,
		Message: "Partner status has changed",
		Data:    partnerData,
	})
}

// NotifyApplicationSubmitted tells connected admins that a new partner
// application arrived
func (h *Hub) NotifyApplicationSubmitted(applicationData interface{}) {
	h.BroadcastToAdmins(Notification{
		Type:    NotificationTypeApplicationSubmitted,
		Message: "New partner application submitted",
		Data:    applicationData,
	})
}

// NotifyApplicationReviewed sends the review outcome to the partner account
func (h *Hub) NotifyApplicationReviewed(userID primitive.ObjectID, applicationData interface{}) error {
	return h.SendToUser(userID, Notification{
		Type:    NotificationTypeApplicationReviewed,
		Message: "Your application has been reviewed",
		Data:    applicationData,
	})
}

// NotifyTrialOutcome sends a trial completion or failure to the partner account
func (h *Hub) NotifyTrialOutcome(userID primitive.ObjectID, trialData interface{}) error {
	return h.SendToUser(userID, Notification{
		Type:    NotificationTypeTrialOutcome,
		Message: "A trial service outcome has been recorded",
		Data:    trialData,
	})
}
