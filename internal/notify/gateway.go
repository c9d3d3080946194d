package notify

import (
	"encoding/json"
	"log"

	"github.com/atelier-studio/atelier-go/internal/domain/notification"
	"github.com/atelier-studio/atelier-go/internal/repository"
)

type Event string

const (
	EventUpload Event = "upload"
	EventModify Event = "modify"
	EventPass   Event = "pass"
)

// Gateway delivers lifecycle events to users. Delivery is best-effort
// and fire-and-forget: a failure must never block or roll back the state
// transition that emitted the event.
type Gateway interface {
	Notify(recipientID uint, projectID uint, event Event, content string)
}

// WSGateway persists each event and pushes it to live websocket
// connections.
type WSGateway struct {
	hub  *Hub
	repo repository.NotificationRepo
}

func NewWSGateway(hub *Hub, repo repository.NotificationRepo) *WSGateway {
	return &WSGateway{hub: hub, repo: repo}
}

func (g *WSGateway) Notify(recipientID uint, projectID uint, event Event, content string) {
	n := notification.Notification{
		RecipientID: recipientID,
		ProjectID:   projectID,
		Event:       string(event),
		Content:     content,
	}
	if err := g.repo.CreateNotification(&n); err != nil {
		log.Printf("notify: persisting %s notification for user %d: %v", event, recipientID, err)
	}

	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("notify: marshal notification: %v", err)
		return
	}
	g.hub.Push(recipientID, payload)
}
