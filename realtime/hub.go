package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/phamtan/resort-app/models"
)

// Event types
const (
	EventBookingUpdate   = "booking_update"
	EventStaffNotif      = "staff_notification"
	EventPaymentUpdate   = "payment_update"
	EventPaymentPending  = "payment_pending"
	EventPaymentSuccess  = "payment_success"
	EventPaymentFailed   = "payment_failed"
	EventInvoiceCreated  = "invoice_created"
	EventDashboardUpdate = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected dashboard client and fans broadcasts out to
// them.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection to the set with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops a connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastBookingUpdate pushes a booking change to every client.
func BroadcastBookingUpdate(booking models.Booking) {
	broadcast(Message{
		Event: EventBookingUpdate,
		Data:  booking,
	})
}

func BroadcastPaymentPending(payment models.Payment) {
	broadcast(Message{
		Event: EventPaymentPending,
		Data:  payment,
	})
}

func BroadcastPaymentSuccess(payment models.Payment) {
	broadcast(Message{
		Event: EventPaymentSuccess,
		Data:  payment,
	})
}

func BroadcastPaymentFailed(payment models.Payment) {
	broadcast(Message{
		Event: EventPaymentFailed,
		Data:  payment,
	})
}

func BroadcastInvoiceCreated(invoice models.Invoice) {
	broadcast(Message{
		Event: EventInvoiceCreated,
		Data:  invoice,
	})
}

// BroadcastStaffNotification sends a plain text notice to staff clients.
func BroadcastStaffNotification(msg string) {
	broadcast(Message{
		Event: EventStaffNotif,
		Data:  msg,
	})
}

// BroadcastMessage sends an arbitrary event.
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("realtime: failed to marshal %s event: %v", msg.Event, err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("realtime: dropping client: %v", err)
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
