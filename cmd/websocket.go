package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"chazonBack/internal/handlers"
	"chazonBack/internal/services"
)

const (
	wsReadLimit     = 1 << 20
	wsReadDeadline  = 120 * time.Second
	wsWriteDeadline = 5 * time.Second
	wsPingInterval  = 15 * time.Second
)

type wsClient struct {
	userID int
	conn   *websocket.Conn
}

type wsUnregister struct {
	userID int
	conn   *websocket.Conn
}

// BookingEventsHub delivers booking lifecycle and payment events to the
// affected user's open connection. All access to clients happens inside Run.
type BookingEventsHub struct {
	clients    map[int]*websocket.Conn
	events     chan services.BookingEvent
	register   chan wsClient
	unregister chan wsUnregister
}

func NewBookingEventsHub() *BookingEventsHub {
	return &BookingEventsHub{
		clients:    make(map[int]*websocket.Conn),
		events:     make(chan services.BookingEvent, 64),
		register:   make(chan wsClient),
		unregister: make(chan wsUnregister),
	}
}

// PublishBookingEvent queues an event for delivery. When the hub is backed up
// the event is dropped; the client state is still readable over HTTP.
func (hub *BookingEventsHub) PublishBookingEvent(ev services.BookingEvent) {
	select {
	case hub.events <- ev:
	default:
		log.Printf("events hub full, dropping event for user=%d", ev.UserID)
	}
}

func (hub *BookingEventsHub) Run() {
	for {
		select {
		case client := <-hub.register:
			// A newer socket replaces the old one for the same user.
			if old, ok := hub.clients[client.userID]; ok && old != nil && old != client.conn {
				_ = old.Close()
			}
			hub.clients[client.userID] = client.conn
			log.Printf("WS register user=%d", client.userID)

		case u := <-hub.unregister:
			if cur, ok := hub.clients[u.userID]; ok && cur == u.conn {
				_ = cur.Close()
				delete(hub.clients, u.userID)
				log.Printf("WS unregister user=%d", u.userID)
			}

		case ev := <-hub.events:
			conn, ok := hub.clients[ev.UserID]
			if !ok {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("event send error to=%d: %v", ev.UserID, err)
				_ = conn.Close()
				delete(hub.clients, ev.UserID)
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: true,
}

// WebSocketHandler upgrades an authenticated request and registers the
// connection under the caller's user id. The connection is read-only for the
// client; inbound frames are discarded.
func (app *application) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := handlers.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
		return nil
	})

	app.eventsHub.register <- wsClient{userID: userID, conn: conn}

	go pingLoop(app.eventsHub, conn, userID)
	go discardReads(app.eventsHub, conn, userID)
}

func pingLoop(hub *BookingEventsHub, conn *websocket.Conn, userID int) {
	t := time.NewTicker(wsPingInterval)
	defer t.Stop()
	for range t.C {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			hub.unregister <- wsUnregister{userID: userID, conn: conn}
			return
		}
	}
}

func discardReads(hub *BookingEventsHub, conn *websocket.Conn, userID int) {
	defer func() {
		hub.unregister <- wsUnregister{userID: userID, conn: conn}
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
