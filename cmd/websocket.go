package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"tradeBack/internal/models"
)

const (
	readLimit          = 1 << 20
	readDeadline       = 120 * time.Second
	writeDeadline      = 5 * time.Second
	pingInterval       = 15 * time.Second
	firstHelloDeadline = 30 * time.Second
)

type directMsg struct {
	userID int
	msg    models.Message
}

type unreg struct {
	userID int
	conn   *websocket.Conn
}

type Client struct {
	ID     int
	Socket *websocket.Conn
}

type WebSocketManager struct {
	clients    map[int]*websocket.Conn
	direct     chan directMsg
	register   chan Client
	unregister chan unreg
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[int]*websocket.Conn),
		direct:     make(chan directMsg),
		register:   make(chan Client),
		unregister: make(chan unreg),
	}
}

// Run owns the clients map; all access goes through the channels.
func (ws *WebSocketManager) Run() {
	for {
		select {
		case client := <-ws.register:
			if old, ok := ws.clients[client.ID]; ok && old != nil && old != client.Socket {
				_ = old.Close()
			}
			ws.clients[client.ID] = client.Socket
			log.Printf("WS register user=%d", client.ID)

		case u := <-ws.unregister:
			if cur, ok := ws.clients[u.userID]; ok && cur == u.conn {
				_ = cur.Close()
				delete(ws.clients, u.userID)
				log.Printf("WS unregister user=%d", u.userID)
			}

		case dm := <-ws.direct:
			if conn, ok := ws.clients[dm.userID]; ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := conn.WriteJSON(dm.msg); err != nil {
					log.Printf("direct send error to=%d: %v", dm.userID, err)
					_ = conn.Close()
					delete(ws.clients, dm.userID)
				}
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

// The first frame from the client must be { "userId": <int> }.
func (app *application) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.errorLog.Println("WebSocket upgrade error:", err)
		return
	}

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(firstHelloDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	var hello struct {
		UserID int `json:"userId"`
	}
	if err := conn.ReadJSON(&hello); err != nil || hello.UserID == 0 {
		app.errorLog.Println("invalid hello payload:", err)
		_ = writeClose(conn, websocket.ClosePolicyViolation, "hello required")
		_ = conn.Close()
		return
	}
	conn.SetReadDeadline(time.Now().Add(readDeadline))

	app.wsManager.register <- Client{ID: hello.UserID, Socket: conn}
	if err := app.presence.SetOnline(r.Context(), hello.UserID); err != nil {
		app.errorLog.Println("presence set online:", err)
	}

	go app.pingLoop(conn, hello.UserID)
	go app.readMessages(conn, hello.UserID)
}

func (app *application) pingLoop(conn *websocket.Conn, uid int) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for range t.C {
		_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			_ = writeClose(conn, websocket.CloseGoingAway, "ping error")
			app.wsManager.unregister <- unreg{userID: uid, conn: conn}
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if err := app.presence.Refresh(ctx, uid); err != nil {
			app.errorLog.Println("presence refresh:", err)
		}
		cancel()
	}
}

// readMessages feeds incoming frames through the chat service so the
// session invariants hold for the live path too, then delivers the
// stored message to the receiver's socket.
func (app *application) readMessages(conn *websocket.Conn, userID int) {
	defer func() {
		app.wsManager.unregister <- unreg{userID: userID, conn: conn}
		_ = conn.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if err := app.presence.SetOffline(ctx, userID); err != nil {
			app.errorLog.Println("presence set offline:", err)
		}
		cancel()
	}()

	for {
		var msg models.Message
		if err := conn.ReadJSON(&msg); err != nil {
			_ = writeClose(conn, websocket.CloseNormalClosure, "read error")
			return
		}
		if msg.SenderID != userID {
			app.errorLog.Println("reject: sender_id != authenticated userId")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		chatID := msg.ChatID
		if chatID == 0 {
			chat, err := app.chatService.OpenOrResume(ctx, msg.SenderID, msg.ReceiverID)
			if err != nil {
				cancel()
				app.errorLog.Println("resolve chat error:", err)
				continue
			}
			chatID = chat.ID
		}

		stored, err := app.chatService.PostMessage(ctx, chatID, msg.SenderID, msg.ReceiverID, msg.Content)
		cancel()
		if err != nil {
			app.errorLog.Println("post message error:", err)
			continue
		}

		app.wsManager.direct <- directMsg{userID: stored.ReceiverID, msg: stored}
	}
}

func writeClose(conn *websocket.Conn, code int, reason string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeDeadline),
	)
}
