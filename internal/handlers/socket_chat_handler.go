package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"marketChat/internal/enums"
	"marketChat/internal/errs"
	"marketChat/internal/interfaces"
	"marketChat/internal/models"
	redisModels "marketChat/internal/models/redis"
	socketModels "marketChat/internal/models/socket"
	"marketChat/internal/msgs"
	"marketChat/internal/services"
	"marketChat/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

// Handshake authentication happens before the upgrade, inside the HTTP
// request, so the server's header timeout bounds it: a connection either
// resolves to a verified identity within that window or is never upgraded,
// and no half-bound state can exist.

// SocketChatHandler is the delivery gateway: it authenticates inbound
// connections, binds them to the registry, relays client typing/join/leave
// frames, and delivers pushed events arriving on the redis channel to the
// receiver's live connection.
type SocketChatHandler struct {
	ctx         context.Context
	redis       *redis.Client
	upgrader    websocket.Upgrader
	hub         *models.SocketHub
	chatService *services.ChatService
	presence    interfaces.PresenceStore
}

func NewSocketChatHandler(
	redis *redis.Client,
	ctx context.Context,
	hub *models.SocketHub,
	chatService *services.ChatService,
	presence interfaces.PresenceStore,
) *SocketChatHandler {
	return &SocketChatHandler{
		ctx:         ctx,
		redis:       redis,
		hub:         hub,
		chatService: chatService,
		presence:    presence,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (sch *SocketChatHandler) StartSocket() {
	go sch.HandleRedisEvents()
}

// HandleSocketChatRoute authenticates the handshake and, on success, runs
// the connection until it drops. The bearer credential comes from the
// Authorization header or, for browser clients, the token query parameter.
// Absent, malformed or unverifiable credentials reject the connection
// before any binding exists.
func (sch *SocketChatHandler) HandleSocketChatRoute(ctx *gin.Context) {
	jwtToken := strings.TrimPrefix(ctx.Request.Header.Get("Authorization"), "Bearer ")
	if jwtToken == "" {
		jwtToken = ctx.Query("token")
	}
	if jwtToken == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	userInfo, err := utils.VerifyToken(jwtToken, utils.GetJwtKey())
	if err != nil || userInfo.ID == 0 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	sch.HandleConnection(ctx, userInfo)
}

func (sch *SocketChatHandler) HandleConnection(ctx *gin.Context, userInfo *models.Claims) {
	ws, err := sch.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer func(ws *websocket.Conn) {
		if err := ws.Close(); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
	}(ws)

	client := sch.hub.Bind(userInfo.ID, ws)
	defer sch.hub.Unbind(client.ConnectionID)

	if _, _, err := sch.presence.SetUserOnlineStatus(userInfo.ID, true); err != nil {
		log.Printf("Error setting user %v online: %v", userInfo.ID, err)
	}
	defer func() {
		if _, _, err := sch.presence.SetUserOnlineStatus(userInfo.ID, false); err != nil {
			log.Printf("Error setting user %v offline: %v", userInfo.ID, err)
		}
	}()

	// Acknowledge the binding with the identity and connection id the
	// client is now reachable under.
	sch.ack(userInfo.ID, enums.SOCKET_EVENT_CONNECTED, socketModels.ConnectedPayload{
		UserID:       userInfo.ID,
		ConnectionID: client.ConnectionID,
	})

	sch.readLoop(ws, userInfo, client)
}

// readLoop processes client-originated frames until the connection drops,
// for whatever reason. The deferred Unbind in HandleConnection tears the
// binding down unconditionally.
func (sch *SocketChatHandler) readLoop(ws *websocket.Conn, userInfo *models.Claims, client *models.SocketClient) {
	for {
		var event socketModels.SocketEvent
		if err := ws.ReadJSON(&event); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Error reading json from user %v: %v", userInfo.ID, err)
			}
			break
		}

		// A frame from a connection the registry no longer owns (evicted
		// by a newer login) is dropped with an error ack.
		if current, ok := sch.hub.ConnectionOf(userInfo.ID); !ok || current.ConnectionID != client.ConnectionID {
			sch.writeError(ws, errs.ErrUnauthorized)
			break
		}

		switch event.Event {
		case enums.SOCKET_EVENT_TYPING:
			sch.handleTypingEvent(event.Payload, userInfo.ID)
		case enums.SOCKET_EVENT_JOIN_CONVERSATION, enums.SOCKET_EVENT_LEAVE_CONVERSATION:
			sch.handleJoinLeaveEvent(event.Payload, userInfo.ID)
		default:
			log.Printf("Unknown event from user %v: %v", userInfo.ID, event.Event)
			sch.ackError(userInfo.ID, errs.ErrInvalidRequest)
		}
	}
}

func (sch *SocketChatHandler) handleTypingEvent(payload json.RawMessage, userID uint) {
	var typing socketModels.TypingPayload
	if err := json.Unmarshal(payload, &typing); err != nil {
		sch.ackError(userID, errs.ErrInvalidRequest)
		return
	}
	typing.UserID = userID

	if typingErrs := sch.chatService.Typing(typing.ConversationID, userID, typing.IsTyping); len(typingErrs) > 0 {
		log.Printf("Error relaying typing event from user %v: %v", userID, typingErrs)
		sch.ackError(userID, typingErrs[0])
	}
}

func (sch *SocketChatHandler) handleJoinLeaveEvent(payload json.RawMessage, userID uint) {
	var joinLeave socketModels.JoinLeavePayload
	if err := json.Unmarshal(payload, &joinLeave); err != nil {
		sch.ackError(userID, errs.ErrInvalidRequest)
		return
	}

	if !sch.chatService.CheckUserInConversation(userID, joinLeave.ConversationID) {
		sch.ackError(userID, errs.ErrNotParticipant)
		return
	}
	// Membership acknowledged; delivery is keyed per user, so joining a
	// conversation carries no further server-side state.
}

// HandleRedisEvents is the delivering half of the gateway: it drains the
// chat channel and forwards each event to the receiver's bound connection.
// Receivers without a binding are skipped; the durable record is what they
// reconcile against on their next fetch.
func (sch *SocketChatHandler) HandleRedisEvents() {
	pubsub := sch.redis.Subscribe(sch.ctx, redisModels.REDIS_CHANNEL_CHAT)
	if _, err := pubsub.Receive(sch.ctx); err != nil {
		log.Fatalf("Could not subscribe to channel: %v", err)
	}

	for msg := range pubsub.Channel() {
		var event redisModels.RedisPublishedEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("Error unmarshalling event: %v", err)
			continue
		}

		sch.hub.Send(event.ReceiverID, socketModels.SocketEvent{
			Event:   event.Event,
			Payload: event.Payload,
		})
	}
}

func (sch *SocketChatHandler) ack(userID uint, event string, payload interface{}) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling %v ack: %v", event, err)
		return
	}
	sch.hub.Send(userID, socketModels.SocketEvent{
		Event:   event,
		Payload: jsonPayload,
	})
}

// ackError reports a rejected frame back over the sender's bound
// connection.
func (sch *SocketChatHandler) ackError(userID uint, cause error) {
	sch.ack(userID, enums.SOCKET_EVENT_ERROR, socketModels.ErrorPayload{Error: cause.Error()})
}

// writeError targets a connection the registry no longer owns, so the write
// cannot race the hub's delivery path.
func (sch *SocketChatHandler) writeError(ws *websocket.Conn, cause error) {
	jsonPayload, err := json.Marshal(socketModels.ErrorPayload{Error: cause.Error()})
	if err != nil {
		return
	}
	if err := ws.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return
	}
	if err := ws.WriteJSON(socketModels.SocketEvent{
		Event:   enums.SOCKET_EVENT_ERROR,
		Payload: jsonPayload,
	}); err != nil {
		log.Printf("Error writing error ack: %v", err)
	}
}
