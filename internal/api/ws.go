package api

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/errors"
	"github.com/duoquiz/duoquiz/internal/game"
	"github.com/duoquiz/duoquiz/internal/questionset"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// avatars is the cosmetic pool new players draw from.
var avatars = []string{
	"fox", "owl", "bear", "lynx", "otter", "crow",
	"hare", "wolf", "seal", "ibis", "newt", "wren",
}

// Intent is one inbound client message. Type selects the operation; the other
// fields are read as that operation needs them.
type Intent struct {
	Type          string            `json:"type"`
	Name          string            `json:"name,omitempty"`
	IsHost        bool              `json:"isHost,omitempty"`
	PartnerID     string            `json:"partnerId,omitempty"`
	Question      string            `json:"question,omitempty"`
	Variant       string            `json:"variant,omitempty"`
	Options       []string          `json:"options,omitempty"`
	AnswerForBoth bool              `json:"answerForBoth,omitempty"`
	Text          string            `json:"text,omitempty"`
	ResponseTime  *int64            `json:"responseTime,omitempty"`
	Pick          string            `json:"pick,omitempty"`
	TeamID        string            `json:"teamId,omitempty"`
	Delta         int               `json:"delta,omitempty"`
	QuestionSet   *questionset.Set  `json:"questionSet,omitempty"`
}

// Notification is one outbound message.
type Notification struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// RoomStatePayload is the data of a room.state notification. RoundComplete
// lets the host UI advance without polling.
type RoomStatePayload struct {
	State         domain.RoomState `json:"state"`
	RoundComplete bool             `json:"roundComplete"`
}

type client struct {
	gw       *Gateway
	conn     *websocket.Conn
	send     chan Notification
	socketID string
	roomCode string
	isHost   bool
	joined   bool
}

func (g *Gateway) serveWS(c *gin.Context) {
	roomCode := c.Param("code")
	if !g.game.HasRoom(roomCode) {
		abortWithError(c, errors.New(errors.CodeNotFound,
			errors.WithMessagef("room %q does not exist", roomCode)))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "api: websocket upgrade failed", "error", err)
		return
	}

	cl := &client{
		gw:       g,
		conn:     conn,
		send:     make(chan Notification, 16),
		socketID: uuid.NewString(),
		roomCode: roomCode,
	}

	g.register(cl)

	cl.trySend(Notification{Event: "welcome", Data: gin.H{"socketId": cl.socketID}})

	go cl.writePump()
	cl.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.gw.unregister(c)
		close(c.send)
		_ = c.conn.Close()
		c.gw.dropConnection(c)
	}()

	for {
		var in Intent
		if err := c.conn.ReadJSON(&in); err != nil {
			return
		}
		c.gw.dispatch(context.Background(), c, in)
	}
}

func (c *client) writePump() {
	for n := range c.send {
		if err := c.conn.WriteJSON(n); err != nil {
			return
		}
	}
}

// trySend drops the message when the client's buffer is full rather than
// blocking the caller.
func (c *client) trySend(n Notification) {
	select {
	case c.send <- n:
	default:
	}
}

// dropConnection marks a vanished client as disconnected in the core. The
// player record survives; a later reconnect intent under the same name picks
// it back up on a fresh socket id.
func (g *Gateway) dropConnection(c *client) {
	if !c.joined {
		return
	}

	ctx := context.Background()
	if c.isHost {
		g.game.DisconnectHost(ctx, c.roomCode)
	} else {
		g.game.DisconnectPlayer(ctx, c.roomCode, c.socketID)
	}
}

func (g *Gateway) dispatch(ctx context.Context, c *client, in Intent) {
	intentsTotal.WithLabelValues(in.Type).Inc()

	var err error

	switch in.Type {
	case "join":
		if !in.IsHost && !g.game.CanJoinAsNew(c.roomCode) {
			err = errors.New(errors.CodeFailedPrecondition,
				errors.WithMessagef("room %q already started, reconnect with an existing name", c.roomCode))
			break
		}
		_, err = g.game.AddPlayer(ctx, game.AddPlayerRequest{
			RoomCode: c.roomCode,
			SocketID: c.socketID,
			Name:     in.Name,
			Avatar:   avatars[rand.Intn(len(avatars))],
			IsHost:   in.IsHost,
		})
		if err == nil {
			c.joined = true
			c.isHost = in.IsHost
		}

	case "reconnect":
		if in.IsHost {
			_, err = g.game.ReconnectHost(ctx, c.roomCode, c.socketID)
		} else {
			_, err = g.game.ReconnectPlayer(ctx, game.ReconnectPlayerRequest{
				RoomCode:    c.roomCode,
				Name:        in.Name,
				NewSocketID: c.socketID,
			})
		}
		if err == nil {
			c.joined = true
			c.isHost = in.IsHost
		}

	case "leave":
		g.game.RemovePlayer(ctx, c.roomCode, c.socketID)
		c.joined = false

	case "pair":
		_, err = g.game.PairPlayers(ctx, game.PairPlayersRequest{
			RoomCode: c.roomCode,
			PlayerA:  c.socketID,
			PlayerB:  in.PartnerID,
		})

	case "unpair":
		g.game.UnpairPlayers(ctx, c.roomCode, c.socketID)

	case "start_game":
		_, err = g.game.StartGame(ctx, c.roomCode)

	case "end_game":
		_, err = g.game.EndGame(ctx, c.roomCode)

	case "start_round":
		_, err = g.game.StartRound(ctx, game.StartRoundRequest{
			RoomCode:      c.roomCode,
			Question:      in.Question,
			Variant:       domain.Variant(in.Variant),
			Options:       in.Options,
			AnswerForBoth: in.AnswerForBoth,
		})

	case "submit_answer":
		_, err = g.game.SubmitAnswer(ctx, game.SubmitAnswerRequest{
			RoomCode:     c.roomCode,
			SocketID:     c.socketID,
			Text:         in.Text,
			ResponseTime: in.ResponseTime,
		})

	case "start_selecting":
		_, err = g.game.StartSelecting(ctx, c.roomCode)

	case "submit_pick":
		_, err = g.game.SubmitPick(ctx, game.SubmitPickRequest{
			RoomCode: c.roomCode,
			SocketID: c.socketID,
			Pick:     in.Pick,
		})

	case "open_scoring":
		_, err = g.game.OpenScoring(ctx, c.roomCode)

	case "return_to_answering":
		_, err = g.game.ReturnToAnswering(ctx, c.roomCode)

	case "complete_round":
		_, err = g.game.CompleteRound(ctx, c.roomCode)

	case "next_round":
		_, err = g.game.NextRound(ctx, c.roomCode)

	case "reset_question":
		_, err = g.game.ResetQuestion(ctx, c.roomCode)

	case "restart_question":
		_, err = g.game.RestartQuestion(ctx, c.roomCode)

	case "update_score":
		_, err = g.game.UpdateTeamScore(ctx, game.UpdateTeamScoreRequest{
			RoomCode: c.roomCode,
			TeamID:   in.TeamID,
			Delta:    in.Delta,
		})

	case "return_to_playing":
		g.game.ReturnToPlaying(ctx, c.roomCode)

	case "load_question_set":
		if in.QuestionSet == nil {
			err = errors.New(errors.CodeInvalidArgument,
				errors.WithMessagef("load_question_set needs a questionSet payload"))
			break
		}
		_, err = g.game.LoadQuestionSet(ctx, game.LoadQuestionSetRequest{
			RoomCode: c.roomCode,
			Set:      *in.QuestionSet,
		})

	case "reveal_chapter":
		_, err = g.game.RevealChapter(ctx, c.roomCode)

	case "reveal_variant":
		_, err = g.game.RevealVariant(ctx, c.roomCode)

	case "start_cursor_round":
		_, err = g.game.StartCursorRound(ctx, c.roomCode)

	case "skip_question":
		_, err = g.game.SkipQuestion(ctx, c.roomCode)

	case "previous_question":
		_, err = g.game.PreviousQuestion(ctx, c.roomCode)

	default:
		err = errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("unknown intent type %q", in.Type))
	}

	// Failures go to the sender only; successful mutations reach the whole
	// room through the room.updated subscription.
	if err != nil {
		c.trySend(Notification{Event: "error", Data: errors.Convert(err)})
	}
}
