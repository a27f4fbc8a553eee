// Package api is the transport boundary: HTTP routes for room management and
// a websocket gateway that turns inbound client intents into core operations
// and fans room snapshots back out. The core never talks to clients itself;
// everything observable leaves through here.
package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/errors"
	"github.com/duoquiz/duoquiz/internal/event"
	"github.com/duoquiz/duoquiz/internal/game"
	"github.com/duoquiz/duoquiz/internal/roomcode"
	"github.com/duoquiz/duoquiz/internal/standings"
)

const roomCodeLength = 4

var intentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "duoquiz_intents_total",
	Help: "Inbound websocket intents by type.",
}, []string{"type"})

type Config struct {
	Game         *game.Service
	Standings    *standings.Service
	EventBus     *event.Bus
	Redis        Redis
	PubsubPrefix string

	// PublicURL is the externally reachable base URL, used in join QR codes.
	PublicURL string
}

type Redis interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type Gateway struct {
	game      *game.Service
	standings *standings.Service
	redis     Redis
	prefix    string
	publicURL string

	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

func New(c Config) *Gateway {
	g := &Gateway{
		game:      c.Game,
		standings: c.Standings,
		redis:     c.Redis,
		prefix:    c.PubsubPrefix,
		publicURL: c.PublicURL,
		rooms:     make(map[string]map[*client]struct{}),
	}

	c.EventBus.Subscribe(domain.EventNameRoomUpdated, func(ctx context.Context, e event.Event) error {
		return g.onRoomUpdated(ctx, e.(domain.EventRoomUpdated))
	})

	return g
}

// Register mounts the gateway's routes.
func (g *Gateway) Register(e *gin.Engine) {
	e.POST("/api/rooms", g.createRoom)
	e.GET("/api/rooms", g.listRooms)
	e.GET("/api/rooms/:code", g.getRoom)
	e.GET("/api/rooms/:code/standings", g.getStandings)
	e.GET("/api/rooms/:code/qr", g.getJoinQR)
	e.GET("/ws/:code", g.serveWS)
}

func (g *Gateway) createRoom(c *gin.Context) {
	code, err := roomcode.New(roomCodeLength)
	if err != nil {
		abortWithError(c, err)
		return
	}

	// Regenerate on the rare collision with a live room.
	for g.game.HasRoom(code) {
		if code, err = roomcode.New(roomCodeLength); err != nil {
			abortWithError(c, err)
			return
		}
	}

	st := g.game.InitializeRoom(c.Request.Context(), code)

	c.JSON(http.StatusCreated, gin.H{"room": st})
}

func (g *Gateway) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": g.game.ActiveRooms()})
}

func (g *Gateway) getRoom(c *gin.Context) {
	st, err := g.game.RoomState(c.Param("code"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": st})
}

func (g *Gateway) getStandings(c *gin.Context) {
	entries, err := g.standings.GetStandings(c.Request.Context(), standings.GetStandingsRequest{
		RoomCode: c.Param("code"),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"standings": entries})
}

func (g *Gateway) getJoinQR(c *gin.Context) {
	code := c.Param("code")
	if !g.game.HasRoom(code) {
		abortWithError(c, errors.New(errors.CodeNotFound,
			errors.WithMessagef("room %q does not exist", code)))
		return
	}

	png, err := qrcode.Encode(g.publicURL+"/join/"+code, qrcode.Medium, 256)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func abortWithError(c *gin.Context, err error) {
	e := errors.Convert(err)
	c.JSON(e.HTTPStatusCode(), gin.H{"error": e})
}

// register attaches a websocket client to its room's broadcast set.
func (g *Gateway) register(cl *client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	set, ok := g.rooms[cl.roomCode]
	if !ok {
		set = make(map[*client]struct{})
		g.rooms[cl.roomCode] = set
	}
	set[cl] = struct{}{}
}

func (g *Gateway) unregister(cl *client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if set, ok := g.rooms[cl.roomCode]; ok {
		delete(set, cl)
		if len(set) == 0 {
			delete(g.rooms, cl.roomCode)
		}
	}
}
