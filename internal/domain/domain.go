package domain

import (
	"time"

	"github.com/duoquiz/duoquiz/internal/questionset"
)

// RoomStatus is the lifecycle status of a room's game session.
type RoomStatus string

const (
	RoomLobby   RoomStatus = "LOBBY"
	RoomPlaying RoomStatus = "PLAYING"
	RoomScoring RoomStatus = "SCORING"
	RoomEnded   RoomStatus = "ENDED"
)

// Variant is the answer-collection mode of a round.
type Variant string

const (
	VariantOpenEnded      Variant = "OPEN_ENDED"
	VariantMultipleChoice Variant = "MULTIPLE_CHOICE"
	VariantBinary         Variant = "BINARY"
	VariantPoolSelection  Variant = "POOL_SELECTION"
)

// RoundStatus is the submission gate of the current round.
type RoundStatus string

const (
	RoundAnswering RoundStatus = "ANSWERING"
	RoundSelecting RoundStatus = "SELECTING"
	RoundComplete  RoundStatus = "COMPLETE"
)

// UnmeasuredResponseTime marks an answer whose response time was not reported.
// It is excluded from team response-time accumulation.
const UnmeasuredResponseTime int64 = -1

// Player is one participant in a room. Name is the durable identity: answers,
// picks and scoring key on it. SocketID is the volatile transport identity and
// is rewritten on reconnect.
type Player struct {
	SocketID  string `json:"socketId"`
	Name      string `json:"name"`
	PartnerID string `json:"partnerId,omitempty"`
	TeamID    string `json:"teamId,omitempty"`
	Connected bool   `json:"connected"`
	Avatar    string `json:"avatar,omitempty"`
}

// Paired reports whether the player belongs to a team. PartnerID and TeamID
// are always both set or both empty.
func (p *Player) Paired() bool {
	return p.TeamID != ""
}

// Team is a symmetric pairing of two players sharing one score.
type Team struct {
	TeamID    string `json:"teamId"`
	Player1ID string `json:"player1Id"`
	Player2ID string `json:"player2Id"`
	Score     int    `json:"score"`
}

// Answer is one player's submitted answer for the current round.
type Answer struct {
	Text         string `json:"text"`
	ResponseTime int64  `json:"responseTime"`
}

// Round is the current question cycle of a room. Answers and the ordered
// submission sets key on player name, so transport-identity churn never loses
// round progress. CreatedAt is stamped once at round start and never mutated;
// clients derive elapsed and remaining time from it.
type Round struct {
	RoundNumber    int               `json:"roundNumber"`
	RoundID        string            `json:"roundId,omitempty"`
	Question       string            `json:"question"`
	Variant        Variant           `json:"variant"`
	Options        []string          `json:"options,omitempty"`
	AnswerForBoth  bool              `json:"answerForBoth"`
	Status         RoundStatus       `json:"status"`
	Answers        map[string]Answer `json:"answers"`
	Submitted      []string          `json:"submitted"`
	Picks          map[string]string `json:"picks,omitempty"`
	PicksSubmitted []string          `json:"picksSubmitted,omitempty"`
	AnswerPool     []string          `json:"answerPool,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`

	// TimeAccumulated tracks, per team, the response-time contribution this
	// round has already added to the session aggregate. A reopened round may
	// complete again; only the delta is applied.
	TimeAccumulated map[string]int64 `json:"-"`
}

// HasSubmitted reports whether name is already in the current phase's ordered
// submission set.
func (r *Round) HasSubmitted(name string) bool {
	for _, n := range r.Submitted {
		if n == name {
			return true
		}
	}
	return false
}

// HasPicked reports whether name already submitted a pool pick.
func (r *Round) HasPicked(name string) bool {
	for _, n := range r.PicksSubmitted {
		if n == name {
			return true
		}
	}
	return false
}

// Cursor addresses one question inside an imported question set.
type Cursor struct {
	Chapter  int `json:"chapter"`
	Question int `json:"question"`
}

// Room is the authoritative game session for one room code. It is owned by
// the game service and mutated only under its lock.
type Room struct {
	Code              string
	Status            RoomStatus
	Host              *Player
	Players           []*Player
	Teams             []*Team
	CurrentRound      *Round
	LastRoundNumber   int
	Stage             RoundPhase
	TeamResponseTimes map[string]int64
	QuestionSet       *questionset.Set
	Cursor            *Cursor
}

// FindPlayerBySocket resolves a transport identity to a player, nil if absent.
func (r *Room) FindPlayerBySocket(socketID string) *Player {
	for _, p := range r.Players {
		if p.SocketID == socketID {
			return p
		}
	}
	return nil
}

// FindPlayerByName resolves a durable name identity to a player, nil if absent.
func (r *Room) FindPlayerByName(name string) *Player {
	for _, p := range r.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// FindTeam resolves a team id, nil if absent.
func (r *Room) FindTeam(teamID string) *Team {
	for _, t := range r.Teams {
		if t.TeamID == teamID {
			return t
		}
	}
	return nil
}
