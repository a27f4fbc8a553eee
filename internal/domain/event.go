package domain

const (
	EventNameRoomUpdated    = "room.updated"
	EventNameScoreUpdated   = "score.updated"
	EventNameRoundCompleted = "round.completed"
)

// EventRoomUpdated carries the room snapshot produced by a successful mutator.
type EventRoomUpdated struct {
	State RoomState
}

func (EventRoomUpdated) Name() string { return EventNameRoomUpdated }

// EventScoreUpdated is published whenever a team's score changes.
type EventScoreUpdated struct {
	RoomCode          string
	TeamID            string
	Score             int
	TotalResponseTime int64
}

func (EventScoreUpdated) Name() string { return EventNameScoreUpdated }

// EventRoundCompleted is published when a round reaches COMPLETE, carrying a
// detached copy of the round for archival.
type EventRoundCompleted struct {
	RoomCode string
	Round    Round
}

func (EventRoundCompleted) Name() string { return EventNameRoundCompleted }
