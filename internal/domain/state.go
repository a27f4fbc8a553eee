package domain

// RoomState is the observable snapshot of a room, detached from the live
// session so it can be marshalled and broadcast after the store's lock is
// released. Mutators return it; the core never pushes it outward itself.
type RoomState struct {
	Code              string           `json:"code"`
	Status            RoomStatus       `json:"status"`
	Stage             RoundPhase       `json:"stage"`
	Host              *Player          `json:"host,omitempty"`
	Players           []Player         `json:"players"`
	Teams             []Team           `json:"teams"`
	Round             *Round           `json:"round,omitempty"`
	LastRoundNumber   int              `json:"lastRoundNumber"`
	TeamResponseTimes map[string]int64 `json:"teamResponseTimes,omitempty"`
	QuestionSetTitle  string           `json:"questionSetTitle,omitempty"`
	Cursor            *Cursor          `json:"cursor,omitempty"`
}

// State deep-copies the room into a snapshot.
func (r *Room) State() RoomState {
	st := RoomState{
		Code:            r.Code,
		Status:          r.Status,
		Stage:           r.Stage,
		Players:         make([]Player, 0, len(r.Players)),
		Teams:           make([]Team, 0, len(r.Teams)),
		LastRoundNumber: r.LastRoundNumber,
	}

	if r.Host != nil {
		h := *r.Host
		st.Host = &h
	}
	for _, p := range r.Players {
		st.Players = append(st.Players, *p)
	}
	for _, t := range r.Teams {
		st.Teams = append(st.Teams, *t)
	}
	if r.CurrentRound != nil {
		st.Round = copyRound(r.CurrentRound)
	}
	if len(r.TeamResponseTimes) > 0 {
		st.TeamResponseTimes = make(map[string]int64, len(r.TeamResponseTimes))
		for k, v := range r.TeamResponseTimes {
			st.TeamResponseTimes[k] = v
		}
	}
	if r.QuestionSet != nil {
		st.QuestionSetTitle = r.QuestionSet.Title
	}
	if r.Cursor != nil {
		c := *r.Cursor
		st.Cursor = &c
	}

	return st
}

func copyRound(r *Round) *Round {
	cp := *r

	cp.Answers = make(map[string]Answer, len(r.Answers))
	for k, v := range r.Answers {
		cp.Answers[k] = v
	}
	cp.Submitted = append([]string(nil), r.Submitted...)
	if r.Options != nil {
		cp.Options = append([]string(nil), r.Options...)
	}
	if r.Picks != nil {
		cp.Picks = make(map[string]string, len(r.Picks))
		for k, v := range r.Picks {
			cp.Picks[k] = v
		}
	}
	if r.PicksSubmitted != nil {
		cp.PicksSubmitted = append([]string(nil), r.PicksSubmitted...)
	}
	if r.AnswerPool != nil {
		cp.AnswerPool = append([]string(nil), r.AnswerPool...)
	}
	if r.TimeAccumulated != nil {
		cp.TimeAccumulated = make(map[string]int64, len(r.TimeAccumulated))
		for k, v := range r.TimeAccumulated {
			cp.TimeAccumulated[k] = v
		}
	}

	return &cp
}
