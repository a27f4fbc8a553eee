// Package archive persists completed rounds to postgres. It is write-behind:
// the core publishes round.completed events, the archive inserts a durable
// record and hands the assigned id back through the core's sole write-back
// hook. Archival failure never fails a live session.
package archive

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duoquiz/duoquiz/internal/domain"
	"github.com/duoquiz/duoquiz/internal/event"
	"github.com/duoquiz/duoquiz/internal/game"
)

type Config struct {
	EventBus *event.Bus
	DB       *pgxpool.Pool
	Game     *game.Service
}

type Service struct {
	eb   *event.Bus
	db   *pgxpool.Pool
	game *game.Service
}

func NewService(c Config) *Service {
	s := &Service{
		eb:   c.EventBus,
		db:   c.DB,
		game: c.Game,
	}

	s.eb.Subscribe(domain.EventNameRoundCompleted, func(ctx context.Context, e event.Event) error {
		return s.ArchiveRound(ctx, e.(domain.EventRoundCompleted))
	})

	return s
}

// ArchiveRound writes one completed round and its answers, then records the
// durable id on the live session.
func (s *Service) ArchiveRound(ctx context.Context, e domain.EventRoundCompleted) error {
	id, err := s.insertRound(ctx, e.RoomCode, e.Round)
	if err != nil {
		return fmt.Errorf("archive round %d of room %q: %w", e.Round.RoundNumber, e.RoomCode, err)
	}

	s.game.SetCurrentRoundID(ctx, e.RoomCode, id)

	return nil
}

func (s *Service) insertRound(ctx context.Context, roomCode string, rd domain.Round) (_ string, err error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate round ID: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = stderrors.Join(err, tx.Rollback(ctx))
		}
	}()

	const (
		insRoundStmt = `
INSERT INTO rounds (round_id, room_code, round_number, question, variant, answer_for_both, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);`
		insAnswerStmt = `
INSERT INTO round_answers (round_id, player_name, answer, response_time_ms)
VALUES ($1, $2, $3, $4);`
	)

	_, err = tx.Exec(ctx, insRoundStmt,
		id, roomCode, rd.RoundNumber, rd.Question, string(rd.Variant), rd.AnswerForBoth, rd.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert round: %w", err)
	}

	for name, a := range rd.Answers {
		_, err = tx.Exec(ctx, insAnswerStmt, id, name, a.Text, a.ResponseTime)
		if err != nil {
			return "", fmt.Errorf("insert answer for %q: %w", name, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return "", err
	}

	return id.String(), nil
}
