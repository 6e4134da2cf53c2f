package gallery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/easel/internal/kv"
	"github.com/five82/easel/internal/likes"
)

// ErrLocalMutation wraps failures to persist the liked set.
var ErrLocalMutation = errors.New("local like state not saved")

// Liker submits likes to the remote service.
type Liker interface {
	SubmitLike(ctx context.Context, id string) error
}

// Level classifies a notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelWarning
	LevelError
)

// Notification is a transient message for the user.
type Notification struct {
	Level   Level
	Message string
	ImageID string
	Err     error
	At      time.Time
}

const (
	msgLiked      = "Liked successfully :)"
	msgLikeFailed = "Error liking image :("
	msgUnliked    = "Your like was successfully removed :)"
	msgNotSaved   = "Couldn't save your likes locally"
)

// Service applies like/unlike actions to the liked set.
type Service struct {
	liker Liker
	set   *likes.Set
	store kv.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewService wires the remote liker, the in-memory set and its storage.
func NewService(liker Liker, set *likes.Set, store kv.Store, log zerolog.Logger) *Service {
	return &Service{liker: liker, set: set, store: store, log: log, now: time.Now}
}

// Liked returns the liked set.
func (s *Service) Liked() *likes.Set {
	return s.set
}

// Like submits the like and, only after the service confirms it, adds id to
// the set. A transport failure leaves the set unchanged.
func (s *Service) Like(ctx context.Context, id string) Notification {
	if err := s.liker.SubmitLike(ctx, id); err != nil {
		s.log.Error().Err(err).Str("image", id).Msg("like failed")
		return s.notify(LevelError, msgLikeFailed, id, err)
	}
	s.set.Add(id)
	if err := s.persist(); err != nil {
		s.log.Error().Err(err).Str("image", id).Msg("like confirmed but not saved")
		return s.notify(LevelWarning, msgNotSaved, id, err)
	}
	s.log.Info().Str("image", id).Msg("liked")
	return s.notify(LevelSuccess, msgLiked, id, nil)
}

// Unlike removes id from the set. There is no remote call; the removal
// itself cannot fail and is a no-op for ids not in the set.
func (s *Service) Unlike(id string) Notification {
	s.set.Remove(id)
	if err := s.persist(); err != nil {
		s.log.Error().Err(err).Str("image", id).Msg("unlike not saved")
		return s.notify(LevelWarning, msgNotSaved, id, err)
	}
	s.log.Info().Str("image", id).Msg("unliked")
	return s.notify(LevelSuccess, msgUnliked, id, nil)
}

// Toggle flips the state the user sees: an image shown as liked is unliked,
// anything else is liked. The displayed flag can differ from set membership
// when search results are shown verbatim.
func (s *Service) Toggle(ctx context.Context, id string, shownLiked bool) Notification {
	if shownLiked {
		return s.Unlike(id)
	}
	return s.Like(ctx, id)
}

func (s *Service) persist() error {
	if s.store == nil {
		return nil
	}
	if err := likes.Save(s.store, s.set); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalMutation, err)
	}
	return nil
}

func (s *Service) notify(level Level, msg, id string, err error) Notification {
	return Notification{Level: level, Message: msg, ImageID: id, Err: err, At: s.now()}
}
