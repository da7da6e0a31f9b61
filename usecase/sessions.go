package usecase

import (
	"context"
	"englishtalk/config"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"englishtalk/repo"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SessionUsecase creates sessions, runs their controller loops and evicts idle ones.
type SessionUsecase struct {
	l        *log.Logger
	config   *config.Config
	repo     *repo.SessionRepo
	dialogue *DialogueClient

	ctx    context.Context
	cancel context.CancelFunc
	g      *errgroup.Group
}

func NewSessionUsecase(l *log.Logger, c *config.Config, r *repo.SessionRepo, dialogue *DialogueClient) *SessionUsecase {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	return &SessionUsecase{
		l:        l.WithModule("SessionUsecase"),
		config:   c,
		repo:     r,
		dialogue: dialogue,
		ctx:      ctx,
		cancel:   cancel,
		g:        g,
	}
}

func (u *SessionUsecase) Create(ctx context.Context) (*Controller, error) {
	if err := u.ctx.Err(); err != nil {
		return nil, domain.ErrSessionClosed
	}
	s := NewSession(uuid.NewString(), time.Now())
	ctrl := NewController(u.l, u.config, s, u.dialogue)
	if err := u.repo.Create(ctrl); err != nil {
		return nil, err
	}
	u.g.Go(func() error {
		return ctrl.Run(u.ctx)
	})
	u.l.Info("session created", log.String("session", s.ID), log.Int("live", u.repo.Len()))
	return ctrl, nil
}

func (u *SessionUsecase) Get(ctx context.Context, id string) (*Controller, error) {
	s, err := u.repo.Get(id)
	if err != nil {
		return nil, err
	}
	ctrl, ok := s.(*Controller)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return ctrl, nil
}

func (u *SessionUsecase) Delete(ctx context.Context, id string) error {
	s, ok := u.repo.Delete(id)
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.Close()
	u.l.Info("session deleted", log.String("session", id))
	return nil
}

// Sweep closes sessions idle longer than session.idle_ttl and returns how many went.
func (u *SessionUsecase) Sweep(now time.Time) int {
	ttl := u.config.Session.IdleTTL
	n := 0
	u.repo.Range(func(s repo.LiveSession) bool {
		if now.Sub(s.LastActive()) <= ttl {
			return true
		}
		if _, ok := u.repo.Delete(s.ID()); ok {
			s.Close()
			n++
		}
		return true
	})
	if n > 0 {
		u.l.Info("evicted idle sessions", log.Int("count", n), log.Int("live", u.repo.Len()))
	}
	return n
}

// RunSweeper sweeps every session.sweep_interval until ctx is done.
func (u *SessionUsecase) RunSweeper(ctx context.Context) error {
	ticker := time.NewTicker(u.config.Session.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			u.Sweep(now)
		}
	}
}

// Close stops every controller loop and waits for them.
func (u *SessionUsecase) Close() error {
	u.cancel()
	u.repo.Range(func(s repo.LiveSession) bool {
		if _, ok := u.repo.Delete(s.ID()); ok {
			s.Close()
		}
		return true
	})
	return u.g.Wait()
}

func (u *SessionUsecase) Len() int {
	return u.repo.Len()
}
