package usecase

import (
	"context"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"errors"

	"github.com/samber/lo"
)

// TeacherAvatars is where generated avatars are kept.
type TeacherAvatars interface {
	ListAvatars(ctx context.Context) ([]domain.TeacherAvatar, error)
	GetByTeacher(ctx context.Context, id domain.TeacherID) (domain.TeacherAvatar, error)
	DeleteByTeacher(ctx context.Context, id domain.TeacherID) error
}

// CatalogUsecase serves the static catalogs, with generated avatars laid over the built-in ones.
type CatalogUsecase struct {
	l       *log.Logger
	avatars TeacherAvatars
}

func NewCatalogUsecase(l *log.Logger, avatars TeacherAvatars) *CatalogUsecase {
	return &CatalogUsecase{
		l:       l.WithModule("CatalogUsecase"),
		avatars: avatars,
	}
}

func (u *CatalogUsecase) Catalog(ctx context.Context) domain.Catalog {
	return domain.Catalog{
		Teachers: u.Teachers(ctx),
		Topics:   lo.Map(domain.Topics, func(t domain.TopicProfile, _ int) domain.TopicProfile { return t }),
		Levels:   lo.Map(domain.Levels, func(l domain.LevelProfile, _ int) domain.LevelProfile { return l }),
	}
}

// Teachers lists the teachers in catalog order. Stored avatars win over the built-in reference.
func (u *CatalogUsecase) Teachers(ctx context.Context) []domain.TeacherProfile {
	list, err := u.avatars.ListAvatars(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrStoreDisabled) {
			u.l.Warn("list avatars failed, using built-in avatars", log.Error(err))
		}
		list = nil
	}
	stored := lo.KeyBy(
		lo.Filter(list, func(a domain.TeacherAvatar, _ int) bool { return a.URL != "" }),
		func(a domain.TeacherAvatar) domain.TeacherID { return a.TeacherID },
	)
	return lo.Map(domain.Teachers, func(t domain.TeacherProfile, _ int) domain.TeacherProfile {
		if a, ok := stored[t.ID]; ok {
			t.AvatarRef = a.URL
		}
		return t
	})
}

func (u *CatalogUsecase) Teacher(ctx context.Context, id domain.TeacherID) (domain.TeacherProfile, error) {
	t, ok := domain.FindTeacher(id)
	if !ok {
		return domain.TeacherProfile{}, domain.ErrUnknownTeacher
	}
	a, err := u.avatars.GetByTeacher(ctx, id)
	switch {
	case err == nil:
		if a.URL != "" {
			t.AvatarRef = a.URL
		}
	case errors.Is(err, domain.ErrStoreDisabled), errors.Is(err, domain.ErrAvatarNotFound):
	default:
		u.l.Warn("get avatar failed, using built-in avatar", log.String("teacher", string(id)), log.Error(err))
	}
	return t, nil
}

// ResetAvatar forgets the generated avatar of a teacher.
func (u *CatalogUsecase) ResetAvatar(ctx context.Context, id domain.TeacherID) error {
	if _, ok := domain.FindTeacher(id); !ok {
		return domain.ErrUnknownTeacher
	}
	if err := u.avatars.DeleteByTeacher(ctx, id); err != nil {
		return err
	}
	u.l.Info("avatar reset", log.String("teacher", string(id)))
	return nil
}

func (u *CatalogUsecase) Topic(id domain.TopicID) (domain.TopicProfile, error) {
	t, ok := domain.FindTopic(id)
	if !ok {
		return domain.TopicProfile{}, domain.ErrUnknownTopic
	}
	return t, nil
}

func (u *CatalogUsecase) Level(id domain.LevelID) (domain.LevelProfile, error) {
	l, ok := domain.FindLevel(id)
	if !ok {
		return domain.LevelProfile{}, domain.ErrUnknownLevel
	}
	return l, nil
}
