package usecase

import (
	"context"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAvatars serves list and lookups from the same slice; err overrides every answer.
type fakeAvatars struct {
	list    []domain.TeacherAvatar
	err     error
	deleted []domain.TeacherID
}

func (f *fakeAvatars) ListAvatars(ctx context.Context) ([]domain.TeacherAvatar, error) {
	return f.list, f.err
}

func (f *fakeAvatars) GetByTeacher(ctx context.Context, id domain.TeacherID) (domain.TeacherAvatar, error) {
	if f.err != nil {
		return domain.TeacherAvatar{}, f.err
	}
	for _, a := range f.list {
		if a.TeacherID == id {
			return a, nil
		}
	}
	return domain.TeacherAvatar{}, domain.ErrAvatarNotFound
}

func (f *fakeAvatars) DeleteByTeacher(ctx context.Context, id domain.TeacherID) error {
	if f.err != nil {
		return f.err
	}
	for i, a := range f.list {
		if a.TeacherID == id {
			f.list = append(f.list[:i], f.list[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return domain.ErrAvatarNotFound
}

func TestCatalogBuiltIn(t *testing.T) {
	u := NewCatalogUsecase(log.Discard(), &fakeAvatars{err: domain.ErrStoreDisabled})

	c := u.Catalog(context.Background())
	assert.Equal(t, domain.Teachers, c.Teachers)
	assert.Equal(t, domain.Topics, c.Topics)
	assert.Equal(t, domain.Levels, c.Levels)
}

func TestCatalogStoredAvatarsWin(t *testing.T) {
	u := NewCatalogUsecase(log.Discard(), &fakeAvatars{list: []domain.TeacherAvatar{
		{TeacherID: domain.TeacherJames, URL: "https://oss.example.com/james.png"},
		{TeacherID: domain.TeacherSofia, URL: ""},
	}})

	teachers := u.Teachers(context.Background())
	require.Len(t, teachers, len(domain.Teachers))
	assert.Equal(t, "https://oss.example.com/james.png", teachers[1].AvatarRef)
	assert.Equal(t, domain.Teachers[2].AvatarRef, teachers[2].AvatarRef)
	assert.Equal(t, domain.Teachers[0].AvatarRef, teachers[0].AvatarRef)

	// the built-in table is untouched
	assert.NotEqual(t, "https://oss.example.com/james.png", domain.Teachers[1].AvatarRef)
}

func TestCatalogFallsBackOnStoreError(t *testing.T) {
	u := NewCatalogUsecase(log.Discard(), &fakeAvatars{err: errors.New("connection refused")})
	assert.Equal(t, domain.Teachers, u.Teachers(context.Background()))

	james, err := u.Teacher(context.Background(), domain.TeacherJames)
	require.NoError(t, err)
	assert.Equal(t, domain.Teachers[1], james)
}

func TestCatalogLookups(t *testing.T) {
	u := NewCatalogUsecase(log.Discard(), &fakeAvatars{list: []domain.TeacherAvatar{
		{TeacherID: domain.TeacherJames, URL: "https://oss.example.com/james.png"},
	}})

	teacher, err := u.Teacher(context.Background(), domain.TeacherAlex)
	require.NoError(t, err)
	assert.Equal(t, "Alex", teacher.Name)
	assert.Equal(t, domain.Teachers[3].AvatarRef, teacher.AvatarRef)
	james, err := u.Teacher(context.Background(), domain.TeacherJames)
	require.NoError(t, err)
	assert.Equal(t, "https://oss.example.com/james.png", james.AvatarRef)
	_, err = u.Teacher(context.Background(), "teacher9")
	assert.ErrorIs(t, err, domain.ErrUnknownTeacher)

	topic, err := u.Topic(domain.TopicPresentation)
	require.NoError(t, err)
	assert.Equal(t, "Presentation", topic.Name)
	_, err = u.Topic("cooking")
	assert.ErrorIs(t, err, domain.ErrUnknownTopic)

	level, err := u.Level(domain.LevelAdvanced)
	require.NoError(t, err)
	assert.Equal(t, "Advanced", level.Label)
	_, err = u.Level("master")
	assert.ErrorIs(t, err, domain.ErrUnknownLevel)
}

func TestCatalogResetAvatar(t *testing.T) {
	avatars := &fakeAvatars{list: []domain.TeacherAvatar{
		{TeacherID: domain.TeacherJames, URL: "https://oss.example.com/james.png"},
	}}
	u := NewCatalogUsecase(log.Discard(), avatars)
	ctx := context.Background()

	require.NoError(t, u.ResetAvatar(ctx, domain.TeacherJames))
	assert.Equal(t, []domain.TeacherID{domain.TeacherJames}, avatars.deleted)
	james, err := u.Teacher(ctx, domain.TeacherJames)
	require.NoError(t, err)
	assert.Equal(t, domain.Teachers[1].AvatarRef, james.AvatarRef)

	assert.ErrorIs(t, u.ResetAvatar(ctx, domain.TeacherJames), domain.ErrAvatarNotFound)
	assert.ErrorIs(t, u.ResetAvatar(ctx, "teacher9"), domain.ErrUnknownTeacher)
	assert.Len(t, avatars.deleted, 1)
}
