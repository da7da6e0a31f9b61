package repo

import (
	"context"
	"englishtalk/config"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"englishtalk/pkg/store"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TeacherAvatarRepo struct {
	log    *log.Logger
	config *config.Config
	db     *store.MySQL
}

func NewTeacherAvatarRepo(log *log.Logger, config *config.Config, db *store.MySQL) *TeacherAvatarRepo {
	return &TeacherAvatarRepo{
		log:    log.WithModule("TeacherAvatarRepo"),
		config: config,
		db:     db,
	}
}

func (r *TeacherAvatarRepo) enabled() bool {
	return r.db != nil && r.db.DB != nil
}

// Upsert stores the avatar, replacing the previous one for the same teacher.
func (r *TeacherAvatarRepo) Upsert(ctx context.Context, a domain.TeacherAvatar) error {
	if !r.enabled() {
		return domain.ErrStoreDisabled
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "teacher_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "url", "source", "updated_at"}),
	}).Create(&a).Error
	if err != nil {
		return fmt.Errorf("failed to upsert avatar: %w", err)
	}
	return nil
}

func (r *TeacherAvatarRepo) GetByTeacher(ctx context.Context, id domain.TeacherID) (domain.TeacherAvatar, error) {
	var a domain.TeacherAvatar
	if !r.enabled() {
		return a, domain.ErrStoreDisabled
	}
	if err := r.db.WithContext(ctx).Where("teacher_id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TeacherAvatar{}, domain.ErrAvatarNotFound
		}
		return domain.TeacherAvatar{}, fmt.Errorf("failed to get avatar by teacher: %w", err)
	}
	return a, nil
}

func (r *TeacherAvatarRepo) ListAvatars(ctx context.Context) ([]domain.TeacherAvatar, error) {
	if !r.enabled() {
		return nil, domain.ErrStoreDisabled
	}
	var avatars []domain.TeacherAvatar
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&avatars).Error; err != nil {
		return nil, fmt.Errorf("failed to list avatars: %w", err)
	}
	return avatars, nil
}

// DeleteByTeacher drops the stored avatar so the built-in one is served again.
func (r *TeacherAvatarRepo) DeleteByTeacher(ctx context.Context, id domain.TeacherID) error {
	if !r.enabled() {
		return domain.ErrStoreDisabled
	}
	res := r.db.WithContext(ctx).Where("teacher_id = ?", id).Delete(&domain.TeacherAvatar{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete avatar: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAvatarNotFound
	}
	return nil
}
