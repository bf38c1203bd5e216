package postgres

import (
	"context"
	"strings"

	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]*domain.User, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		if filter.Role != nil {
			return db.Where("role = ?", *filter.Role)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*domain.User
	err := r.db.WithContext(ctx).
		Scopes(where, paginate(filter.Page)).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admins, err := lockAdmins(tx)
		if err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", id).Error; err != nil {
			return err
		}

		if user.IsAdmin() && role != domain.RoleAdmin && admins <= 1 {
			return domain.ErrLastAdmin
		}

		if err := tx.Model(&user).Update("role", role).Error; err != nil {
			return err
		}
		user.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.User, bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND is_active = ?", id, !active).
		Update("is_active", active)
	if result.Error != nil {
		return nil, false, result.Error
	}

	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return user, result.RowsAffected > 0, nil
}

func (r *userRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (*domain.User, []*domain.News, error) {
	var user domain.User
	var news []*domain.News

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admins, err := lockAdmins(tx)
		if err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", id).Error; err != nil {
			return err
		}

		if user.IsAdmin() && admins <= 1 {
			return domain.ErrLastAdmin
		}

		if err := tx.Where("author_id = ?", id).Find(&news).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&domain.News{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &user, news, nil
}

// lockAdmins takes row locks on every admin in id order and returns how many
// there are. Role changes and deletions both go through it first, so they
// serialize on the admin set without deadlocking each other.
func lockAdmins(tx *gorm.DB) (int, error) {
	var ids []uuid.UUID
	err := tx.Model(&domain.User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("role = ?", domain.RoleAdmin).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func paginate(page repository.Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page.Limit <= 0 {
			return db
		}
		return db.Limit(page.Limit).Offset(page.Offset)
	}
}
