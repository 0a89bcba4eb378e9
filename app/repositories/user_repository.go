package repositories

import (
	"context"
	"errors"
	"fmt"

	"tagmind/app/models/user"
	"tagmind/pkg/database"

	"gorm.io/gorm"
)

// UserRepository 用户仓库
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建仓库实例
func NewUserRepository() *UserRepository {
	return &UserRepository{
		db: database.DB,
	}
}

// Create 注册用户，邮箱或昵称重复时返回 ErrEmailTaken / ErrNicknameTaken
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	u.Email = user.NormalizeEmail(u.Email)

	if taken, err := r.exists(ctx, "email = ?", u.Email); err != nil {
		return err
	} else if taken {
		return ErrEmailTaken
	}
	if u.Nickname != nil {
		if taken, err := r.exists(ctx, "nickname = ?", *u.Nickname); err != nil {
			return err
		} else if taken {
			return ErrNicknameTaken
		}
	}

	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取用户
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetByEmail 根据邮箱获取用户
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where("email = ?", user.NormalizeEmail(email)).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UpdateNickname 修改昵称，昵称只能属于一个用户
func (r *UserRepository) UpdateNickname(ctx context.Context, userID uint64, nickname string) (*user.User, error) {
	taken, err := r.exists(ctx, "nickname = ? AND id <> ?", nickname, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNicknameTaken
	}

	err = r.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", userID).
		Update("nickname", nickname).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNicknameTaken
		}
		return nil, fmt.Errorf("update nickname: %w", err)
	}
	return r.GetByID(ctx, userID)
}

func (r *UserRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&user.User{}).Where(query, args...).Count(&count).Error
	return count > 0, err
}
