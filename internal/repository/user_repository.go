package repository

import (
	"context"
	"net/url"

	"github.com/haiminh-dev/drivemaster/internal/model"
)

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

type userRepository struct {
	client *Client
}

func NewUserRepository(client *Client) UserRepository {
	return &userRepository{client: client}
}

// FindByUsername returns nil when no account matches.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := url.Values{"username": {username}}
	var users []model.User
	if err := r.client.get(ctx, "/user", query, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.client.post(ctx, "/user", user, user)
}
