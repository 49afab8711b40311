package qiitaapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"qiitawatch/internal/domain/model"
	"qiitawatch/internal/domain/ports"
)

// UserRepository reads users and their follow graph.
type UserRepository struct {
	fetcher   ports.Fetcher
	endpoints Endpoints
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(fetcher ports.Fetcher, endpoints Endpoints) *UserRepository {
	return &UserRepository{fetcher: fetcher, endpoints: endpoints}
}

// FetchByID looks up a single user. A response that cannot be decoded as a user,
// or a 404, is reported as KindNotFound.
func (r *UserRepository) FetchByID(ctx context.Context, id string) (model.User, error) {
	var user model.User
	err := r.fetcher.Fetch(ctx, r.endpoints.UserLookup(id), &user)
	if err == nil {
		return user, nil
	}

	var statusErr *ports.StatusError
	if errors.Is(err, ports.ErrDecode) || (errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound) {
		return model.User{}, &Error{Kind: KindNotFound, Reason: fmt.Sprintf("no user matched %q", id), Err: err}
	}
	return model.User{}, clientError(fmt.Sprintf("failed to fetch user %q", id), err)
}

// FetchFollowees returns one page of the users id follows.
func (r *UserRepository) FetchFollowees(ctx context.Context, id string, page int) ([]model.User, error) {
	req, err := r.endpoints.Followees(id, page)
	if err != nil {
		return nil, err
	}
	return r.fetchList(ctx, req, fmt.Sprintf("failed to fetch followees of %q", id))
}

// FetchFollowers returns one page of the users following id.
func (r *UserRepository) FetchFollowers(ctx context.Context, id string, page int) ([]model.User, error) {
	req, err := r.endpoints.Followers(id, page)
	if err != nil {
		return nil, err
	}
	return r.fetchList(ctx, req, fmt.Sprintf("failed to fetch followers of %q", id))
}

func (r *UserRepository) fetchList(ctx context.Context, req ports.Request, reason string) ([]model.User, error) {
	var users []model.User
	if err := r.fetcher.Fetch(ctx, req, &users); err != nil {
		return nil, clientError(reason, err)
	}
	return users, nil
}
