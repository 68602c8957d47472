package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vnshop/storefront/internal/domain"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

// UserResource covers authentication and account management.
type UserResource struct {
	c *Client
}

// UserQuery filters the admin user listing.
type UserQuery struct {
	Page    int
	Size    int
	Keyword string
	Sort    string
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

func (r *UserResource) token(ctx context.Context, req call) (string, error) {
	var resp tokenResponse
	if err := r.c.getJSON(ctx, req, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", apperrors.NewMalformedResponse(req.op, errors.New("missing accessToken"))
	}
	return resp.AccessToken, nil
}

// Login exchanges credentials for an access token.
func (r *UserResource) Login(ctx context.Context, username, password string) (string, error) {
	return r.token(ctx, call{
		method:    http.MethodPost,
		path:      "/auth/login",
		body:      map[string]string{"username": username, "password": password},
		op:        "auth.login",
		fallback:  "login failed, please try again",
		anonymous: true,
	})
}

// LoginWithGoogle exchanges a Google ID token for an access token.
func (r *UserResource) LoginWithGoogle(ctx context.Context, googleToken string) (string, error) {
	return r.token(ctx, call{
		method:    http.MethodPost,
		path:      "/auth/google",
		body:      map[string]string{"token": googleToken},
		op:        "auth.google",
		fallback:  "Google login failed, please try again",
		anonymous: true,
	})
}

// Logout invalidates the credential on the backend.
func (r *UserResource) Logout(ctx context.Context) (string, error) {
	return r.c.send(ctx, call{
		method:    http.MethodPost,
		path:      "/auth/logout",
		op:        "auth.logout",
		fallback:  "logout failed",
		anonymous: true,
	})
}

// Register creates an account.
func (r *UserResource) Register(ctx context.Context, reg domain.Registration) (string, error) {
	return r.c.send(ctx, call{
		method:    http.MethodPost,
		path:      "/user/add",
		body:      reg,
		op:        "user.register",
		fallback:  "registration failed, please try again",
		anonymous: true,
	})
}

// ConfirmEmail activates an account with the code sent by email.
func (r *UserResource) ConfirmEmail(ctx context.Context, secretCode string) (string, error) {
	return r.c.send(ctx, call{
		method:    http.MethodGet,
		path:      "/user/confirm-email",
		query:     url.Values{"secretCode": []string{secretCode}},
		op:        "user.confirm_email",
		fallback:  "email confirmation failed",
		anonymous: true,
	})
}

// Profile returns the current user's account.
func (r *UserResource) Profile(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := r.c.getJSON(ctx, call{
		method:   http.MethodGet,
		path:     "/user/profile",
		op:       "user.profile",
		fallback: "could not load your profile",
	}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile saves the current user's account.
func (r *UserResource) UpdateProfile(ctx context.Context, user domain.User) (string, error) {
	return r.c.send(ctx, call{
		method:   http.MethodPut,
		path:     "/user/upd",
		body:     user,
		op:       "user.update_profile",
		fallback: "could not update your profile",
	})
}

// List returns one page of accounts.
func (r *UserResource) List(ctx context.Context, q UserQuery) (domain.UserPage, error) {
	query := pageQuery(q.Page, q.Size)
	if q.Keyword != "" {
		query.Set("keyword", q.Keyword)
	}
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}

	var page domain.UserPage
	if err := r.c.getJSON(ctx, call{
		method:   http.MethodGet,
		path:     "/user/list",
		query:    query,
		op:       "user.list",
		fallback: "could not load users, please try again later",
	}, &page); err != nil {
		return domain.UserPage{Users: []domain.User{}}, err
	}
	if page.Users == nil {
		page.Users = []domain.User{}
	}
	return page, nil
}

// Get returns one account.
func (r *UserResource) Get(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := r.c.getJSON(ctx, r.getCall(id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserResource) getCall(id int64) call {
	return call{
		method:   http.MethodGet,
		path:     "/user/" + strconv.FormatInt(id, 10),
		op:       "user.get",
		fallback: "could not load the user, please try again later",
	}
}

// Update saves an account. fields is sent as-is so unknown backend fields survive.
func (r *UserResource) Update(ctx context.Context, fields map[string]any) (string, error) {
	return r.c.send(ctx, call{
		method:   http.MethodPut,
		path:     "/user/upd",
		body:     fields,
		op:       "user.update",
		fallback: "could not update the user, please try again later",
	})
}

// UpdateRole changes the account type. The backend stores roles as the user type.
func (r *UserResource) UpdateRole(ctx context.Context, id int64, role string) (string, error) {
	return r.modify(ctx, id, "type", role)
}

// UpdateStatus activates or deactivates an account.
func (r *UserResource) UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) (string, error) {
	return r.modify(ctx, id, "status", string(status))
}

// modify is a read-modify-write of one field; the read must finish before the write.
func (r *UserResource) modify(ctx context.Context, id int64, field, value string) (string, error) {
	fields := map[string]any{}
	if err := r.c.getJSON(ctx, r.getCall(id), &fields); err != nil {
		return "", err
	}
	fields["id"] = id
	fields[field] = value
	return r.Update(ctx, fields)
}

// Delete removes an account.
func (r *UserResource) Delete(ctx context.Context, id int64) (string, error) {
	return r.c.send(ctx, call{
		method:   http.MethodDelete,
		path:     "/user/del/" + strconv.FormatInt(id, 10),
		op:       "user.delete",
		fallback: "could not delete the user, please try again later",
	})
}
