// Package remote connects the auth core to a running club store.
package remote

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/clubhouse/internal/auth"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
)

// Backend implements auth.Backend over the club store HTTP API.
type Backend struct {
	client *clubsdk.Client
}

func NewBackend(client *clubsdk.Client) *Backend {
	return &Backend{client: client}
}

func (b *Backend) FindCoachByAccessCode(ctx context.Context, code string) (auth.Coach, error) {
	c, err := b.client.FindCoachByAccessCode(ctx, code)
	if err != nil {
		return auth.Coach{}, classify(err)
	}
	return auth.Coach{
		ID:         c.ID,
		UserID:     c.UserID,
		AccessCode: c.AccessCode,
		Phone:      c.Phone,
		TeamID:     c.TeamID,
	}, nil
}

func (b *Backend) FindIdentity(ctx context.Context, id string) (auth.Identity, error) {
	ident, err := b.client.GetUser(ctx, id)
	if err != nil {
		return auth.Identity{}, classify(err)
	}
	return identity(*ident), nil
}

func (b *Backend) FindParentByPhone(ctx context.Context, phone string) (auth.Parent, error) {
	p, err := b.client.FindParentByPhone(ctx, phone)
	if err != nil {
		return auth.Parent{}, classify(err)
	}
	return parent(*p), nil
}

func (b *Backend) FindTeamByAccessCode(ctx context.Context, code string) (auth.Team, error) {
	t, err := b.client.FindTeamByAccessCode(ctx, code)
	if err != nil {
		return auth.Team{}, classify(err)
	}
	return auth.Team{ID: t.ID, Name: t.Name, AccessCode: t.AccessCode}, nil
}

func (b *Backend) CreateParent(ctx context.Context, in auth.NewParent) (auth.Parent, error) {
	p, err := b.client.CreateParent(ctx, clubsdk.CreateParentRequest{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		TeamID:    in.TeamID,
		Password:  in.Password,
	})
	if err != nil {
		return auth.Parent{}, classify(err)
	}
	return parent(*p), nil
}

func (b *Backend) SignInWithPassword(ctx context.Context, email, password string) (auth.Identity, auth.Credential, error) {
	resp, err := b.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return auth.Identity{}, auth.Credential{}, classify(err)
	}
	return identity(resp.Identity), credential(resp), nil
}

func (b *Backend) SignInWithPhone(ctx context.Context, phone, password string) (auth.Identity, auth.Credential, error) {
	resp, err := b.client.SignInWithPhone(ctx, phone, password)
	if err != nil {
		return auth.Identity{}, auth.Credential{}, classify(err)
	}
	return identity(resp.Identity), credential(resp), nil
}

func (b *Backend) Resume(ctx context.Context, cred auth.Credential) (auth.Identity, error) {
	resp, err := b.client.WithToken(cred.Token).Current(ctx)
	if err != nil {
		return auth.Identity{}, classify(err)
	}
	return identity(resp.Identity), nil
}

func (b *Backend) Revoke(ctx context.Context, cred auth.Credential) error {
	err := b.client.WithToken(cred.Token).Revoke(ctx)
	if err != nil && !errors.Is(err, clubsdk.ErrSessionExpired) {
		return classify(err)
	}
	return nil
}

// classify maps API errors onto the backend sentinels. Transport failures
// and server errors pass through unchanged.
func classify(err error) error {
	switch {
	case errors.Is(err, clubsdk.ErrNotFound):
		return errors.Join(auth.ErrNotFound, err)
	case errors.Is(err, clubsdk.ErrSessionExpired), errors.Is(err, clubsdk.ErrInvalidToken):
		return errors.Join(auth.ErrExpired, err)
	case errors.Is(err, clubsdk.ErrInvalidCredentials),
		errors.Is(err, clubsdk.ErrInvalidRequest),
		errors.Is(err, clubsdk.ErrAlreadyExists),
		errors.Is(err, clubsdk.ErrForbidden):
		return errors.Join(auth.ErrRejected, err)
	}
	return err
}

func identity(in clubsdk.Identity) auth.Identity {
	return auth.Identity{
		ID:         in.ID,
		Email:      in.Email,
		Role:       in.Role,
		Name:       in.Name,
		Phone:      in.Phone,
		PictureURL: in.PictureURL,
	}
}

func parent(in clubsdk.Parent) auth.Parent {
	return auth.Parent{
		ID:        in.ID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		TeamID:    in.TeamID,
	}
}

func credential(in *clubsdk.SessionResponse) auth.Credential {
	return auth.Credential{
		Token:     in.Token,
		Channel:   auth.Channel(in.Channel),
		ExpiresAt: in.ExpiresAt,
	}
}
