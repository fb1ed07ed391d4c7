package identitysvc

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/identity"
)

var (
	tokenEndpoint   = "/auth/v1/token"
	profileEndpoint = "/rest/v1/profiles"
)

// supabaseProvider talks to the hosted auth (GoTrue) and data (PostgREST) APIs.
type supabaseProvider struct {
	baseURL string
	apiKey  string
	client  *rest.Client
}

var _ identity.Provider = (*supabaseProvider)(nil)

// NewSupabaseProvider returns a Provider whose every call is bounded by conf.Identity.Timeout.
func NewSupabaseProvider(conf *core.Config) *supabaseProvider {
	return &supabaseProvider{
		baseURL: strings.TrimRight(conf.Identity.BaseURL, "/"),
		apiKey:  conf.Identity.APIKey,
		client:  &rest.Client{HTTPClient: &http.Client{Timeout: conf.Identity.Timeout}},
	}
}

type (
	tokenResponse struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}

	errorResponse struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}

	profileRow struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
		Nome   string `json:"nome"`
	}
)

func (p *supabaseProvider) Authenticate(ctx context.Context, email, password string) (identity.Grant, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return identity.Grant{}, errors.Wrap(err, "encoding credentials")
	}

	res, err := p.send(ctx, rest.Request{
		Method:  http.MethodPost,
		BaseURL: p.baseURL + tokenEndpoint,
		Headers: map[string]string{
			"apikey":       p.apiKey,
			"Content-Type": "application/json",
		},
		QueryParams: map[string]string{"grant_type": "password"},
		Body:        body,
	})
	if err != nil {
		return identity.Grant{}, err
	}
	switch {
	case res.StatusCode >= 500:
		return identity.Grant{}, &identity.AuthError{Kind: identity.NetworkError, Message: errorMessage(res)}
	case res.StatusCode < 200 || res.StatusCode >= 300:
		return identity.Grant{}, &identity.AuthError{Kind: identity.InvalidCredentials, Message: errorMessage(res)}
	}

	var tok tokenResponse
	if err = json.Unmarshal([]byte(res.Body), &tok); err != nil {
		return identity.Grant{}, &identity.AuthError{Kind: identity.NetworkError, Err: errors.Wrap(err, "decoding token response")}
	}
	if tok.AccessToken == "" || tok.User.ID == "" {
		return identity.Grant{}, &identity.AuthError{Kind: identity.NetworkError, Message: "incomplete token response"}
	}
	return identity.Grant{AccessToken: identity.AccessToken(tok.AccessToken), UserID: tok.User.ID}, nil
}

func (p *supabaseProvider) FetchProfile(ctx context.Context, userID string, token identity.AccessToken) (identity.Profile, error) {
	res, err := p.send(ctx, rest.Request{
		Method:  http.MethodGet,
		BaseURL: p.baseURL + profileEndpoint,
		Headers: map[string]string{
			"apikey":        p.apiKey,
			"Authorization": "Bearer " + string(token),
		},
		QueryParams: map[string]string{
			"user_id": "eq." + userID,
			"select":  "*",
		},
	})
	if err != nil {
		return identity.Profile{}, err
	}
	switch {
	case res.StatusCode >= 500:
		return identity.Profile{}, &identity.AuthError{Kind: identity.NetworkError, Message: errorMessage(res)}
	case res.StatusCode < 200 || res.StatusCode >= 300:
		return identity.Profile{}, errors.Errorf("fetching profile - status: %d - body: %s", res.StatusCode, errorMessage(res))
	}

	var rows []profileRow
	if err = json.Unmarshal([]byte(res.Body), &rows); err != nil {
		return identity.Profile{}, errors.Wrap(err, "decoding profile")
	}
	if len(rows) == 0 {
		return identity.Profile{}, identity.ErrProfileNotFound
	}
	return identity.Profile{UserID: userID, Role: identity.Role(rows[0].Role), Name: rows[0].Nome}, nil
}

// send runs r within ctx. Transport failures come back as *identity.AuthError.
func (p *supabaseProvider) send(ctx context.Context, r rest.Request) (*rest.Response, error) {
	req, err := rest.BuildRequestObject(r)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	httpRes, err := p.client.MakeRequest(req.WithContext(ctx))
	if err != nil {
		return nil, transportError(err)
	}
	res, err := rest.BuildResponse(httpRes)
	if err != nil {
		return nil, transportError(err)
	}
	return res, nil
}

// errorMessage extracts the provider's message, falling back to the raw body.
func errorMessage(res *rest.Response) string {
	var e errorResponse
	if err := json.Unmarshal([]byte(res.Body), &e); err == nil {
		switch {
		case e.ErrorDescription != "":
			return e.ErrorDescription
		case e.Msg != "":
			return e.Msg
		case e.Message != "":
			return e.Message
		}
	}
	return strings.TrimSpace(res.Body)
}

func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &identity.AuthError{Kind: identity.Timeout, Err: err}
	}
	return &identity.AuthError{Kind: identity.NetworkError, Err: err}
}
