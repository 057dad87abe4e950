package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleTokenVerifier validates Google ID tokens against the tokeninfo
// endpoint and checks the audience claim.
type GoogleTokenVerifier struct {
	clientID string
	client   *http.Client
}

func NewGoogleTokenVerifier(clientID string) *GoogleTokenVerifier {
	return &GoogleTokenVerifier{
		clientID: clientID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *GoogleTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (GoogleIdentity, error) {
	endpoint := googleTokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return GoogleIdentity{}, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return GoogleIdentity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GoogleIdentity{}, fmt.Errorf("google tokeninfo returned status %d", resp.StatusCode)
	}

	var payload struct {
		Audience      string `json:"aud"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return GoogleIdentity{}, err
	}

	if payload.Audience != v.clientID {
		return GoogleIdentity{}, errors.New("google token audience mismatch")
	}
	if payload.EmailVerified != "true" {
		return GoogleIdentity{}, errors.New("google account email is not verified")
	}

	return GoogleIdentity{
		Email:     payload.Email,
		Name:      payload.Name,
		AvatarURL: payload.Picture,
	}, nil
}
