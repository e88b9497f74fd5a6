package emsapi

import (
	"context"
	"net/http"
)

// LoginRequest payload for password authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the login reply. MustResetPassword drives the forced
// first-login password change.
type AuthResponse struct {
	Token             string `json:"token"`
	MustResetPassword bool   `json:"mustResetPassword"`
}

// RegistrationRequest payload for self-registration. New accounts stay
// pending until an admin approves them.
type RegistrationRequest struct {
	Name          string `json:"name"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	ContactNumber string `json:"contactNumber"`
	Department    string `json:"department"`
	Designation   string `json:"designation"`
}

// ResetPasswordRequest payload for completing a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.doJSON(ctx, nil, http.MethodPost, "/auth/login", LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register submits a self-registration and returns the backend's message.
func (c *Client) Register(ctx context.Context, reg RegistrationRequest) (string, error) {
	return c.doText(ctx, nil, http.MethodPost, "/auth/register", reg)
}

// ForgotPassword requests a reset email. The backend answers with the same
// neutral message whether or not the account exists. The username goes over
// as the bare text body; the endpoint binds the raw body to a string.
func (c *Client) ForgotPassword(ctx context.Context, username string) (string, error) {
	return c.doPlain(ctx, nil, http.MethodPost, "/auth/forgot-password", username)
}

// ResetPassword completes a reset using an emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return c.doText(ctx, nil, http.MethodPost, "/auth/reset-password", ResetPasswordRequest{Token: token, NewPassword: newPassword})
}

// Logout tells the backend to close the day's attendance. Best effort: the
// session is cleared locally regardless of the outcome.
func (c *Client) Logout(ctx context.Context, ts TokenSource) error {
	_, err := c.doText(ctx, ts, http.MethodPost, "/auth/logout", nil)
	return err
}
