package services

import "errors"

// ErrUsernameResolutionExhausted is returned when unique-username
// resolution gives up after the attempt cap. The loop in the federated
// flow is bounded so a pathological storage state cannot spin forever.
var ErrUsernameResolutionExhausted = errors.New("could not resolve a unique username")

// Result messages surfaced to clients. Login failures intentionally use
// the same message whether the email is unknown or the password is wrong.
const (
	MsgRegistered         = "User registered successfully."
	MsgLoggedIn           = "User logged in successfully."
	MsgGitHubSuccess      = "GitHub authentication successful."
	MsgEmailTaken         = "The email is already in use."
	MsgUsernameTaken      = "The name is already in use."
	MsgInvalidCredentials = "Invalid email or password."
	MsgPasswordMismatch   = "Passwords do not match."
)
