package domain

import "time"

// LoginOutcome classifies how a login attempt ended.
type LoginOutcome string

const (
	LoginSucceeded LoginOutcome = "success"
	LoginRejected  LoginOutcome = "rejected"
	LoginFailed    LoginOutcome = "failed"
	LoginThrottled LoginOutcome = "throttled"
)

// LoginEvent is an audit record of a single login attempt.
type LoginEvent struct {
	Email       string
	PrincipalID string // empty unless the lookup found a record
	Outcome     LoginOutcome
	Reason      string
	OccurredAt  time.Time
}
