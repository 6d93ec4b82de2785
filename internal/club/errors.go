package club

import "errors"

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTableNotRegistered = errors.New("tournament table not registered")
	ErrRowNotFound        = errors.New("leaderboard row not found")
)
