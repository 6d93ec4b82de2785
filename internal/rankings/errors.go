package rankings

import "errors"

var (
	// ErrTableUnresolved means no tier could map a tournament to a leaderboard table.
	ErrTableUnresolved = errors.New("leaderboard table unresolved")
	// ErrUnknownTable means a static lookup entry names a table that is not built in.
	ErrUnknownTable = errors.New("unknown leaderboard table")
	// ErrNoWinner means a match was handed to the ledger writer without a decided winner.
	ErrNoWinner = errors.New("match has no winner")
	// ErrInvalidGender means a gender filter was not Male, Female or All.
	ErrInvalidGender = errors.New("invalid gender filter")
)
