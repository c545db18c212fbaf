// Package roundid generates and parses round identifiers that correlate
// generated questions and scoring attempts across asynchronous operations.
//
// A round identifier has the form {sessionID}_{roundNumber}_{timestamp} where
// roundNumber is 1 (initial round) or 2 (adaptive follow-up) and the timestamp
// is an ISO-8601 UTC instant with microsecond precision. Session IDs may
// legally contain underscores, so parsing anchors on the trailing
// _<1|2>_<timestamp> suffix and treats everything before it as the session ID.
//
// Known limitation: a session ID that itself ends in a round-suffix pattern
// (for example "abc_1_2025-01-01T00:00:00+00:00") would be split at the wrong
// boundary. Callers own session ID construction and must not embed such
// suffixes; this package documents the ambiguity rather than guessing intent.
package roundid

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"
)

// ErrFormat indicates a malformed round identifier. All parse failures wrap
// this sentinel so callers can classify them with errors.Is.
var ErrFormat = errors.New("invalid round identifier")

// timestampLayout is the string form of the timestamp component. The explicit
// +00:00 offset (rather than Z) matches the identifiers already persisted by
// upstream systems and is required on parse.
const timestampLayout = "2006-01-02T15:04:05.000000-07:00"

// suffixPattern anchors on the last _<1|2>_<ISO date-time> suffix. The session
// prefix is greedy because session IDs may contain underscores.
var suffixPattern = regexp.MustCompile(`^(.+)_([12])_(\d{4}-\d{2}-\d{2}T.+)$`)

// RoundID is an immutable round identifier decomposed into its components.
type RoundID struct {
	SessionID string
	Round     int
	Timestamp time.Time
}

// String returns the canonical string form of the identifier.
func (r RoundID) String() string {
	return fmt.Sprintf("%s_%d_%s", r.SessionID, r.Round, r.Timestamp.Format(timestampLayout))
}

// Format builds a round identifier for the given session and round number
// using the current UTC instant. It rejects empty session IDs and round
// numbers outside {1, 2}.
func Format(sessionID string, round int) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("%w: session id cannot be empty", ErrFormat)
	}
	if round != 1 && round != 2 {
		return "", fmt.Errorf("%w: round number must be 1 or 2, got %d", ErrFormat, round)
	}

	id := RoundID{
		SessionID: sessionID,
		Round:     round,
		Timestamp: time.Now().UTC(),
	}

	slog.Info("generated round identifier",
		"round_id", id.String(),
		"session_id", sessionID,
		"round", round)

	return id.String(), nil
}

// Parse recovers the session ID, round number, and timestamp from a round
// identifier string. It rejects malformed strings, round numbers outside
// {1, 2}, and timestamps that do not carry a UTC offset.
func Parse(s string) (RoundID, error) {
	m := suffixPattern.FindStringSubmatch(s)
	if m == nil {
		return RoundID{}, fmt.Errorf(
			"%w: %q does not match {session}_{round}_{timestamp}", ErrFormat, s)
	}

	round := int(m[2][0] - '0') // pattern guarantees a single digit 1 or 2

	ts, err := time.Parse(timestampLayout, m[3])
	if err != nil {
		// Accept second-precision timestamps as well; sub-second digits are
		// the common case but not guaranteed by older writers.
		ts, err = time.Parse("2006-01-02T15:04:05-07:00", m[3])
		if err != nil {
			return RoundID{}, fmt.Errorf("%w: bad timestamp %q: %v", ErrFormat, m[3], err)
		}
	}

	if _, offset := ts.Zone(); offset != 0 {
		return RoundID{}, fmt.Errorf("%w: timestamp %q is not UTC", ErrFormat, m[3])
	}

	return RoundID{
		SessionID: m[1],
		Round:     round,
		Timestamp: ts.UTC(),
	}, nil
}

// SessionID extracts the session component from a round identifier.
func SessionID(s string) (string, error) {
	id, err := Parse(s)
	if err != nil {
		return "", err
	}
	return id.SessionID, nil
}

// RoundNumber extracts the round number from a round identifier.
func RoundNumber(s string) (int, error) {
	id, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return id.Round, nil
}

// Timestamp extracts the UTC timestamp from a round identifier.
func Timestamp(s string) (time.Time, error) {
	id, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return id.Timestamp, nil
}

// IsRound1 reports whether the identifier belongs to the initial round.
func IsRound1(s string) (bool, error) {
	n, err := RoundNumber(s)
	return n == 1, err
}

// IsRound2 reports whether the identifier belongs to the adaptive follow-up round.
func IsRound2(s string) (bool, error) {
	n, err := RoundNumber(s)
	return n == 2, err
}

// IsValid reports whether the string is a well-formed round identifier.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}
