package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/puddle/v2"
)

// Kind tags a database failure with how callers should react to it.
type Kind uint8

const (
	KindQuery Kind = iota
	KindNotFound
	KindDuplicate
	KindInvalid
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindInvalid:
		return "invalid"
	case KindTransient:
		return "transient"
	default:
		return "query"
	}
}

// Error is a classified database failure.
type Error struct {
	Kind Kind
	Op   string
	// Code is the SQLSTATE when the server reported one.
	Code string
	// Detail is the server's message for constraint and value errors.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets the package sentinels match by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrDuplicate:
		return e.Kind == KindDuplicate
	case ErrInvalid:
		return e.Kind == KindInvalid
	case ErrConnection:
		return e.Kind == KindTransient
	case ErrQuery:
		return e.Kind == KindQuery
	}
	return false
}

// KindOf reports the kind of a classified error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Kind, true
	}
	return KindQuery, false
}

// IsTransient reports whether err is a connection-level failure.
func IsTransient(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindTransient
}

// Classify wraps err in an *Error tagged with its kind. Errors that are
// already classified pass through unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return err
	}

	out := &Error{Kind: kindOf(err), Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		out.Code = pgErr.Code
		out.Detail = pgErr.Message
	}
	return out
}

func transient(op string, err error) *Error {
	return &Error{Kind: KindTransient, Op: op, Err: err}
}

func kindOf(err error) Kind {
	if errors.Is(err, pgx.ErrNoRows) {
		return KindNotFound
	}

	// A cancelled request says nothing about the connection.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindQuery
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return kindOfCode(pgErr.Code)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return KindTransient
	}
	if errors.Is(err, puddle.ErrClosedPool) {
		return KindTransient
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return KindTransient
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) || errors.Is(err, net.ErrClosed) {
		return KindTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransient
	}

	return KindQuery
}

func kindOfCode(code string) Kind {
	switch code {
	case "23505": // unique_violation
		return KindDuplicate
	case "22P02", // invalid_text_representation
		"22003", // numeric_value_out_of_range
		"22007", // invalid_datetime_format
		"23503", // foreign_key_violation
		"23502": // not_null_violation
		return KindInvalid
	case "57P01", // admin_shutdown
		"57P02", // crash_shutdown
		"57P03", // cannot_connect_now
		"26000", // invalid_sql_statement_name: prepared statement vanished with its connection
		"42P05", // duplicate_prepared_statement: pooler handed us a reused backend
		"53300": // too_many_connections
		return KindTransient
	}
	// Class 08: connection exception
	if strings.HasPrefix(code, "08") {
		return KindTransient
	}
	return KindQuery
}
