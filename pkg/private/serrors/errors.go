// Copyright 2025 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package serrors provides enhanced errors. Errors created with serrors can
// have additional log context in form of key value pairs. The package provides
// wrapping methods. The returned errors support the standard Is and As error
// mechanisms: for any error err created by this package, errors.Is(err, err)
// is true, and for any err wrapping a cause, errors.Is(err, cause) is true.
package serrors

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ctxPair is one item of context info.
type ctxPair struct {
	Key   string
	Value any
}

type basicError struct {
	msg   string
	cause error
	ctx   []ctxPair
}

func (e basicError) Error() string {
	var buf bytes.Buffer
	buf.WriteString(e.msg)
	if len(e.ctx) != 0 {
		fmt.Fprint(&buf, " ")
		encodeContext(&buf, e.ctx)
	}
	if e.cause != nil {
		fmt.Fprintf(&buf, ": %s", e.cause)
	}
	return buf.String()
}

func (e basicError) Unwrap() error {
	return e.cause
}

// MarshalLogObject implements zapcore.ObjectMarshaler to have a nicer log
// representation.
func (e basicError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("msg", e.msg)
	if e.cause != nil {
		if m, ok := e.cause.(zapcore.ObjectMarshaler); ok {
			if err := enc.AddObject("cause", m); err != nil {
				return err
			}
		} else {
			enc.AddString("cause", e.cause.Error())
		}
	}
	for _, pair := range e.ctx {
		zap.Any(pair.Key, pair.Value).AddTo(enc)
	}
	return nil
}

// Is supports matching two errors created from the same message sentinel.
func (e basicError) Is(err error) bool {
	switch other := err.(type) {
	case basicError:
		return e.msg == other.msg
	default:
		return false
	}
}

// New creates a new error with the given message and context.
func New(msg string, errCtx ...any) error {
	return basicError{
		msg: msg,
		ctx: mkCtx(errCtx...),
	}
}

// Wrap returns an error that associates the given message with the given cause
// (an underlying error), and the given context. The returned error supports
// Is; Is(cause) returns true.
func Wrap(msg string, cause error, errCtx ...any) error {
	return basicError{
		msg:   msg,
		cause: cause,
		ctx:   mkCtx(errCtx...),
	}
}

// Join returns an error that associates the given error with the given cause
// and context. Both err and cause are matched by errors.Is. If both err and
// cause are nil, nil is returned.
func Join(err, cause error, errCtx ...any) error {
	if err == nil && cause == nil {
		return nil
	}
	var msg string
	if err != nil {
		msg = err.Error()
	}
	return basicError{
		msg:   msg,
		cause: joinCause(err, cause),
		ctx:   mkCtx(errCtx...),
	}
}

// WithCtx returns an error carrying err's message plus additional context.
func WithCtx(err error, errCtx ...any) error {
	return basicError{
		msg:   err.Error(),
		cause: errors.Unwrap(err),
		ctx:   mkCtx(errCtx...),
	}
}

// IsTimeout returns whether err is or is caused by a timeout error.
func IsTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func joinCause(err, cause error) error {
	switch {
	case err == nil:
		return cause
	case cause == nil:
		return errors.Unwrap(err)
	default:
		return errors.Join(errors.Unwrap(err), cause)
	}
}

func mkCtx(errCtx ...any) []ctxPair {
	np := len(errCtx) / 2
	ctx := make([]ctxPair, np)
	for i := 0; i < np; i++ {
		ctx[i] = ctxPair{Key: fmt.Sprint(errCtx[2*i]), Value: errCtx[2*i+1]}
	}
	sort.Slice(ctx, func(a, b int) bool {
		return ctx[a].Key < ctx[b].Key
	})
	return ctx
}

func encodeContext(buf *bytes.Buffer, pairs []ctxPair) {
	buf.WriteString("{")
	for i, pair := range pairs {
		if i != 0 {
			buf.WriteString("; ")
		}
		fmt.Fprintf(buf, "%s=%v", pair.Key, pair.Value)
	}
	buf.WriteString("}")
}
