// Copyright 2023 The StarRocks Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package moerr defines the typed errors surfaced by the columnar core.
// Two lanes exist: recoverable data/resource conditions are returned as
// *Error values with stable codes; invariant breaches panic with an
// internal error and are never part of the public contract.
package moerr

import (
	"errors"
	"fmt"
)

const (
	Ok uint16 = 0

	// Group 1: internal errors
	ErrStart    uint16 = 20100
	ErrInternal uint16 = 20101
	ErrOOM      uint16 = 20103

	// Group 2: data and argument errors
	ErrInvalidArg      uint16 = 20207
	ErrInvalidInput    uint16 = 20208
	ErrIndexOutOfRange uint16 = 20213

	ErrEnd uint16 = 65535
)

var errorMsgRefer = map[uint16]string{
	ErrInternal:        "internal error: %s",
	ErrOOM:             "error: out of memory",
	ErrInvalidArg:      "invalid argument %s, bad value %v",
	ErrInvalidInput:    "invalid input: %s",
	ErrIndexOutOfRange: "index out of range",
}

type Error struct {
	code    uint16
	message string
}

func newError(code uint16, args ...any) *Error {
	item, has := errorMsgRefer[code]
	if !has {
		panic(fmt.Sprintf("not exist MOErrorCode: %d", code))
	}
	if len(args) == 0 {
		return &Error{code: code, message: item}
	}
	return &Error{code: code, message: fmt.Sprintf(item, args...)}
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

// IsMoErrCode reports whether e is a moerr with the given code.
func IsMoErrCode(e error, rc uint16) bool {
	if e == nil {
		return rc == Ok
	}
	var me *Error
	if !errors.As(e, &me) {
		return false
	}
	return me.code == rc
}

func NewInternalErrorNoCtx(msg string, args ...any) *Error {
	return newError(ErrInternal, fmt.Sprintf(msg, args...))
}

func NewOOMNoCtx() *Error {
	return newError(ErrOOM)
}

func NewInvalidArgNoCtx(arg string, val any) *Error {
	return newError(ErrInvalidArg, arg, val)
}

func NewInvalidInputNoCtx(msg string, args ...any) *Error {
	return newError(ErrInvalidInput, fmt.Sprintf(msg, args...))
}

func NewIndexOutOfRangeNoCtx() *Error {
	return newError(ErrIndexOutOfRange)
}
