// Copyright 2026 The anonbot Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"github.com/pingcap/errors"
)

// WrapError generates a new error based on given `*errors.Error`, wraps the
// err as cause error.
// If given `err` is nil, returns nil.
func WrapError(rfcError *errors.Error, err error, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return rfcError.Wrap(err).GenWithStackByArgs(args...)
}

// Is checks whether the error is caused by the given normalized error.
func Is(err error, rfcError *errors.Error) bool {
	return rfcError.Equal(errors.Cause(err))
}

// Message renders an error the way the transport boundary shows it to the
// user: the bare message, without the RFC code prefix or the stack.
func Message(err error) string {
	if err == nil {
		return ""
	}
	cause := errors.Cause(err)
	if rfcError, ok := cause.(*errors.Error); ok {
		return rfcError.GetMsg()
	}
	return cause.Error()
}
