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

package serrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scionproto/notary/pkg/private/serrors"
)

func TestNewContextRendering(t *testing.T) {
	err := serrors.New("record not written", "url", "https://x.test", "rows", 3)
	assert.Equal(t, "record not written {rows=3; url=https://x.test}", err.Error())
}

func TestWrapIsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := serrors.Wrap("inserting record", cause, "url", "https://x.test")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}

func TestJoinMatchesBoth(t *testing.T) {
	sentinel := serrors.New("db: write failed")
	cause := errors.New("database is locked")
	err := serrors.Join(sentinel, cause, "table", "trusted")
	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, cause)
}

func TestJoinNilNil(t *testing.T) {
	assert.NoError(t, serrors.Join(nil, nil))
}

func TestIsTimeout(t *testing.T) {
	assert.False(t, serrors.IsTimeout(errors.New("nope")))
	assert.True(t, serrors.IsTimeout(serrors.Wrap("fetching", timeoutError{})))
}

type timeoutError struct{}

func (timeoutError) Error() string { return "i/o timeout" }
func (timeoutError) Timeout() bool { return true }

func ExampleNew() {
	err := serrors.New("validating fingerprint", "fingerprint", "AA:BB")
	fmt.Println(err)
	// Output: validating fingerprint {fingerprint=AA:BB}
}
