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

package moerr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	err := NewInvalidArgNoCtx("fpp", 1.5)
	require.True(t, IsMoErrCode(err, ErrInvalidArg))
	require.False(t, IsMoErrCode(err, ErrInternal))
	require.Contains(t, err.Error(), "fpp")

	require.True(t, IsMoErrCode(nil, Ok))
	require.False(t, IsMoErrCode(nil, ErrInternal))
}

func TestErrorWrap(t *testing.T) {
	inner := NewIndexOutOfRangeNoCtx()
	wrapped := fmt.Errorf("dictionary lookup: %w", inner)
	require.True(t, IsMoErrCode(wrapped, ErrIndexOutOfRange))
}

func TestOOM(t *testing.T) {
	err := NewOOMNoCtx()
	require.Equal(t, ErrOOM, err.ErrorCode())
	require.Equal(t, "error: out of memory", err.Error())
}
