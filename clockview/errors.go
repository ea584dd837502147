// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package clockview

import "errors"

// ErrCutOutOfBounds means NowAtCut was asked to fold past the end of
// the supplied event sequence.
var ErrCutOutOfBounds = errors.New("clockview: cut is out of bounds")
