// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timerview

import "errors"

// ErrMalformedRequest means an Observation tagged OBS_TIMER_REQUEST_V0
// did not decode as a TimerRequest.
var ErrMalformedRequest = errors.New("timerview: malformed timer request payload")
