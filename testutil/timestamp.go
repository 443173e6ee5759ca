// Copyright (c) 2018 IoTeX
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package testutil

import (
	"time"

	"github.com/facebookgo/clock"
)

// TimestampNow get now timestamp from new clock
func TimestampNow() time.Time {
	return TimestampNowFromClock(clock.New())
}

// TimestampNowFromClock get now timestamp from specific clock, truncated to seconds
func TimestampNowFromClock(c clock.Clock) time.Time {
	return time.Unix(c.Now().Unix(), 0).UTC()
}

// BlockTimes returns the times of n consecutive blocks, advancing the mock clock by interval per block
func BlockTimes(c *clock.Mock, n int, interval time.Duration) []time.Time {
	times := make([]time.Time, n)
	for i := range times {
		c.Add(interval)
		times[i] = TimestampNowFromClock(c)
	}
	return times
}
