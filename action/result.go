// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"strconv"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
)

type (
	// GasInfo is the gas wanted and used by a transaction
	GasInfo struct {
		GasWanted uint64
		GasUsed   uint64
	}

	// Result is the outcome of handling a msg or a transaction
	Result struct {
		Data   []byte
		Log    string
		Events []abci.Event
	}
)

// AddEvents appends events to the result
func (r *Result) AddEvents(events ...abci.Event) *Result {
	r.Events = append(r.Events, events...)
	return r
}

// MergeResults concatenates data, logs and events of the msg results of a transaction
func MergeResults(results []*Result) *Result {
	merged := &Result{}
	for i, r := range results {
		if r == nil {
			continue
		}
		merged.Data = append(merged.Data, r.Data...)
		if r.Log != "" {
			if merged.Log != "" {
				merged.Log += "\n"
			}
			merged.Log += "msg " + strconv.Itoa(i) + ": " + r.Log
		}
		merged.Events = append(merged.Events, r.Events...)
	}
	return merged
}
