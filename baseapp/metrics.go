// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package baseapp

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	_txMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_appchain_tx_total",
			Help: "Transactions processed, by mode and result.",
		},
		[]string{"mode", "result"},
	)
	_gasUsedMtc = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iotex_appchain_gas_used",
			Help:    "Gas used by transactions, by mode.",
			Buckets: prometheus.ExponentialBuckets(1000, 4, 10),
		},
		[]string{"mode"},
	)
	_blockHeightMtc = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "iotex_appchain_block_height",
			Help: "Height of the last committed block.",
		},
	)
)

func init() {
	prometheus.MustRegister(_txMtc)
	prometheus.MustRegister(_gasUsedMtc)
	prometheus.MustRegister(_blockHeightMtc)
}
