// Copyright (c) 2021 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package db

// db types
const (
	DBMemory = "memory"
	DBBolt   = "boltdb"
	DBPebble = "pebbledb"
)

// Config is the config for database
type Config struct {
	// DBType is the backend of the store, one of memory, boltdb and pebbledb
	DBType string `yaml:"dbType"`
	DbPath string `yaml:"dbPath"`
	// NumRetries is the number of retries
	NumRetries uint8 `yaml:"numRetries"`
	// MaxCacheSize is the max number of states per namespace kept in an LRU cache. 0 means disabled
	MaxCacheSize int `yaml:"maxCacheSize"`
	// CachedNamespaces limits the read cache to these namespaces, empty caches all of them
	CachedNamespaces []string `yaml:"cachedNamespaces"`
	// HistoryStateRetention is the number of versions historical state will be retained in archive mode, 0 keeps all
	HistoryStateRetention uint64 `yaml:"historyStateRetention"`
	// ReadOnly is set db to be opened in read only mode
	ReadOnly bool `yaml:"readOnly"`
}

// DefaultConfig returns the default config
var DefaultConfig = Config{
	DBType:                DBBolt,
	NumRetries:            3,
	MaxCacheSize:          0,
	CachedNamespaces:      []string{"state"},
	HistoryStateRetention: 2000,
}
