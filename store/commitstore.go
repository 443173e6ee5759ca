// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package store

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-appchain/db"
	"github.com/iotexproject/iotex-appchain/db/batch"
	"github.com/iotexproject/iotex-appchain/pkg/lifecycle"
	"github.com/iotexproject/iotex-appchain/pkg/log"
	"github.com/iotexproject/iotex-appchain/pkg/util/byteutil"
)

const (
	_stateNS     = "state"
	_historyNS   = "history"
	_changesetNS = "changeset"
	_commitNS    = "commit"
	_metaNS      = "meta"
)

var (
	_latestVersionKey = []byte("latestVersion")

	_commitMtc = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "iotex_appchain_commit_store",
			Help: "commit store metrics.",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(_commitMtc)
}

type (
	// CommitID identifies a committed version of the store
	CommitID struct {
		Version uint64
		Hash    hash.Hash256
	}

	// Option sets an option of the commit store
	Option func(*CommitStore)

	// CommitStore is the durable versioned store. Every Commit persists the writes of a root scope
	// as a new version together with the commitment hash of the whole key space.
	CommitStore struct {
		lifecycle.Readiness
		mu         sync.RWMutex
		kv         db.KVStore
		archive    bool
		retention  uint64
		lastCommit CommitID
	}
)

// EnableArchiveOption keeps the history of the last retention versions, 0 keeps all
func EnableArchiveOption(retention uint64) Option {
	return func(cs *CommitStore) {
		cs.archive = true
		cs.retention = retention
	}
}

// NewCommitStore creates a commit store on the kv store
func NewCommitStore(kv db.KVStore, opts ...Option) *CommitStore {
	cs := &CommitStore{
		kv: kv,
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// Start starts the kv store and loads the latest commit
func (cs *CommitStore) Start(ctx context.Context) error {
	if err := cs.kv.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start kv store")
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	lastCommit, err := cs.loadLatestCommit()
	if err != nil {
		return err
	}
	cs.lastCommit = lastCommit
	log.L().Info("Loaded commit store.",
		zap.Uint64("version", lastCommit.Version),
		log.Hex("hash", lastCommit.Hash[:]),
		zap.Bool("archive", cs.archive))
	return cs.TurnOn()
}

// Stop stops the kv store
func (cs *CommitStore) Stop(ctx context.Context) error {
	if err := cs.TurnOff(); err != nil {
		return err
	}
	return cs.kv.Stop(ctx)
}

// LastCommitID returns the latest committed version and hash
func (cs *CommitStore) LastCommitID() CommitID {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.lastCommit
}

// IsArchive returns whether history is kept
func (cs *CommitStore) IsArchive() bool {
	return cs.archive
}

// CacheWrap opens a root scope over the latest committed state
func (cs *CommitStore) CacheWrap() *CacheStore {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	scope := newCacheStore(cs)
	scope.owner = cs
	scope.version = cs.lastCommit.Version
	return scope
}

// Get returns the latest committed value of key
func (cs *CommitStore) Get(key []byte) ([]byte, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.reader().Get(key)
}

// Has returns whether the key exists in the latest committed state
func (cs *CommitStore) Has(key []byte) (bool, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.reader().Has(key)
}

// Iterate iterates the latest committed state
func (cs *CommitStore) Iterate(prefix []byte, fn func(k, v []byte) error) error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.reader().Iterate(prefix, fn)
}

// View runs fn against the latest committed state, no commit happens while fn runs
func (cs *CommitStore) View(fn func(KVReader) error) error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if !cs.IsReady() {
		return ErrStoreNotStarted
	}
	return fn(cs.reader())
}

// ViewLatest runs fn against the latest committed state together with its version
func (cs *CommitStore) ViewLatest(fn func(uint64, KVReader) error) error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if !cs.IsReady() {
		return ErrStoreNotStarted
	}
	return fn(cs.lastCommit.Version, cs.reader())
}

// ViewAt runs fn against the state at a committed version, which must be the latest version or a
// version retained in archive mode
func (cs *CommitStore) ViewAt(version uint64, fn func(KVReader) error) error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if !cs.IsReady() {
		return ErrStoreNotStarted
	}
	if err := cs.checkVersion(version); err != nil {
		return err
	}
	if version == cs.lastCommit.Version {
		return fn(cs.reader())
	}
	return fn(&historyReader{kv: cs.kv, version: version})
}

// CommitHash returns the commitment hash of a committed version
func (cs *CommitStore) CommitHash(version uint64) (hash.Hash256, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if version == 0 {
		return hash.ZeroHash256, nil
	}
	if version > cs.lastCommit.Version {
		return hash.ZeroHash256, errors.Wrapf(ErrInvalidVersion, "version %d", version)
	}
	v, err := cs.kv.Get(_commitNS, byteutil.Uint64ToBytesBigEndian(version))
	if err != nil {
		return hash.ZeroHash256, errors.Wrapf(err, "failed to get hash of version %d", version)
	}
	return hash.BytesToHash256(v), nil
}

// Commit persists the writes of a root scope as a new version and closes the scope
func (cs *CommitStore) Commit(view *CacheStore) (CommitID, error) {
	start := time.Now()
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if !cs.IsReady() {
		return CommitID{}, ErrStoreNotStarted
	}
	view.mu.Lock()
	defer view.mu.Unlock()
	if view.closed {
		return CommitID{}, ErrScopeClosed
	}
	if view.owner != cs || view.parentScope != nil {
		return CommitID{}, errors.Wrap(ErrInvalidScope, "not a root scope of this store")
	}
	if view.version != cs.lastCommit.Version {
		return CommitID{}, errors.Wrapf(
			ErrInvalidScope,
			"scope opened at version %d, latest version is %d",
			view.version,
			cs.lastCommit.Version,
		)
	}

	version := cs.lastCommit.Version + 1
	writes := view.sortedWrites()
	b := batch.NewBatch()
	for _, w := range writes {
		if w.deleted {
			b.Delete(_stateNS, w.key, "failed to delete key %x", w.key)
			continue
		}
		b.Put(_stateNS, w.key, w.value, "failed to put key %x", w.key)
	}
	if cs.archive {
		if err := cs.putHistory(b, version, writes); err != nil {
			return CommitID{}, err
		}
	}
	root := cs.lastCommit.Hash
	if len(writes) > 0 {
		var err error
		if root, err = cs.rootHash(writes); err != nil {
			return CommitID{}, err
		}
	}
	versionKey := byteutil.Uint64ToBytesBigEndian(version)
	b.Put(_commitNS, versionKey, root[:], "failed to put hash of version %d", version)
	b.Put(_metaNS, _latestVersionKey, versionKey, "failed to put latest version %d", version)
	if err := cs.kv.WriteBatch(b); err != nil {
		return CommitID{}, errors.Wrapf(err, "failed to commit version %d", version)
	}
	cs.lastCommit = CommitID{Version: version, Hash: root}
	view.close()

	_commitMtc.WithLabelValues("version").Set(float64(version))
	_commitMtc.WithLabelValues("writes").Set(float64(len(writes)))
	_commitMtc.WithLabelValues("latencyMs").Set(float64(time.Since(start).Milliseconds()))
	return cs.lastCommit, nil
}

// ChangedKeys returns the keys written at a version retained in archive mode
func (cs *CommitStore) ChangedKeys(version uint64) ([][]byte, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if !cs.archive {
		return nil, errors.Wrap(ErrVersionPruned, "archive mode is off")
	}
	changes, err := cs.changeset(version)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, 0, len(changes))
	for _, c := range changes {
		keys = append(keys, c.key)
	}
	return keys, nil
}

func (cs *CommitStore) reader() *stateReader {
	return &stateReader{kv: cs.kv}
}

func (cs *CommitStore) checkVersion(version uint64) error {
	latest := cs.lastCommit.Version
	if version == 0 || version > latest {
		return errors.Wrapf(ErrInvalidVersion, "version %d, latest version %d", version, latest)
	}
	if version == latest {
		return nil
	}
	if !cs.archive {
		return errors.Wrapf(ErrVersionPruned, "version %d, archive mode is off", version)
	}
	if cs.retention > 0 && latest-version >= cs.retention {
		return errors.Wrapf(ErrVersionPruned, "version %d, retention %d", version, cs.retention)
	}
	return nil
}

func (cs *CommitStore) loadLatestCommit() (CommitID, error) {
	v, err := cs.kv.Get(_metaNS, _latestVersionKey)
	switch errors.Cause(err) {
	case nil:
	case db.ErrNotExist:
		return CommitID{Hash: hash.ZeroHash256}, nil
	default:
		return CommitID{}, errors.Wrap(err, "failed to load latest version")
	}
	version := byteutil.BytesToUint64BigEndian(v)
	h, err := cs.kv.Get(_commitNS, v)
	if err != nil {
		return CommitID{}, errors.Wrapf(err, "failed to load hash of version %d", version)
	}
	return CommitID{Version: version, Hash: hash.BytesToHash256(h)}, nil
}

// rootHash computes the commitment of the committed state with writes applied. The tree is
// rebuilt from every leaf of the state namespace, O(state size) per commit with writes, and no
// tree is kept across versions or restarts: the root depends on the leaf set alone.
func (cs *CommitStore) rootHash(writes []kvPair) (hash.Hash256, error) {
	state := make(map[string][]byte)
	if err := cs.kv.ForEach(_stateNS, func(k, v []byte) error {
		state[string(k)] = v
		return nil
	}); err != nil {
		return hash.ZeroHash256, errors.Wrap(err, "failed to read state")
	}
	for _, w := range writes {
		if w.deleted {
			delete(state, string(w.key))
			continue
		}
		state[string(w.key)] = w.value
	}
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	leaves := make([]hash.Hash256, len(keys))
	for i, k := range keys {
		leaves[i] = LeafHash([]byte(k), state[k])
	}
	return MerkleRoot(leaves), nil
}

// putHistory records the value every written key had before this version, and prunes the
// history no longer needed by any retained version
func (cs *CommitStore) putHistory(b batch.KVStoreBatch, version uint64, writes []kvPair) error {
	if cs.retention == 1 {
		return nil
	}
	for _, w := range writes {
		prior, err := cs.kv.Get(_stateNS, w.key)
		switch errors.Cause(err) {
		case nil:
			b.Put(_historyNS, historyKey(w.key, version), append([]byte{1}, prior...), "failed to put history of %x", w.key)
		case db.ErrNotExist:
			b.Put(_historyNS, historyKey(w.key, version), []byte{0}, "failed to put history of %x", w.key)
		default:
			return errors.Wrapf(err, "failed to read prior value of %x", w.key)
		}
	}
	changeset := b.SerializeQueue(func(wi *batch.WriteInfo) bool {
		return wi.Namespace() != _stateNS
	})
	b.Put(_changesetNS, byteutil.Uint64ToBytesBigEndian(version), snappy.Encode(nil, changeset), "failed to put changeset of version %d", version)

	if cs.retention == 0 || version < cs.retention {
		return nil
	}
	// history written at pruned is only read by versions older than the oldest retained one
	pruned := version + 1 - cs.retention
	changes, err := cs.changeset(pruned)
	if err != nil {
		if errors.Cause(err) == db.ErrNotExist {
			return nil
		}
		return err
	}
	for _, c := range changes {
		b.Delete(_historyNS, historyKey(c.key, pruned), "failed to prune history of %x", c.key)
	}
	b.Delete(_changesetNS, byteutil.Uint64ToBytesBigEndian(pruned), "failed to prune changeset of version %d", pruned)
	return nil
}

func (cs *CommitStore) changeset(version uint64) ([]kvPair, error) {
	v, err := cs.kv.Get(_changesetNS, byteutil.Uint64ToBytesBigEndian(version))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get changeset of version %d", version)
	}
	raw, err := snappy.Decode(nil, v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decompress changeset of version %d", version)
	}
	return decodeChangeset(raw)
}

// decodeChangeset decodes the serialized write queue of a changeset
func decodeChangeset(b []byte) ([]kvPair, error) {
	var (
		pairs []kvPair
		next  = func() (field []byte, err error) {
			field, b, err = byteutil.ReadLengthPrefixed(b)
			return field, errors.Wrap(err, "invalid changeset")
		}
	)
	for len(b) > 0 {
		writeType := batch.WriteType(b[0])
		b = b[1:]
		if _, err := next(); err != nil {
			return nil, err
		}
		key, err := next()
		if err != nil {
			return nil, err
		}
		value, err := next()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, kvPair{key: copyBytes(key), value: copyBytes(value), deleted: writeType == batch.Delete})
	}
	return pairs, nil
}

func historyKey(key []byte, version uint64) []byte {
	hk := byteutil.LengthPrefix(key)
	return append(hk, byteutil.Uint64ToBytesBigEndian(version)...)
}

type (
	// stateReader reads the latest committed state, the caller holds the store's read lock
	stateReader struct {
		kv db.KVStore
	}

	// historyReader reads the state at a retained version, the caller holds the store's read lock
	historyReader struct {
		kv      db.KVStore
		version uint64
	}
)

func (r *stateReader) Get(key []byte) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	v, err := r.kv.Get(_stateNS, key)
	if err != nil {
		if errors.Cause(err) == db.ErrNotExist {
			return nil, errors.Wrapf(ErrNotExist, "key = %x doesn't exist", key)
		}
		return nil, err
	}
	return v, nil
}

func (r *stateReader) Has(key []byte) (bool, error) {
	return has(r, key)
}

func (r *stateReader) Iterate(prefix []byte, fn func(k, v []byte) error) error {
	return iteratePrefix(r.kv, _stateNS, prefix, fn)
}

func (r *historyReader) Get(key []byte) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	// the first change after the version holds the value at the version
	_, values, err := r.kv.Filter(
		_historyNS,
		func(k, v []byte) bool { return true },
		historyKey(key, r.version+1),
		historyKey(key, ^uint64(0)),
	)
	switch errors.Cause(err) {
	case nil:
		return decodePrior(key, values[0])
	case db.ErrNotExist:
		return (&stateReader{kv: r.kv}).Get(key)
	default:
		return nil, err
	}
}

func (r *historyReader) Has(key []byte) (bool, error) {
	return has(r, key)
}

func (r *historyReader) Iterate(prefix []byte, fn func(k, v []byte) error) error {
	state := make(map[string][]byte)
	if err := iteratePrefix(r.kv, _stateNS, prefix, func(k, v []byte) error {
		state[string(k)] = v
		return nil
	}); err != nil {
		return err
	}
	seen := make(map[string]struct{})
	if err := r.kv.ForEach(_historyNS, func(hk, v []byte) error {
		key, version, err := splitHistoryKey(hk)
		if err != nil {
			return err
		}
		if version <= r.version || !bytes.HasPrefix(key, prefix) {
			return nil
		}
		// entries of a key are in ascending version order
		if _, ok := seen[string(key)]; ok {
			return nil
		}
		seen[string(key)] = struct{}{}
		if v[0] == 0 {
			delete(state, string(key))
			return nil
		}
		state[string(key)] = v[1:]
		return nil
	}); err != nil {
		return err
	}
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), state[k]); err != nil {
			return err
		}
	}
	return nil
}

func decodePrior(key, v []byte) ([]byte, error) {
	if len(v) == 0 {
		return nil, errors.Errorf("invalid history of key %x", key)
	}
	if v[0] == 0 {
		return nil, errors.Wrapf(ErrNotExist, "key = %x doesn't exist", key)
	}
	return copyBytes(v[1:]), nil
}

func splitHistoryKey(hk []byte) ([]byte, uint64, error) {
	if len(hk) < 12 {
		return nil, 0, errors.Errorf("invalid history key %x", hk)
	}
	key, rest, err := byteutil.ReadLengthPrefixed(hk)
	if err != nil || len(rest) != 8 {
		return nil, 0, errors.Errorf("invalid history key %x", hk)
	}
	return key, byteutil.BytesToUint64BigEndian(rest), nil
}

func has(r KVReader, key []byte) (bool, error) {
	_, err := r.Get(key)
	switch errors.Cause(err) {
	case nil:
		return true, nil
	case ErrNotExist:
		return false, nil
	default:
		return false, err
	}
}

var errStopIteration = errors.New("stop iteration")

func iteratePrefix(kv db.KVStore, ns string, prefix []byte, fn func(k, v []byte) error) error {
	err := kv.ForEach(ns, func(k, v []byte) error {
		if bytes.Compare(k, prefix) < 0 {
			return nil
		}
		if !bytes.HasPrefix(k, prefix) {
			return errStopIteration
		}
		return fn(k, v)
	})
	if err == errStopIteration {
		return nil
	}
	return err
}
