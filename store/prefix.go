// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package store

type (
	prefixReader struct {
		parent KVReader
		prefix []byte
	}

	prefixStore struct {
		prefixReader
		parent KVStore
	}
)

// PrefixReader returns a reader of the keys under prefix, with the prefix stripped
func PrefixReader(parent KVReader, prefix []byte) KVReader {
	return &prefixReader{parent: parent, prefix: copyBytes(prefix)}
}

// Prefix returns a store isolated to the keys under prefix
func Prefix(parent KVStore, prefix []byte) KVStore {
	return &prefixStore{
		prefixReader: prefixReader{parent: parent, prefix: copyBytes(prefix)},
		parent:       parent,
	}
}

func (p *prefixReader) key(key []byte) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	k := make([]byte, 0, len(p.prefix)+len(key))
	k = append(k, p.prefix...)
	return append(k, key...), nil
}

func (p *prefixReader) Get(key []byte) ([]byte, error) {
	k, err := p.key(key)
	if err != nil {
		return nil, err
	}
	return p.parent.Get(k)
}

func (p *prefixReader) Has(key []byte) (bool, error) {
	k, err := p.key(key)
	if err != nil {
		return false, err
	}
	return p.parent.Has(k)
}

func (p *prefixReader) Iterate(prefix []byte, fn func(k, v []byte) error) error {
	full := make([]byte, 0, len(p.prefix)+len(prefix))
	full = append(full, p.prefix...)
	full = append(full, prefix...)
	return p.parent.Iterate(full, func(k, v []byte) error {
		return fn(k[len(p.prefix):], v)
	})
}

func (p *prefixStore) Set(key, value []byte) error {
	k, err := p.key(key)
	if err != nil {
		return err
	}
	return p.parent.Set(k, value)
}

func (p *prefixStore) Delete(key []byte) error {
	k, err := p.key(key)
	if err != nil {
		return err
	}
	return p.parent.Delete(k)
}
