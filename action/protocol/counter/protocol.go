// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package counter

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/pkg/util/byteutil"
	"github.com/iotexproject/iotex-appchain/store"
)

// ModuleName is the name of the counter module
const ModuleName = "counter"

// errors of the counter codespace
var (
	ErrCounterNotFound = action.RegisterError(ModuleName, 2, "counter not found")
	ErrCounterOverflow = action.RegisterError(ModuleName, 3, "counter overflow")
	ErrInvalidKey      = action.RegisterError(ModuleName, 4, "invalid counter key")
)

var (
	_valuePrefix = []byte("v/")
	_heightKey   = []byte("height")
)

type (
	// Protocol keeps named uint64 counters
	Protocol struct {
		protocol.NopLifecycle
	}

	// Genesis is the genesis section of the counter module
	Genesis struct {
		Counters map[string]uint64 `json:"counters"`
	}
)

// NewProtocol instantiates the counter protocol
func NewProtocol() *Protocol { return &Protocol{} }

// Name returns the name of the module
func (p *Protocol) Name() string { return ModuleName }

// Route returns the route of msgs handled by the module
func (p *Protocol) Route() string { return ModuleName }

// QuerierRoute returns the route of queries answered by the module
func (p *Protocol) QuerierRoute() string { return ModuleName }

// RegisterMsgs registers the msgs of the module into the codec
func (p *Protocol) RegisterMsgs(c *action.Codec) error {
	if err := c.RegisterMsg(func() action.Msg { return &MsgSet{} }); err != nil {
		return err
	}
	return c.RegisterMsg(func() action.Msg { return &MsgIncrement{} })
}

// Handle handles a msg
func (p *Protocol) Handle(_ context.Context, sm protocol.StateManager, msg action.Msg) (*action.Result, error) {
	switch msg := msg.(type) {
	case *MsgSet:
		if err := SetValue(sm, msg.Key, msg.Value); err != nil {
			return nil, err
		}
		return (&action.Result{}).AddEvents(counterEvent(SetMsgType, msg.Key, msg.Value)), nil
	case *MsgIncrement:
		v, err := Value(sm, msg.Key)
		if err != nil {
			return nil, err
		}
		if v+msg.Delta < v {
			return nil, ErrCounterOverflow.Wrapf("%s = %d, delta = %d", msg.Key, v, msg.Delta)
		}
		v += msg.Delta
		if err := SetValue(sm, msg.Key, v); err != nil {
			return nil, err
		}
		return (&action.Result{
			Data: byteutil.Uint64ToBytesBigEndian(v),
		}).AddEvents(counterEvent(IncrementMsgType, msg.Key, v)), nil
	default:
		return nil, action.ErrUnknownRequest.Wrapf("unrecognized %s msg type %T", ModuleName, msg)
	}
}

// Query answers value/<key> and height
func (p *Protocol) Query(_ context.Context, sr protocol.StateReader, path []string, _ []byte) ([]byte, error) {
	switch {
	case len(path) == 2 && path[0] == "value":
		v, err := Value(sr, path[1])
		if err != nil {
			return nil, err
		}
		return []byte(strconv.FormatUint(v, 10)), nil
	case len(path) == 1 && path[0] == "height":
		h, err := LastHeight(sr)
		if err != nil {
			return nil, err
		}
		return []byte(strconv.FormatUint(h, 10)), nil
	default:
		return nil, action.ErrUnknownRequest.Wrapf("unknown counter query %v", path)
	}
}

// BeginBlock records the height of the block
func (p *Protocol) BeginBlock(ctx context.Context, sm protocol.StateManager) error {
	blkCtx := protocol.MustGetBlockCtx(ctx)
	return sm.Set(_heightKey, byteutil.Uint64ToBytesBigEndian(blkCtx.BlockHeight))
}

// DefaultGenesis returns a genesis without counters
func (p *Protocol) DefaultGenesis() []byte {
	return []byte(`{"counters":{}}`)
}

// ValidateGenesis checks the counter keys
func (p *Protocol) ValidateGenesis(b []byte) error {
	_, err := parseGenesis(b)
	return err
}

// InitGenesis sets the initial counters
func (p *Protocol) InitGenesis(_ context.Context, sm protocol.StateManager, b []byte) ([]abci.ValidatorUpdate, error) {
	g, err := parseGenesis(b)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(g.Counters))
	for k := range g.Counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := SetValue(sm, k, g.Counters[k]); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// ExportGenesis exports all counters
func (p *Protocol) ExportGenesis(_ context.Context, sr protocol.StateReader) ([]byte, error) {
	g := Genesis{Counters: make(map[string]uint64)}
	if err := sr.Iterate(_valuePrefix, func(k, v []byte) error {
		g.Counters[string(k[len(_valuePrefix):])] = byteutil.BytesToUint64BigEndian(v)
		return nil
	}); err != nil {
		return nil, err
	}
	return json.Marshal(&g)
}

func parseGenesis(b []byte) (*Genesis, error) {
	var g Genesis
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, errors.Wrap(err, "failed to decode counter genesis")
	}
	for k := range g.Counters {
		if err := validateKey(k); err != nil {
			return nil, err
		}
	}
	return &g, nil
}

// Value returns the value of a counter
func Value(sr protocol.StateReader, key string) (uint64, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}
	b, err := sr.Get(valueKey(key))
	switch errors.Cause(err) {
	case nil:
		return byteutil.BytesToUint64BigEndian(b), nil
	case store.ErrNotExist:
		return 0, ErrCounterNotFound.Wrapf("counter %s", key)
	default:
		return 0, err
	}
}

// SetValue sets the value of a counter
func SetValue(sm protocol.StateManager, key string, v uint64) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return sm.Set(valueKey(key), byteutil.Uint64ToBytesBigEndian(v))
}

// LastHeight returns the height recorded by the last BeginBlock
func LastHeight(sr protocol.StateReader) (uint64, error) {
	b, err := sr.Get(_heightKey)
	switch errors.Cause(err) {
	case nil:
		return byteutil.BytesToUint64BigEndian(b), nil
	case store.ErrNotExist:
		return 0, nil
	default:
		return 0, err
	}
}

func valueKey(key string) []byte {
	return append(append([]byte{}, _valuePrefix...), key...)
}

func validateKey(key string) error {
	if key == "" || len(key) > 64 {
		return ErrInvalidKey.Wrapf("key %q", key)
	}
	return nil
}

func counterEvent(typ, key string, v uint64) abci.Event {
	return abci.NewEvent(typ,
		abci.NewAttribute("key", key),
		abci.NewAttribute("value", strconv.FormatUint(v, 10)),
	)
}
