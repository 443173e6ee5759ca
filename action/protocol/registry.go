// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/pkg/log"
)

var (
	// ErrInvalidModuleName indicates a module name which is empty or not alphanumeric
	ErrInvalidModuleName = errors.New("invalid module name")
	// ErrModuleExists indicates a module registered twice
	ErrModuleExists = errors.New("module already exists")
	// ErrModuleNotFound indicates a module which is not registered
	ErrModuleNotFound = errors.New("module not found")
	// ErrInvalidGenesis indicates a genesis document which cannot be parsed
	ErrInvalidGenesis = errors.New("invalid genesis")
	// ErrInvariantBroken indicates a broken invariant
	ErrInvariantBroken = errors.New("invariant broken")

	_isAlphaNumeric = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

type (
	invariantRoute struct {
		module string
		route  string
		invar  Invariant
	}

	// Registry is the hub of modules, it keeps the registration order and the order
	// in which hooks of the modules are called
	Registry struct {
		mu          sync.RWMutex
		ids         map[string]int
		modules     []Module
		beginOrder  []string
		endOrder    []string
		initOrder   []string
		exportOrder []string
		invariants  []invariantRoute
	}
)

// IsAlphaNumeric returns whether s is a non-empty alphanumeric string
func IsAlphaNumeric(s string) bool {
	return _isAlphaNumeric.MatchString(s)
}

// NewRegistry create a new Registry
func NewRegistry() *Registry {
	return &Registry{
		ids: make(map[string]int),
	}
}

// Register registers the module with a unique name
func (r *Registry) Register(m Module) error {
	name := m.Name()
	if !IsAlphaNumeric(name) {
		return errors.Wrapf(ErrInvalidModuleName, "name = %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exist := r.ids[name]; exist {
		return errors.Wrapf(ErrModuleExists, "module %s", name)
	}
	r.ids[name] = len(r.modules)
	r.modules = append(r.modules, m)
	return nil
}

// Find finds a module by name
func (r *Registry) Find(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.ids[name]
	if !ok {
		return nil, false
	}
	return r.modules[idx], true
}

// All returns all modules in registration order
func (r *Registry) All() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Module, len(r.modules))
	copy(all, r.modules)
	return all
}

// SetOrderBeginBlockers sets the order in which BeginBlock of modules is called
func (r *Registry) SetOrderBeginBlockers(names ...string) error {
	return r.setOrder(&r.beginOrder, names)
}

// SetOrderEndBlockers sets the order in which EndBlock of modules is called
func (r *Registry) SetOrderEndBlockers(names ...string) error {
	return r.setOrder(&r.endOrder, names)
}

// SetOrderInitGenesis sets the order in which modules are initialized from genesis
func (r *Registry) SetOrderInitGenesis(names ...string) error {
	return r.setOrder(&r.initOrder, names)
}

// SetOrderExportGenesis sets the order in which modules are exported
func (r *Registry) SetOrderExportGenesis(names ...string) error {
	return r.setOrder(&r.exportOrder, names)
}

func (r *Registry) setOrder(order *[]string, names []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := r.ids[name]; !ok {
			return errors.Wrapf(ErrModuleNotFound, "module %s", name)
		}
		if _, ok := seen[name]; ok {
			return errors.Errorf("module %s appears twice in order", name)
		}
		seen[name] = struct{}{}
	}
	if len(names) != len(r.modules) {
		return errors.Errorf("order covers %d of %d modules", len(names), len(r.modules))
	}
	*order = append([]string{}, names...)
	return nil
}

// ordered returns the modules in the given order, or in registration order if the order is not set
func (r *Registry) ordered(order []string) []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(order) == 0 {
		all := make([]Module, len(r.modules))
		copy(all, r.modules)
		return all
	}
	ms := make([]Module, 0, len(order))
	for _, name := range order {
		ms = append(ms, r.modules[r.ids[name]])
	}
	return ms
}

// DefaultGenesis returns the genesis document made of the default section of every module
func (r *Registry) DefaultGenesis() ([]byte, error) {
	doc := make(map[string]json.RawMessage)
	for _, m := range r.All() {
		doc[m.Name()] = m.DefaultGenesis()
	}
	return json.Marshal(doc)
}

// ValidateGenesis validates the section of every module, a missing section falls back to the default one
func (r *Registry) ValidateGenesis(genesis []byte) error {
	sections, err := r.sections(genesis)
	if err != nil {
		return err
	}
	for _, m := range r.All() {
		if err := m.ValidateGenesis(sections[m.Name()]); err != nil {
			return errors.Wrapf(err, "invalid genesis of module %s", m.Name())
		}
	}
	return nil
}

// InitGenesis initializes every module from its genesis section and returns the
// concatenated validator updates in init order
func (r *Registry) InitGenesis(ctx context.Context, sm StateManager, genesis []byte) ([]abci.ValidatorUpdate, error) {
	sections, err := r.sections(genesis)
	if err != nil {
		return nil, err
	}
	var updates []abci.ValidatorUpdate
	for _, m := range r.ordered(r.initOrder) {
		section := sections[m.Name()]
		if err := m.ValidateGenesis(section); err != nil {
			return nil, errors.Wrapf(err, "invalid genesis of module %s", m.Name())
		}
		us, err := m.InitGenesis(ctx, ModuleStore(sm, m.Name()), section)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to init genesis of module %s", m.Name())
		}
		updates = append(updates, us...)
	}
	return updates, nil
}

// ExportGenesis exports the state of every module into a genesis document
func (r *Registry) ExportGenesis(ctx context.Context, sr StateReader) ([]byte, error) {
	doc := make(map[string]json.RawMessage)
	for _, m := range r.ordered(r.exportOrder) {
		section, err := m.ExportGenesis(ctx, ModuleReader(sr, m.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to export genesis of module %s", m.Name())
		}
		if !json.Valid(section) {
			return nil, errors.Wrapf(ErrInvalidGenesis, "module %s exported invalid json", m.Name())
		}
		doc[m.Name()] = section
	}
	return json.Marshal(doc)
}

func (r *Registry) sections(genesis []byte) (map[string][]byte, error) {
	if len(genesis) == 0 {
		genesis = []byte("{}")
	}
	if !gjson.ValidBytes(genesis) {
		return nil, errors.Wrap(ErrInvalidGenesis, "malformed json")
	}
	root := gjson.ParseBytes(genesis)
	if !root.IsObject() {
		return nil, errors.Wrap(ErrInvalidGenesis, "genesis is not an object")
	}
	modules := r.All()
	sections := make(map[string][]byte, len(modules))
	for _, m := range modules {
		// module names are alphanumeric, so a name is a valid gjson path
		section := root.Get(m.Name())
		if !section.Exists() {
			sections[m.Name()] = m.DefaultGenesis()
			continue
		}
		sections[m.Name()] = []byte(section.Raw)
	}
	root.ForEach(func(key, _ gjson.Result) bool {
		if _, ok := sections[key.String()]; !ok {
			log.L().Warn("Genesis section of unknown module is ignored.", zap.String("module", key.String()))
		}
		return true
	})
	return sections, nil
}

// BeginBlock calls BeginBlock of every module
func (r *Registry) BeginBlock(ctx context.Context, sm StateManager) error {
	for _, m := range r.ordered(r.beginOrder) {
		if err := m.BeginBlock(ctx, ModuleStore(sm, m.Name())); err != nil {
			return errors.Wrapf(err, "failed to begin block in module %s", m.Name())
		}
	}
	return nil
}

// EndBlock calls EndBlock of every module and returns the concatenated validator updates
func (r *Registry) EndBlock(ctx context.Context, sm StateManager) ([]abci.ValidatorUpdate, error) {
	var updates []abci.ValidatorUpdate
	for _, m := range r.ordered(r.endOrder) {
		us, err := m.EndBlock(ctx, ModuleStore(sm, m.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to end block in module %s", m.Name())
		}
		updates = append(updates, us...)
	}
	return updates, nil
}

// RegisterInvariants collects the invariants of every module
func (r *Registry) RegisterInvariants() {
	for _, m := range r.All() {
		m.RegisterInvariants(r)
	}
}

// RegisterRoute registers an invariant of a module
func (r *Registry) RegisterRoute(moduleName, route string, invar Invariant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invariants = append(r.invariants, invariantRoute{
		module: moduleName,
		route:  route,
		invar:  invar,
	})
}

// InvariantRoutes returns the names of registered invariants, sorted
func (r *Registry) InvariantRoutes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	routes := make([]string, 0, len(r.invariants))
	for _, ir := range r.invariants {
		routes = append(routes, ir.module+"/"+ir.route)
	}
	sort.Strings(routes)
	return routes
}

// AssertInvariants runs every registered invariant against the state of its module
func (r *Registry) AssertInvariants(ctx context.Context, sr StateReader) error {
	r.mu.RLock()
	invariants := make([]invariantRoute, len(r.invariants))
	copy(invariants, r.invariants)
	r.mu.RUnlock()

	var broken []string
	for _, ir := range invariants {
		if msg, ok := ir.invar(ctx, ModuleReader(sr, ir.module)); ok {
			broken = append(broken, ir.module+"/"+ir.route+": "+msg)
		}
	}
	if len(broken) > 0 {
		return errors.Wrap(ErrInvariantBroken, strings.Join(broken, "; "))
	}
	return nil
}
