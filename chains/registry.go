package chains

import "strings"

// Registry resolves chain Refs to Descriptors. It is built once at process
// start and is read-only afterwards.
type Registry struct {
	byKey   map[string]*Descriptor
	byEVMID map[int64]*Descriptor
}

// NewRegistry builds a registry over the default chain set.
func NewRegistry() *Registry {
	return NewRegistryWith(defaultChains)
}

// NewRegistryWith builds a registry over an explicit descriptor set.
// Useful in tests.
func NewRegistryWith(descs []Descriptor) *Registry {
	r := &Registry{
		byKey:   make(map[string]*Descriptor, len(descs)),
		byEVMID: make(map[int64]*Descriptor, len(descs)),
	}
	for i := range descs {
		d := &descs[i]
		r.byKey[d.Key] = d
		if d.Family == FamilyEVM {
			r.byEVMID[d.EVMID] = d
		}
	}
	return r
}

// Describe resolves a Ref. Symbolic names are matched case-insensitively,
// so both "aptos" (wire id) and "APTOS" (config key) resolve.
func (r *Registry) Describe(ref Ref) (*Descriptor, error) {
	if ref.IsEVM() {
		if d, ok := r.byEVMID[ref.EVMID]; ok {
			return d, nil
		}
		return nil, &UnknownChainError{Ref: ref}
	}
	if d, ok := r.byKey[strings.ToUpper(ref.Name)]; ok {
		return d, nil
	}
	return nil, &UnknownChainError{Ref: ref}
}

// NativeSymbol returns the native token symbol for a chain.
func (r *Registry) NativeSymbol(ref Ref) (string, error) {
	d, err := r.Describe(ref)
	if err != nil {
		return "", err
	}
	return d.NativeSymbol, nil
}

// Keys lists the canonical names of all registered chains.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	return keys
}
