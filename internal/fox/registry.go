package fox

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

const (
	RandomAdjacentName         = "adjacent"
	RandomAdjacentWithStayName = "adjacent-stay"
)

var (
	ErrPolicyExists   = errors.New("fox policy already registered")
	ErrPolicyNotFound = errors.New("fox policy not found")
)

var policyRegistry = struct {
	mu sync.RWMutex
	m  map[string]Factory
}{
	m: make(map[string]Factory),
}

func init() {
	initializeBuiltInPolicies()
}

func initializeBuiltInPolicies() {
	MustRegister(RandomAdjacentName, NewRandomAdjacent)
	MustRegister(RandomAdjacentWithStayName, NewRandomAdjacentWithStay)
}

func Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("fox policy name is required")
	}
	if factory == nil {
		return errors.New("fox policy factory is required")
	}

	policyRegistry.mu.Lock()
	defer policyRegistry.mu.Unlock()

	if _, exists := policyRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrPolicyExists, name)
	}
	policyRegistry.m[name] = factory
	return nil
}

func MustRegister(name string, factory Factory) {
	if err := Register(name, factory); err != nil {
		panic(err)
	}
}

func Get(name string) (Factory, error) {
	policyRegistry.mu.RLock()
	factory, ok := policyRegistry.m[name]
	policyRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPolicyNotFound, name)
	}
	return factory, nil
}

func List() []string {
	policyRegistry.mu.RLock()
	defer policyRegistry.mu.RUnlock()

	names := make([]string, 0, len(policyRegistry.m))
	for name := range policyRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetRegistryForTests() {
	policyRegistry.mu.Lock()
	policyRegistry.m = make(map[string]Factory)
	policyRegistry.mu.Unlock()
	initializeBuiltInPolicies()
}
