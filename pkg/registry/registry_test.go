package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// testComponent is a simple capability type for registry tests.
type testComponent struct {
	name string
}

func (t *testComponent) Name() string {
	return t.name
}

func TestNew(t *testing.T) {
	r := New[*testComponent]("test-registry")
	if r == nil {
		t.Fatal("New() returned nil")
	}
	if r.Name() != "test-registry" {
		t.Errorf("Name() = %q, want %q", r.Name(), "test-registry")
	}
	if r.Count() != 0 {
		t.Errorf("new registry Count() = %d, want 0", r.Count())
	}
}

func TestRegistry_Register(t *testing.T) {
	r := New[*testComponent]("test")

	factory := func(cfg Config) (*testComponent, error) {
		return &testComponent{name: "test1"}, nil
	}

	r.Register("test1", factory)

	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}

	if !r.Has("test1") {
		t.Error("Has(test1) = false, want true")
	}
}

func TestRegistry_Register_Replace(t *testing.T) {
	r := New[*testComponent]("test")

	factory1 := func(cfg Config) (*testComponent, error) {
		return &testComponent{name: "version1"}, nil
	}

	factory2 := func(cfg Config) (*testComponent, error) {
		return &testComponent{name: "version2"}, nil
	}

	// Register first version
	r.Register("test", factory1)

	// Replace with second version
	r.Register("test", factory2)

	// Should still have only 1 registration
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}

	// Should get the second version
	comp, err := r.Create("test", Config{})
	if err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}

	if comp.name != "version2" {
		t.Errorf("component name = %q, want %q", comp.name, "version2")
	}
}

func TestRegistry_Get(t *testing.T) {
	r := New[*testComponent]("test")

	factory := func(cfg Config) (*testComponent, error) {
		return &testComponent{name: "test1"}, nil
	}

	r.Register("test1", factory)

	// Get registered factory
	f, ok := r.Get("test1")
	if !ok {
		t.Fatal("Get(test1) returned false, want true")
	}
	if f == nil {
		t.Fatal("Get(test1) returned nil factory")
	}

	// Get unregistered factory
	_, ok = r.Get("nonexistent")
	if ok {
		t.Error("Get(nonexistent) returned true, want false")
	}
}

func TestRegistry_Create(t *testing.T) {
	r := New[*testComponent]("test")

	factory := func(cfg Config) (*testComponent, error) {
		name := "default"
		if n, ok := cfg["name"].(string); ok {
			name = n
		}
		return &testComponent{name: name}, nil
	}

	r.Register("test1", factory)

	// Create with empty config
	comp, err := r.Create("test1", Config{})
	if err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}
	if comp.name != "default" {
		t.Errorf("component name = %q, want %q", comp.name, "default")
	}

	// Create with custom config
	comp, err = r.Create("test1", Config{"name": "custom"})
	if err != nil {
		t.Fatalf("Create() with config error = %v, want nil", err)
	}
	if comp.name != "custom" {
		t.Errorf("component name = %q, want %q", comp.name, "custom")
	}
}

func TestRegistry_Create_NotFound(t *testing.T) {
	r := New[*testComponent]("test-registry")

	_, err := r.Create("nonexistent", Config{})
	if err == nil {
		t.Fatal("Create(nonexistent) error = nil, want error")
	}

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Create() error = %v, want %v", err, ErrNotFound)
	}

	// Check error message contains registry name and component name
	errMsg := err.Error()
	if errMsg == "" {
		t.Error("error message is empty")
	}
}

func TestRegistry_Create_FactoryError(t *testing.T) {
	r := New[*testComponent]("test")

	factoryErr := errors.New("factory failed")
	factory := func(cfg Config) (*testComponent, error) {
		return nil, factoryErr
	}

	r.Register("failing", factory)

	_, err := r.Create("failing", Config{})
	if err == nil {
		t.Fatal("Create() error = nil, want error")
	}

	if !errors.Is(err, factoryErr) {
		t.Errorf("Create() error = %v, want %v", err, factoryErr)
	}
}

func TestRegistry_List(t *testing.T) {
	r := New[*testComponent]("test")

	// Empty registry
	list := r.List()
	if len(list) != 0 {
		t.Errorf("List() on empty registry = %v, want empty slice", list)
	}

	// Register several components
	names := []string{"zebra", "alpha", "beta", "gamma"}
	for _, name := range names {
		r.Register(name, func(cfg Config) (*testComponent, error) {
			return &testComponent{name: name}, nil
		})
	}

	list = r.List()
	if len(list) != len(names) {
		t.Fatalf("List() returned %d items, want %d", len(list), len(names))
	}

	// List should be sorted alphabetically
	expectedOrder := []string{"alpha", "beta", "gamma", "zebra"}
	for i, name := range list {
		if name != expectedOrder[i] {
			t.Errorf("List()[%d] = %q, want %q", i, name, expectedOrder[i])
		}
	}
}

func TestRegistry_Has(t *testing.T) {
	r := New[*testComponent]("test")

	if r.Has("test1") {
		t.Error("Has(test1) = true on empty registry, want false")
	}

	r.Register("test1", func(cfg Config) (*testComponent, error) {
		return &testComponent{name: "test1"}, nil
	})

	if !r.Has("test1") {
		t.Error("Has(test1) = false after registration, want true")
	}

	if r.Has("test2") {
		t.Error("Has(test2) = true for unregistered, want false")
	}
}

func TestRegistry_Count(t *testing.T) {
	r := New[*testComponent]("test")

	if r.Count() != 0 {
		t.Errorf("Count() = %d on empty registry, want 0", r.Count())
	}

	for i := 1; i <= 5; i++ {
		name := fmt.Sprintf("test%d", i)
		r.Register(name, func(cfg Config) (*testComponent, error) {
			return &testComponent{name: name}, nil
		})

		if r.Count() != i {
			t.Errorf("Count() = %d after %d registrations, want %d", r.Count(), i, i)
		}
	}

	// Re-registering same name shouldn't increase count
	r.Register("test1", func(cfg Config) (*testComponent, error) {
		return &testComponent{name: "test1-v2"}, nil
	})

	if r.Count() != 5 {
		t.Errorf("Count() = %d after re-registration, want 5", r.Count())
	}
}

func TestRegistry_Name(t *testing.T) {
	// atf's own capability registries, by name, plus an edge case.
	tests := []struct {
		name string
	}{
		{"technique"},
		{"abort"},
		{"backend"},
		{"test-registry"},
		{""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New[*testComponent](tt.name)
			if r.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", r.Name(), tt.name)
			}
		})
	}
}

func TestRegistry_ConcurrentRegistration(t *testing.T) {
	r := New[*testComponent]("test")

	const numGoroutines = 100
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	// Register components concurrently
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			name := fmt.Sprintf("test%d", id)
			r.Register(name, func(cfg Config) (*testComponent, error) {
				return &testComponent{name: name}, nil
			})
		}(i)
	}

	wg.Wait()

	if r.Count() != numGoroutines {
		t.Errorf("Count() = %d after concurrent registration, want %d", r.Count(), numGoroutines)
	}

	// Verify all registrations
	for i := 0; i < numGoroutines; i++ {
		name := fmt.Sprintf("test%d", i)
		if !r.Has(name) {
			t.Errorf("Has(%q) = false, want true", name)
		}
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := New[*testComponent]("test")

	// Pre-register some components
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("test%d", i)
		r.Register(name, func(cfg Config) (*testComponent, error) {
			return &testComponent{name: name}, nil
		})
	}

	const numGoroutines = 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines * 4) // 4 operations per goroutine

	// Mix of concurrent reads and writes
	for i := 0; i < numGoroutines; i++ {
		// Get
		go func(id int) {
			defer wg.Done()
			name := fmt.Sprintf("test%d", id%10)
			_, ok := r.Get(name)
			if !ok {
				t.Errorf("Get(%q) = false, want true", name)
			}
		}(i)

		// Has
		go func(id int) {
			defer wg.Done()
			name := fmt.Sprintf("test%d", id%10)
			if !r.Has(name) {
				t.Errorf("Has(%q) = false, want true", name)
			}
		}(i)

		// List
		go func() {
			defer wg.Done()
			list := r.List()
			if len(list) < 10 {
				t.Errorf("List() returned %d items, want >= 10", len(list))
			}
		}()

		// Create
		go func(id int) {
			defer wg.Done()
			name := fmt.Sprintf("test%d", id%10)
			_, err := r.Create(name, Config{})
			if err != nil {
				t.Errorf("Create(%q) error = %v, want nil", name, err)
			}
		}(i)
	}

	wg.Wait()
}

func TestRegistry_MultipleTypes(t *testing.T) {
	// Test that different registries with different types work independently,
	// mirroring atf's separate technique.Registry and abort.Registry.

	type techniqueStub struct {
		seed int64
	}
	type abortStub struct {
		threshold float64
	}

	techniques := New[*techniqueStub]("technique")
	aborts := New[*abortStub]("abort")

	techniques.Register("random", func(cfg Config) (*techniqueStub, error) {
		return &techniqueStub{seed: 7}, nil
	})

	aborts.Register("evaluations", func(cfg Config) (*abortStub, error) {
		return &abortStub{threshold: 100}, nil
	})

	// Both should be independent
	tech, err := techniques.Create("random", Config{})
	if err != nil {
		t.Fatalf("techniques.Create() error = %v", err)
	}
	if tech.seed != 7 {
		t.Errorf("tech.seed = %d, want %d", tech.seed, 7)
	}

	abortCond, err := aborts.Create("evaluations", Config{})
	if err != nil {
		t.Fatalf("aborts.Create() error = %v", err)
	}
	if abortCond.threshold != 100 {
		t.Errorf("abortCond.threshold = %v, want %v", abortCond.threshold, 100.0)
	}
}

func TestConfig(t *testing.T) {
	// Test Config map functionality
	cfg := Config{
		"string": "value",
		"int":    42,
		"bool":   true,
		"nested": Config{
			"key": "nested-value",
		},
	}

	// Test type assertions
	if v, ok := cfg["string"].(string); !ok || v != "value" {
		t.Errorf("cfg[string] = %v (%T), want %q (string)", cfg["string"], cfg["string"], "value")
	}

	if v, ok := cfg["int"].(int); !ok || v != 42 {
		t.Errorf("cfg[int] = %v (%T), want %d (int)", cfg["int"], cfg["int"], 42)
	}

	if v, ok := cfg["bool"].(bool); !ok || v != true {
		t.Errorf("cfg[bool] = %v (%T), want %t (bool)", cfg["bool"], cfg["bool"], true)
	}

	if v, ok := cfg["nested"].(Config); !ok {
		t.Errorf("cfg[nested] type = %T, want Config", cfg["nested"])
	} else {
		if nv, ok := v["key"].(string); !ok || nv != "nested-value" {
			t.Errorf("cfg[nested][key] = %v, want %q", nv, "nested-value")
		}
	}
}

// TestTypedFactoryCompileTimeCheck verifies that TypedFactory
// catches type mismatches at compile time, not runtime.
func TestTypedFactoryCompileTimeCheck(t *testing.T) {
	type MyConfig struct {
		CoolingRate float64
		Seed        int64
	}

	type MyComponent struct {
		coolingRate float64
		seed        int64
	}

	// This should compile - correct types
	var factory TypedFactory[MyConfig, *MyComponent] = func(cfg MyConfig) (*MyComponent, error) {
		return &MyComponent{coolingRate: cfg.CoolingRate, seed: cfg.Seed}, nil
	}

	cfg := MyConfig{CoolingRate: 0.95, Seed: 7}
	result, err := factory(cfg)

	if err != nil {
		t.Fatalf("factory() error = %v, want nil", err)
	}
	if result.coolingRate != 0.95 {
		t.Errorf("result.coolingRate = %f, want %f", result.coolingRate, 0.95)
	}
	if result.seed != 7 {
		t.Errorf("result.seed = %d, want %d", result.seed, 7)
	}
}

func TestNoConfigFactory(t *testing.T) {
	type MyComponent struct {
		name string
	}

	// NoConfig factories should work
	var factory TypedFactory[NoConfig, *MyComponent] = func(_ NoConfig) (*MyComponent, error) {
		return &MyComponent{name: "test"}, nil
	}

	result, err := factory(NoConfig{})
	if err != nil {
		t.Fatalf("factory() error = %v, want nil", err)
	}
	if result.name != "test" {
		t.Errorf("result.name = %q, want %q", result.name, "test")
	}
}

func TestFromMapAdapter(t *testing.T) {
	type shellBackendConfig struct {
		Command  string
		CostFile string
		Timeout  float64
		Verbose  bool
	}

	// Parser function that converts map[string]any to typed config
	parser := func(m Config) (shellBackendConfig, error) {
		cfg := shellBackendConfig{}
		if cmd, ok := m["command"].(string); ok {
			cfg.Command = cmd
		} else {
			return cfg, fmt.Errorf("command required")
		}
		if costFile, ok := m["cost_file"].(string); ok {
			cfg.CostFile = costFile
		}
		if timeout, ok := m["timeout"].(float64); ok {
			cfg.Timeout = timeout
		}
		if verbose, ok := m["verbose"].(bool); ok {
			cfg.Verbose = verbose
		}
		return cfg, nil
	}

	// TypedFactory with proper types
	typedFactory := func(cfg shellBackendConfig) (string, error) {
		return fmt.Sprintf("command=%s,timeout=%.1f", cfg.Command, cfg.Timeout), nil
	}

	// Adapt to legacy registry.Config signature
	legacyFactory := FromMap(typedFactory, parser)

	// Test with legacy Config (map[string]any)
	result, err := legacyFactory(Config{
		"command":   "./bench",
		"cost_file": "cost.txt",
		"timeout":   30.0,
	})

	if err != nil {
		t.Fatalf("legacyFactory() error = %v, want nil", err)
	}
	if result != "command=./bench,timeout=30.0" {
		t.Errorf("result = %q, want %q", result, "command=./bench,timeout=30.0")
	}
}

func TestFromMapParserError(t *testing.T) {
	parser := func(m Config) (string, error) {
		command, ok := m["command"].(string)
		if !ok {
			return "", fmt.Errorf("command required")
		}
		return command, nil
	}

	factory := func(cfg string) (string, error) {
		return "got: " + cfg, nil
	}

	adapted := FromMap(factory, parser)

	// Missing command should fail
	_, err := adapted(Config{})
	if err == nil {
		t.Fatal("adapted() error = nil, want error")
	}
	errMsg := err.Error()
	if errMsg == "" || errMsg != "command required" {
		t.Errorf("error message = %q, want %q", errMsg, "command required")
	}
}
