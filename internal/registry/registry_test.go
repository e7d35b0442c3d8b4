package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/gearguard/gearguard/internal/event"
	"github.com/gearguard/gearguard/pkg/plugin"
	"go.uber.org/zap"
)

// fakePlugin is a configurable test plugin.
type fakePlugin struct {
	info    plugin.PluginInfo
	initErr error
	subs    []plugin.Subscription
}

func (p *fakePlugin) Info() plugin.PluginInfo { return p.info }

func (p *fakePlugin) Init(ctx context.Context, deps plugin.Dependencies) error { return p.initErr }

func (p *fakePlugin) Start(ctx context.Context) error { return nil }
func (p *fakePlugin) Stop(ctx context.Context) error  { return nil }

func (p *fakePlugin) Subscriptions() []plugin.Subscription { return p.subs }

func newFake(name string, deps []string, required bool) *fakePlugin {
	return &fakePlugin{info: plugin.PluginInfo{
		Name:         name,
		Version:      "0.1.0",
		Dependencies: deps,
		Required:     required,
		APIVersion:   plugin.APIVersionCurrent,
	}}
}

func noDeps(name string) plugin.Dependencies {
	return plugin.Dependencies{Logger: zap.NewNop()}
}

func TestValidateOrdersDependencies(t *testing.T) {
	r := New(zap.NewNop())
	a := newFake("alert", []string{"predict", "notify"}, true)
	p := newFake("predict", nil, true)
	n := newFake("notify", nil, true)
	for _, pl := range []plugin.Plugin{a, p, n} {
		if err := r.Register(pl); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}

	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	pos := map[string]int{}
	for i, name := range r.order {
		pos[name] = i
	}
	if pos["alert"] < pos["predict"] || pos["alert"] < pos["notify"] {
		t.Errorf("alert ordered before its dependencies: %v", r.order)
	}
}

func TestValidateRejectsCycle(t *testing.T) {
	r := New(zap.NewNop())
	r.Register(newFake("a", []string{"b"}, true))
	r.Register(newFake("b", []string{"a"}, true))

	if err := r.Validate(); err == nil {
		t.Fatal("Validate() = nil, want cycle error")
	}
}

func TestValidateMissingDependency(t *testing.T) {
	// Required plugin with a missing dependency is a hard error.
	r := New(zap.NewNop())
	r.Register(newFake("alert", []string{"predict"}, true))
	if err := r.Validate(); err == nil {
		t.Fatal("Validate() = nil, want missing dependency error")
	}

	// Optional plugin is disabled instead.
	r = New(zap.NewNop())
	opt := newFake("feed", []string{"ghost"}, false)
	r.Register(opt)
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !r.IsDisabled("feed") {
		t.Error("optional plugin with missing dep not disabled")
	}
}

func TestInitAllRequiredFailureAborts(t *testing.T) {
	r := New(zap.NewNop())
	p := newFake("predict", nil, true)
	p.initErr = errors.New("boom")
	r.Register(p)
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	err := r.InitAll(context.Background(), nil, noDeps)
	if err == nil {
		t.Fatal("InitAll() = nil, want error for required plugin")
	}
}

func TestInitAllOptionalFailureDisables(t *testing.T) {
	r := New(zap.NewNop())
	ok := newFake("predict", nil, true)
	bad := newFake("feed", nil, false)
	bad.initErr = errors.New("boom")
	r.Register(ok)
	r.Register(bad)
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if err := r.InitAll(context.Background(), nil, noDeps); err != nil {
		t.Fatalf("InitAll() error = %v", err)
	}
	if !r.IsDisabled("feed") {
		t.Error("optional plugin not disabled after init failure")
	}
	if _, found := r.Get("feed"); found {
		t.Error("Get() returned disabled plugin")
	}
}

func TestInitAllWiresSubscriptions(t *testing.T) {
	r := New(zap.NewNop())
	bus := event.NewBus(zap.NewNop())

	received := 0
	p := newFake("feed", nil, false)
	p.subs = []plugin.Subscription{{
		Topic:   "alert.created",
		Handler: func(ctx context.Context, e plugin.Event) { received++ },
	}}
	r.Register(p)
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if err := r.InitAll(context.Background(), bus, noDeps); err != nil {
		t.Fatalf("InitAll() error = %v", err)
	}

	bus.Publish(context.Background(), plugin.Event{Topic: "alert.created"})
	if received != 1 {
		t.Errorf("subscription handler invoked %d times, want 1", received)
	}
}

func TestResolveByRole(t *testing.T) {
	r := New(zap.NewNop())
	p := newFake("predict", nil, true)
	p.info.Roles = []string{"prediction"}
	r.Register(p)
	r.Register(newFake("notify", nil, true))
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	got := r.ResolveByRole("prediction")
	if len(got) != 1 {
		t.Fatalf("ResolveByRole() returned %d plugins, want 1", len(got))
	}
	if got[0].Info().Name != "predict" {
		t.Errorf("resolved %q, want predict", got[0].Info().Name)
	}
	if len(r.ResolveByRole("no-such-role")) != 0 {
		t.Error("ResolveByRole(unknown) returned plugins")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := New(zap.NewNop())
	if err := r.Register(newFake("predict", nil, true)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(newFake("predict", nil, true)); err == nil {
		t.Fatal("duplicate Register() = nil, want error")
	}
}
