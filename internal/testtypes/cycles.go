package testtypes

import "github.com/sectrean/component-kit"

// CtorA and CtorB depend on each other through their constructors.
type CtorA struct{ B *CtorB }
type CtorB struct{ A *CtorA }

func NewCtorA(b *CtorB) *CtorA { return &CtorA{B: b} }
func NewCtorB(a *CtorA) *CtorB { return &CtorB{A: a} }

// SetterA and SetterB depend on each other through injection targets.
type SetterA struct {
	B           *SetterB
	Initialized int
}

type SetterB struct {
	A *SetterA
}

func NewSetterA() *SetterA { return &SetterA{} }
func NewSetterB() *SetterB { return &SetterB{} }

func (a *SetterA) SetB(b *SetterB) { a.B = b }

// MixedA takes MixedB in its constructor; MixedB has MixedA injected into a field.
type MixedA struct{ B *MixedB }
type MixedB struct{ A *MixedA }

func NewMixedA(b *MixedB) *MixedA { return &MixedA{B: b} }
func NewMixedB() *MixedB { return &MixedB{} }

// SelfRef is a per-request component that depends on itself.
type SelfRef struct{ Next *SelfRef }

func NewSelfRef(next *SelfRef) *SelfRef { return &SelfRef{Next: next} }

// ProviderCycleA takes a provider for ProviderCycleB, which depends on
// ProviderCycleA directly.
type ProviderCycleA struct {
	B di.Provider[*ProviderCycleB]
}

type ProviderCycleB struct {
	A *ProviderCycleA
}

func NewProviderCycleA(b di.Provider[*ProviderCycleB]) *ProviderCycleA {
	return &ProviderCycleA{B: b}
}

func NewProviderCycleB(a *ProviderCycleA) *ProviderCycleB {
	return &ProviderCycleB{A: a}
}
