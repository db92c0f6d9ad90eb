/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package trigger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/numaproj/numatrigger/pkg/window"
	"github.com/numaproj/numatrigger/pkg/wmb"
)

// ErrInvalidArgument is returned by trigger factories for invalid
// construction arguments, e.g. a sequential composite with fewer than two
// subtriggers. It is the only error this package originates; every other
// error surfacing from trigger evaluation is propagated unmodified from the
// state store or a subtrigger.
var ErrInvalidArgument = errors.New("invalid argument")

// Trigger is the contract every trigger variant implements. The variants are
// a closed set within this package; the engine interacts with a tree of them
// exclusively through an ExecutableTrigger wrapper, never directly.
//
// A variant must not keep per-window state on itself. The tree is immutable
// and shared across all windows; state goes through the context's store.
type Trigger interface {
	fmt.Stringer

	// OnElement reacts to a newly arrived element for the context's window.
	// It may update private state and subtrigger finished bits. It fails only
	// by propagating a failure raised by a subtrigger or the store.
	OnElement(c *OnElementContext) error
	// OnMerge reconciles state when a set of windows merges into one. The
	// merged window's state must be derived from the source windows' states,
	// never picked from one of them arbitrarily.
	OnMerge(c *OnMergeContext) error
	// ShouldFire reports whether the window should emit a pane now. It must
	// not mutate any state.
	ShouldFire(c *TriggerContext) (bool, error)
	// OnFire runs immediately after a true ShouldFire on the same state
	// snapshot and records that the firing happened.
	OnFire(c *TriggerContext) error
	// Clear discards the subtree's state for the context's window so the
	// subtree can run again from scratch, or never again.
	Clear(c *TriggerContext) error
	// SubTriggers returns the ordered subtriggers, empty for leaves.
	SubTriggers() []Trigger
	// WatermarkThatGuaranteesFiring returns the latest watermark at or after
	// which at least one firing is guaranteed for the window. The engine uses
	// it to know when an unfired window can be garbage collected.
	WatermarkThatGuaranteesFiring(w window.TimedWindow) wmb.Watermark
	// ContinuationTrigger returns the trigger to use downstream of an
	// execution boundary, built from the subtriggers' own continuations.
	ContinuationTrigger(continuationTriggers []Trigger) Trigger
}

// Continuation builds the downstream trigger for the given tree, i.e. the
// trigger to re-evaluate firing when this trigger's output is itself windowed
// and re-triggered in a further stage.
func Continuation(t Trigger) Trigger {
	subTriggers := t.SubTriggers()
	continuations := make([]Trigger, 0, len(subTriggers))
	for _, sub := range subTriggers {
		continuations = append(continuations, Continuation(sub))
	}
	return t.ContinuationTrigger(continuations)
}

// render produces the diagnostic form of a composite, e.g.
// "AfterEach.inOrder(a, b)". Diagnostics only, there is no parsing contract.
func render(name string, subTriggers []Trigger) string {
	parts := make([]string, 0, len(subTriggers))
	for _, sub := range subTriggers {
		parts = append(parts, sub.String())
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
