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

// Package wmb defines the watermark value type shared between the trigger
// subsystem and the enclosing engine. The watermark is a monotonically
// increasing lower bound on the event times still to arrive.
package wmb

import (
	"math"
	"time"
)

// Watermark is the monotonically increasing watermark published by the engine.
type Watermark time.Time

// InitialWatermark is the watermark of a pipeline that has not seen any data yet.
var InitialWatermark = Watermark(time.UnixMilli(-1))

// MaxWatermark is the end of time. A trigger whose firing cannot be
// guaranteed by watermark progress alone reports MaxWatermark as its bound.
var MaxWatermark = Watermark(time.UnixMilli(math.MaxInt64))

func (w Watermark) String() string {
	var location, _ = time.LoadLocation("UTC")
	var t = time.Time(w).In(location)
	return t.Format(time.RFC3339Nano)
}

func (w Watermark) UnixMilli() int64 {
	return time.Time(w).UnixMilli()
}

func (w Watermark) After(t time.Time) bool {
	return time.Time(w).After(t)
}

func (w Watermark) AfterWatermark(compare Watermark) bool {
	return w.After(time.Time(compare))
}

func (w Watermark) Before(t time.Time) bool {
	return time.Time(w).Before(t)
}

func (w Watermark) BeforeWatermark(compare Watermark) bool {
	return w.Before(time.Time(compare))
}

func (w Watermark) Add(t time.Duration) time.Time {
	return time.Time(w).Add(t)
}

// Min returns the earlier of the two watermarks.
func Min(a Watermark, b Watermark) Watermark {
	if a.BeforeWatermark(b) {
		return a
	}
	return b
}

// Max returns the later of the two watermarks.
func Max(a Watermark, b Watermark) Watermark {
	if a.AfterWatermark(b) {
		return a
	}
	return b
}
