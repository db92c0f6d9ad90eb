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

import "go.uber.org/zap"

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger the executor logs with.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(e *Executor) {
		e.log = log
	}
}
