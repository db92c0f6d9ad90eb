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

package commands

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/numaproj/numatrigger/pkg/shared/kvs/inmem"
	"github.com/numaproj/numatrigger/pkg/shared/logging"
	"github.com/numaproj/numatrigger/pkg/trigger"
	"github.com/numaproj/numatrigger/pkg/trigger/state"
	"github.com/numaproj/numatrigger/pkg/window"
	"github.com/numaproj/numatrigger/pkg/window/strategy/session"
	"github.com/numaproj/numatrigger/pkg/wmb"
)

// NewSimulateCommand runs a synthetic session-window stream against a
// composite trigger and logs the firings, merges and finishes it produces.
func NewSimulateCommand() *cobra.Command {
	var (
		gap      time.Duration
		count    int64
		events   int
		keyCount int
		maxDelay time.Duration
		seed     int64
	)

	command := &cobra.Command{
		Use:   "simulate",
		Short: "Drive a composite trigger with a synthetic session-window stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.NewLogger().Named("simulate")
			ctx := logging.WithLogger(context.Background(), log)

			elementCount, err := trigger.ElementCountAtLeast(count)
			if err != nil {
				return err
			}
			root, err := trigger.InOrder(elementCount, trigger.AfterWatermark())
			if err != nil {
				return err
			}
			log.Infow("simulating", zap.String("trigger", root.String()),
				zap.Duration("gap", gap), zap.Int("events", events))

			windower := session.NewWindower(gap)
			store := state.NewKVStore(inmem.NewKVInMemKVStore(ctx, "trigger-state"))
			executor := trigger.NewExecutor(ctx, root, store, windower.Strategy(), trigger.WithLogger(log))

			r := rand.New(rand.NewSource(seed))
			eventTime := time.Now().Truncate(time.Minute)
			for i := 0; i < events; i++ {
				eventTime = eventTime.Add(time.Duration(r.Int63n(int64(maxDelay))))
				watermark := wmb.Watermark(eventTime.Add(-maxDelay))
				keys := []string{fmt.Sprintf("key-%d", r.Intn(keyCount))}

				win, replaced := windower.AssignWindow(keys, eventTime)
				if len(replaced) > 0 {
					result, err := executor.OnMerge(ctx, replaced, win, watermark)
					if err != nil {
						return err
					}
					logResult(log, "merge", win, result)
				}
				result, err := executor.OnElement(ctx, win, eventTime, watermark)
				if err != nil {
					return err
				}
				logResult(log, "element", win, result)

				for _, closed := range windower.CloseWindows(time.Time(watermark)) {
					result, err := executor.OnWatermark(ctx, closed, watermark)
					if err != nil {
						return err
					}
					logResult(log, "close", closed, result)
					if err := executor.Clear(ctx, closed); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	command.Flags().DurationVar(&gap, "gap", 10*time.Second, "Session gap duration")
	command.Flags().Int64Var(&count, "count", 5, "Element count that triggers an early pane")
	command.Flags().IntVar(&events, "events", 100, "Number of synthetic events to generate")
	command.Flags().IntVar(&keyCount, "keys", 3, "Number of distinct keys")
	command.Flags().DurationVar(&maxDelay, "max-delay", 5*time.Second, "Maximum inter-arrival delay between events")
	command.Flags().Int64Var(&seed, "seed", 42, "Seed of the synthetic stream")
	return command
}

func logResult(log *zap.SugaredLogger, callback string, w window.TimedWindow, result trigger.Result) {
	if !result.Fired && !result.Finished {
		return
	}
	log.Infow("pane decision",
		zap.String("callback", callback),
		zap.String("window", w.Partition().String()),
		zap.Bool("fired", result.Fired),
		zap.Bool("finished", result.Finished))
}
