// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

func recv(t *testing.T, ch <-chan Envelope) Envelope {
	t.Helper()
	select {
	case env, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed")
		}
		return env
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for event")
	}
	return Envelope{}
}

func TestPublishSubscribe(t *testing.T) {
	bus := NewBus(nil, 8)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := bus.Publish(TypeScoreUpdated, map[string]int{"A": 3}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := bus.Publish(TypeWheelSpun, map[string]string{"text": "Challenge"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := make(map[string]Envelope)
	for range 2 {
		env := recv(t, ch)
		got[env.Type] = env
	}
	score, ok := got[TypeScoreUpdated]
	if !ok || score.ID == "" || score.At.IsZero() {
		t.Fatalf("score event = %+v", score)
	}
	var scores map[string]int
	if err := json.Unmarshal(score.Payload, &scores); err != nil || scores["A"] != 3 {
		t.Fatalf("payload = %s (%v)", score.Payload, err)
	}
	if _, ok := got[TypeWheelSpun]; !ok {
		t.Fatalf("missing %s event: %v", TypeWheelSpun, got)
	}
}

func TestPublishWithoutSubscriber(t *testing.T) {
	bus := NewBus(nil, 0)
	defer bus.Close()
	if err := bus.Publish(TypeWheelChanged, nil); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func TestClose(t *testing.T) {
	bus := NewBus(nil, 8)
	ch, err := bus.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	runErr := make(chan error, 1)
	go func() { runErr <- bus.Run() }()

	if err := bus.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return")
	}

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("unexpected event after close")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("subscription not closed")
	}

	if err := bus.Publish(TypeWheelSpun, nil); !errors.Is(err, ErrBusClosed) {
		t.Fatalf("want ErrBusClosed, got %v", err)
	}
	if _, err := bus.Subscribe(context.Background()); !errors.Is(err, ErrBusClosed) {
		t.Fatalf("want ErrBusClosed, got %v", err)
	}
}

func TestDeliveryOrder(t *testing.T) {
	const n = 200
	bus := NewBus(nil, n)
	defer bus.Close()
	ch, err := bus.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	for i := range n {
		if err := bus.Publish(TypeScoreUpdated, i); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	for i := range n {
		env := recv(t, ch)
		var v int
		if err := json.Unmarshal(env.Payload, &v); err != nil {
			t.Fatalf("payload = %s (%v)", env.Payload, err)
		}
		if v != i || env.Seq != uint64(i+1) {
			t.Fatalf("event %d: payload=%d seq=%d", i, v, env.Seq)
		}
	}
}

func TestConcurrentPublishSeq(t *testing.T) {
	const (
		workers = 8
		each    = 25
	)
	bus := NewBus(nil, workers*each)
	defer bus.Close()
	ch, err := bus.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range each {
				if err := bus.Publish(TypeWheelChanged, nil); err != nil {
					t.Errorf("publish: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	for i := range workers * each {
		if env := recv(t, ch); env.Seq != uint64(i+1) {
			t.Fatalf("event %d has seq %d", i, env.Seq)
		}
	}
}

func TestLaggingSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus(nil, 4)
	defer bus.Close()
	ch, err := bus.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 20 {
			if err := bus.Publish(TypeWheelSpun, nil); err != nil {
				t.Errorf("publish: %v", err)
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publish blocked on a subscriber that does not read")
	}

	// 緩衝內保留最早的 4 則，其餘丟棄
	for i := range 4 {
		if env := recv(t, ch); env.Seq != uint64(i+1) {
			t.Fatalf("event %d has seq %d", i, env.Seq)
		}
	}
	select {
	case env := <-ch:
		t.Fatalf("unexpected event %+v", env)
	default:
	}
}
