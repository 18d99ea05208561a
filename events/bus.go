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

// Package events 以 watermill 的 in-process gochannel 廣播計分板與轉盤的狀態變更。
//
// 所有事件都發到同一個 feed topic，訂閱端（例如 SSE）依 Envelope.Type 分辨事件種類。
// 每個訂閱者收到的事件順序與發佈順序一致，Envelope.Seq 嚴格遞增；
// 訂閱端跟不上時事件會被丟棄，Seq 出現跳號即代表漏收。
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/zintix-labs/gameshow/errs"
)

const (
	// FeedTopic 唯一的廣播 topic。
	FeedTopic = "gameshow.feed"

	TypeScoreUpdated = "score.updated"
	TypeWheelSpun    = "wheel.spun"
	TypeWheelChanged = "wheel.changed"
)

var ErrBusClosed = errs.NewWarn("event bus closed")

// Envelope 是在 bus 上流動的事件外框。
type Envelope struct {
	ID      string          `json:"id"`
	Seq     uint64          `json:"seq"`
	Type    string          `json:"type"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload"`
}

// Bus 包裝 gochannel，提供型別化的 Publish / Subscribe。
// 同時實作 app.Component：Run 阻塞到 Shutdown 為止。
type Bus struct {
	pubsub *gochannel.GoChannel
	log    *slog.Logger
	buffer int64

	pubMu sync.Mutex // 序號配發與投遞同一把鎖
	seq   uint64

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewBus 建立 in-process bus；buffer 為每個訂閱者的輸出緩衝。
func NewBus(log *slog.Logger, buffer int64) *Bus {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if buffer <= 0 {
		buffer = 64
	}
	ps := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: buffer,
			// 前一則被所有訂閱者 ack 之後才送下一則，訂閱端才不會收到亂序事件
			BlockPublishUntilSubscriberAck: true,
		},
		watermill.NewSlogLogger(log.With(slog.String("component", "events"))),
	)
	return &Bus{
		pubsub: ps,
		log:    log,
		buffer: buffer,
		done:   make(chan struct{}),
	}
}

// Publish 將 payload 編成 JSON 後以 typ 發佈並配發下一個 Seq。沒有訂閱者時事件直接丟棄。
//
// 同時呼叫 Publish 時，Seq 的順序就是各訂閱者收到的順序。
func (b *Bus) Publish(typ string, payload any) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrBusClosed
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "encode event payload")
	}

	b.pubMu.Lock()
	defer b.pubMu.Unlock()
	env := Envelope{
		ID:      watermill.NewUUID(),
		Seq:     b.seq + 1,
		Type:    typ,
		At:      time.Now().UTC(),
		Payload: raw,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return errs.Wrap(err, "encode event envelope")
	}
	msg := message.NewMessage(env.ID, data)
	msg.Metadata.Set("type", typ)
	if err := b.pubsub.Publish(FeedTopic, msg); err != nil {
		return errs.Wrap(err, "publish event")
	}
	b.seq = env.Seq
	return nil
}

// Subscribe 訂閱 feed；ctx 結束或 bus 關閉時回傳的 channel 會被關閉。
//
// 回傳的 channel 緩衝與 bus 相同；緩衝滿時新事件被丟棄，不會卡住發佈端。
func (b *Bus) Subscribe(ctx context.Context) (<-chan Envelope, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, ErrBusClosed
	}

	msgs, err := b.pubsub.Subscribe(ctx, FeedTopic)
	if err != nil {
		return nil, errs.Wrap(err, "subscribe feed")
	}
	out := make(chan Envelope, b.buffer)
	go func() {
		defer close(out)
		for msg := range msgs {
			var env Envelope
			if err := json.Unmarshal(msg.Payload, &env); err != nil {
				b.log.Warn("events: drop malformed message", slog.String("uuid", msg.UUID), slog.Any("err", err))
				msg.Ack()
				continue
			}
			if ctx.Err() != nil {
				msg.Ack()
				return
			}
			// 先決定放行或丟棄再 ack：Publish 返回時事件已在 out 之中
			select {
			case out <- env:
			default:
				b.log.Warn("events: subscriber lagging, event dropped",
					slog.Uint64("seq", env.Seq), slog.String("type", env.Type))
			}
			msg.Ack()
		}
	}()
	return out, nil
}

// Run 阻塞直到 Shutdown。
func (b *Bus) Run() error {
	<-b.done
	return nil
}

// Shutdown 關閉底層 pubsub；所有訂閱 channel 隨之關閉。重複呼叫安全。
func (b *Bus) Shutdown(ctx context.Context) error {
	return b.Close()
}

// Close 與 Shutdown 相同，但不需要 context。
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	b.mu.Unlock()

	if err := b.pubsub.Close(); err != nil {
		return errs.Wrap(err, "close event bus")
	}
	return nil
}
