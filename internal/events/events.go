// Package events publishes change notifications for scheduler records.
package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	AppointmentCreated     = "appointment.created"
	AppointmentUpdated     = "appointment.updated"
	AppointmentDeleted     = "appointment.deleted"
	AppointmentTypeCreated = "appointment_type.created"
	AppointmentTypeUpdated = "appointment_type.updated"
	AppointmentTypeDeleted = "appointment_type.deleted"
	PatternSet             = "auth.pattern_set"
)

type Event struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	At   string `json:"at"`
	Data any    `json:"data,omitempty"`
}

// Publisher never fails the caller; delivery problems are logged.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

type Redis struct {
	client  *redis.Client
	channel string
}

func NewRedis(client *redis.Client, channel string) *Redis {
	return &Redis{client: client, channel: channel}
}

// DialRedis parses url and checks the server answers.
func DialRedis(ctx context.Context, url, channel string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	c := redis.NewClient(opt)
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, err
	}
	return NewRedis(c, channel), nil
}

func (r *Redis) Publish(ctx context.Context, e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("[events] marshal %s: %v", e.Type, err)
		return
	}
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		log.Printf("[events] publish %s to %s: %v", e.Type, r.channel, err)
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Subscribe delivers events from the channel to fn until ctx ends.
func (r *Redis) Subscribe(ctx context.Context, fn func(Event)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				log.Printf("[events] bad payload on %s: %v", r.channel, err)
				continue
			}
			fn(e)
		}
	}
}

// Log writes events to the process log. Used when no broker is configured.
type Log struct{}

func (Log) Publish(_ context.Context, e Event) {
	log.Printf("[events] %s id=%s", e.Type, e.ID)
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types lists the recorded event types in publish order.
func (r *Recorder) Types() []string {
	var out []string
	for _, e := range r.Events() {
		out = append(out, e.Type)
	}
	return out
}
