// Package notify announces finished rebuilds to external listeners.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

const publishTimeout = 5 * time.Second

// Event describes one published snapshot.
type Event struct {
	Generation string    `json:"generation"`
	Scope      string    `json:"scope"`
	Pages      int       `json:"pages"`
	Static     int       `json:"static_files"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher delivers rebuild events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop discards events.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                        { return nil }

// NATSPublisher publishes events as JSON on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("pagesmith"))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNetwork, "connect to NATS").
			WithContext("url", url).Build()
	}
	slog.Info("NATS rebuild notifications enabled", logfields.URL(url), logfields.Subject(subject))
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Publish sends e and flushes so delivery errors surface here.
func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "marshal rebuild event").Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "publish rebuild event").
			WithContext("subject", p.subject).Build()
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "flush rebuild event").
			WithContext("subject", p.subject).Build()
	}
	slog.Debug("Published rebuild event", logfields.Generation(e.Generation), logfields.Subject(p.subject))
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

// FromURL returns a NATSPublisher when url is set and Noop otherwise.
func FromURL(url, subject string) (Publisher, error) {
	if url == "" {
		return Noop{}, nil
	}
	return NewNATSPublisher(url, subject)
}
