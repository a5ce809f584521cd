// Package notify announces completed term set builds on NATS.
//
// Downstream consumers (model loaders, graph ingesters) subscribe to the
// build subject and pick up the new Terms file instead of polling for it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	errs "github.com/c360studio/semstreams/errors"
	"github.com/nats-io/nats.go"
)

// DefaultSubject is the subject build events are published on.
const DefaultSubject = "termset.built"

// flushTimeout bounds how long Publish waits for the server to acknowledge.
const flushTimeout = 5 * time.Second

// BuildEvent describes a finished build.
type BuildEvent struct {
	RunID        string    `json:"run_id"`
	Vocabulary   string    `json:"vocabulary"`
	Mapping      string    `json:"mapping,omitempty"`
	Input        string    `json:"input"`
	Output       string    `json:"output"`
	Exports      []string  `json:"exports,omitempty"`
	Mode         string    `json:"mode"`
	Rows         int       `json:"rows"`
	Terms        int       `json:"terms"`
	SynonymTerms int       `json:"synonym_terms"`
	MappedTerms  int       `json:"mapped_terms"`
	FinishedAt   time.Time `json:"finished_at"`
}

// conn is the subset of *nats.Conn used by the publisher.
type conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// Publisher publishes build events to one subject.
type Publisher struct {
	conn    conn
	subject string
	logger  *slog.Logger
}

// Connect dials the NATS server at url. An empty subject uses
// DefaultSubject.
func Connect(url, subject string, logger *slog.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("termset"), nats.Timeout(flushTimeout))
	if err != nil {
		return nil, errs.WrapTransient(err, "notify", "Connect", "connect to "+url)
	}
	return newPublisher(nc, subject, logger), nil
}

func newPublisher(c conn, subject string, logger *slog.Logger) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{conn: c, subject: subject, logger: logger}
}

// Subject returns the subject events are published on.
func (p *Publisher) Subject() string {
	return p.subject
}

// Publish sends ev and waits for the server to flush it.
func (p *Publisher) Publish(ctx context.Context, ev BuildEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return errs.WrapInvalid(err, "notify", "Publish", "marshal build event")
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return errs.WrapTransient(err, "notify", "Publish", fmt.Sprintf("publish to %s", p.subject))
	}
	if err := p.conn.FlushTimeout(flushTimeout); err != nil {
		return errs.WrapTransient(err, "notify", "Publish", "flush")
	}

	p.logger.Debug("Published build event", "subject", p.subject, "run_id", ev.RunID)
	return nil
}

// Close closes the connection.
func (p *Publisher) Close() {
	p.conn.Close()
}
