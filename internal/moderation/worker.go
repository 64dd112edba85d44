package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/robalyx/promptaudit/internal/setup/config"
	"github.com/robalyx/promptaudit/pkg/utils"
	"go.uber.org/zap"
)

// Default NATS settings used when the config leaves them empty.
const (
	DefaultSubject = "prompt.audit"
	DefaultQueue   = "promptaudit"
	// ResultSuffix is appended to the subject for requests without a reply inbox.
	ResultSuffix = ".result"
)

// Worker binds a Service to a NATS queue subscription.
type Worker struct {
	conn    *nats.Conn
	service *Service
	subject string
	queue   string
	logger  *zap.Logger
	sub     *nats.Subscription
}

// Connect dials NATS, retrying with backoff until the server answers.
func Connect(ctx context.Context, cfg *config.NATS, name string, logger *zap.Logger) (*nats.Conn, error) {
	reconnectWait := time.Duration(cfg.ReconnectWait) * time.Second
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}

	opts := []nats.Option{
		nats.Name(name),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("Disconnected from NATS", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}

	conn, err := utils.WithRetry(ctx, func() (*nats.Conn, error) {
		conn, err := nats.Connect(url, opts...)
		if err != nil {
			logger.Warn("Failed to connect to NATS", zap.String("url", url), zap.Error(err))
			return nil, err
		}

		return conn, nil
	}, utils.GetConnectRetryOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	logger.Info("Connected to NATS", zap.String("url", conn.ConnectedUrl()))

	return conn, nil
}

// NewWorker creates a worker serving requests from cfg.Subject.
func NewWorker(conn *nats.Conn, service *Service, cfg *config.NATS, logger *zap.Logger) *Worker {
	subject := cfg.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	queue := cfg.Queue
	if queue == "" {
		queue = DefaultQueue
	}

	return &Worker{
		conn:    conn,
		service: service,
		subject: subject,
		queue:   queue,
		logger:  logger.Named("worker"),
	}
}

// Start subscribes to the request subject within the queue group.
func (w *Worker) Start(ctx context.Context) error {
	sub, err := w.conn.QueueSubscribe(w.subject, w.queue, func(msg *nats.Msg) {
		w.handle(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", w.subject, err)
	}

	w.sub = sub
	w.logger.Info("Worker subscribed",
		zap.String("subject", w.subject),
		zap.String("queue", w.queue))

	return nil
}

// Run starts the worker and blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	return w.Stop()
}

// Stop drains the subscription so in-flight requests still get answered.
func (w *Worker) Stop() error {
	if w.sub == nil {
		return nil
	}

	if err := w.sub.Drain(); err != nil {
		return fmt.Errorf("failed to drain subscription: %w", err)
	}

	w.sub = nil
	w.logger.Info("Worker stopped")

	return nil
}

func (w *Worker) handle(ctx context.Context, msg *nats.Msg) {
	data, err := w.service.Handle(ctx, msg.Data)
	if err != nil {
		w.logger.Error("Failed to handle audit request", zap.Error(err))
		return
	}

	if msg.Reply != "" {
		if err := msg.Respond(data); err != nil {
			w.logger.Error("Failed to reply to audit request", zap.Error(err))
		}

		return
	}

	if err := w.conn.Publish(w.subject+ResultSuffix, data); err != nil {
		w.logger.Error("Failed to publish audit result", zap.Error(err))
	}
}
