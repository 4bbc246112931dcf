package notifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-project-intel/internal/adapter"
	"github.com/feral-file/ff-project-intel/internal/logger"
)

// DUPLICATE_WINDOW is how long JetStream remembers a message id
const DUPLICATE_WINDOW = 2 * time.Hour

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type jetStreamTransport struct {
	nc            adapter.NatsConn
	js            adapter.JetStream
	subjectPrefix string
	json          adapter.JSON
}

// NewJetStreamTransport connects to NATS, makes sure the notification stream exists
// and returns a transport publishing to <subject_prefix>.<channel id>
func NewJetStreamTransport(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (Transport, error) {
	if cfg.SubjectPrefix == "" {
		return nil, errors.New("subject prefix is required")
	}

	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	if cfg.StreamName != "" {
		err = js.EnsureStream(ctx, jetstream.StreamConfig{
			Name:       cfg.StreamName,
			Subjects:   []string{cfg.SubjectPrefix + ".>"},
			Duplicates: DUPLICATE_WINDOW,
		})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("failed to ensure stream %s: %w", cfg.StreamName, err)
		}
	}

	return &jetStreamTransport{
		nc:            nc,
		js:            js,
		subjectPrefix: cfg.SubjectPrefix,
		json:          jsonAdapter,
	}, nil
}

// Send publishes the report. The message id is the hash of the canonical payload,
// so a report resent within the duplicate window is dropped by the server.
func (t *jetStreamTransport) Send(ctx context.Context, channelID string, text string) bool {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		logger.WarnCtx(ctx, "Dropping notification without channel")
		return false
	}

	notification := Notification{
		ChannelID: channelID,
		Text:      text,
		ParseMode: PARSE_MODE_HTML,
	}

	data, err := t.json.Marshal(notification)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to marshal notification: %w", err))
		return false
	}

	msgID, err := t.messageID(notification)
	if err != nil {
		logger.ErrorCtx(ctx, err)
		return false
	}

	subject := t.buildSubject(channelID)
	ack, err := t.js.Publish(ctx, subject, data, jetstream.WithMsgID(msgID))
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to publish notification: %w", err),
			zap.String("subject", subject),
		)
		return false
	}

	logger.DebugCtx(ctx, "Published notification",
		zap.String("subject", subject),
		zap.String("msg_id", msgID),
		zap.Bool("duplicate", ack != nil && ack.Duplicate),
	)
	return true
}

func (t *jetStreamTransport) messageID(n Notification) (string, error) {
	canonical, err := t.json.Canonicalize(n)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize notification: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// buildSubject constructs the NATS subject for a channel.
// Format: {prefix}.{channel}, e.g. notifications.-1001234567890
func (t *jetStreamTransport) buildSubject(channelID string) string {
	return fmt.Sprintf("%s.%s", t.subjectPrefix, strings.NewReplacer(".", "_", " ", "_", "*", "_", ">", "_").Replace(channelID))
}

// Close closes the NATS connection
func (t *jetStreamTransport) Close() {
	if t.nc == nil {
		return
	}

	t.nc.Close()
}
