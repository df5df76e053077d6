package udp

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"powerrelay/backend/services/relay-service/internal/telegram"
)

// Sender delivers telegrams to a single UDP receiver. Every Send uses its own socket.
type Sender struct {
	addr         string
	writeTimeout time.Duration
	dialer       net.Dialer
	logger       *zap.Logger
}

// NewSender returns a sender for addr (host:port).
func NewSender(addr string, writeTimeout time.Duration, logger *zap.Logger) *Sender {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Sender{
		addr:         addr,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// Send writes msg as one datagram. No reply is read. Errors are logged and returned.
func (s *Sender) Send(ctx context.Context, msg telegram.Telegram) error {
	if err := s.send(ctx, []byte(msg)); err != nil {
		s.logger.Warn("udp send failed", zap.String("addr", s.addr), zap.Error(err))
		return err
	}
	s.logger.Info("telegram sent", zap.String("addr", s.addr), zap.Int("bytes", len(msg)))
	return nil
}

func (s *Sender) send(ctx context.Context, payload []byte) error {
	conn, err := s.dialer.DialContext(ctx, "udp", s.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(s.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}

	n, err := conn.Write(payload)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if n != len(payload) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(payload))
	}
	return nil
}
