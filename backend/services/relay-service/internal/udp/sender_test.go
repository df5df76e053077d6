package udp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"powerrelay/backend/services/relay-service/internal/telegram"
)

func listen(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSendDeliversSingleDatagram(t *testing.T) {
	receiver := listen(t)
	sender := NewSender(receiver.LocalAddr().String(), time.Second, zaptest.NewLogger(t))

	msg := telegram.Telegram("ST 0817202201 TT 08172022 NS01 500 BV 138 SI1 15 DC 19 lfNN")
	require.NoError(t, sender.Send(context.Background(), msg))

	buf := make([]byte, 512)
	require.NoError(t, receiver.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, from, err := receiver.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, string(msg), string(buf[:n]))
	assert.NotZero(t, from.Port)
}

func TestSendUsesFreshSocketPerCall(t *testing.T) {
	receiver := listen(t)
	sender := NewSender(receiver.LocalAddr().String(), time.Second, zaptest.NewLogger(t))

	require.NoError(t, sender.Send(context.Background(), "one"))
	require.NoError(t, sender.Send(context.Background(), "two"))

	buf := make([]byte, 64)
	var payloads []string
	for i := 0; i < 2; i++ {
		require.NoError(t, receiver.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, err := receiver.ReadFromUDP(buf)
		require.NoError(t, err)
		payloads = append(payloads, string(buf[:n]))
	}
	assert.Equal(t, []string{"one", "two"}, payloads)
}

func TestSendFailureIsReturnedAndLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sender := NewSender("relay.invalid:11011", time.Second, zap.New(core))

	var err error
	assert.NotPanics(t, func() {
		err = sender.Send(context.Background(), "payload")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("udp send failed").Len())
}

func TestSendMissingPort(t *testing.T) {
	sender := NewSender("127.0.0.1", time.Second, zaptest.NewLogger(t))
	assert.Error(t, sender.Send(context.Background(), "payload"))
}
