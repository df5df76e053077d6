package telegram

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksumVectors(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		want string
	}{
		{name: "empty", body: nil, want: "aa"},
		{name: "all zero", body: []byte{0, 0, 0, 0}, want: "aa"},
		{name: "single 0xFF", body: []byte{0xFF}, want: "ab"},
		{name: "two 0xFF", body: []byte{0xFF, 0xFF}, want: "ac"},
		{name: "sixteen 0xFF", body: bytes.Repeat([]byte{0xFF}, 16), want: "ba"},
		{name: "256 0xFF wraps", body: bytes.Repeat([]byte{0xFF}, 256), want: "aa"},
		{name: "single A", body: []byte("A"), want: "lp"},
		{name: "single 0x80", body: []byte{0x80}, want: "ia"},
		{name: "single 0x01", body: []byte{0x01}, want: "pp"},
		{name: "reference body", body: []byte("ST 0817202201 TT 01010000 NS01 0 BV 138 SI1 15 DC 19 "), want: "co"},
		{name: "scenario body", body: []byte("ST 0817202201 TT 08172022 NS01 500 BV 138 SI1 15 DC 19 "), want: "lf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Checksum(tt.body)
			assert.Equal(t, tt.want, string(got[:]))
		})
	}
}

func TestChecksumIsPure(t *testing.T) {
	body := []byte("ST 0817202201 TT 01010000 NS01 0 BV 138 SI1 15 DC 19 ")
	first := Checksum(body)
	second := Checksum(body)
	assert.Equal(t, first, second)
	assert.Equal(t, "ST 0817202201 TT 01010000 NS01 0 BV 138 SI1 15 DC 19 ", string(body))
}

func TestChecksumOutputRange(t *testing.T) {
	for i := 0; i < 256; i++ {
		cs := Checksum([]byte{byte(i)})
		for _, c := range cs {
			assert.True(t, c >= 'a' && c <= 'p', "byte %02x gave %q", i, c)
		}
	}
}

func TestAppendChecksum(t *testing.T) {
	got := AppendChecksum("ST 0817202201 TT 01010000 NS01 0 BV 138 SI1 15 DC 19 ")
	assert.Equal(t, Telegram("ST 0817202201 TT 01010000 NS01 0 BV 138 SI1 15 DC 19 coNN"), got)
	assert.True(t, got.Valid())
}
