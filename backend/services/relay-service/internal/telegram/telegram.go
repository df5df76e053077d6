package telegram

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// Header precedes the timestamp.
	Header = "ST 0817202201 TT "
	// Separator sits between the timestamp and the power value.
	Separator = " NS01 "
	// Trailer follows the power value; the trailing space is part of the checksummed body.
	Trailer = " BV 138 SI1 15 DC 19 "

	timestampLayout = "01021504" // MMddHHmm
	powerScale      = 100
)

// Telegram is a complete message: body, checksum and terminator.
type Telegram string

// Body returns the telegram without checksum and terminator.
func (t Telegram) Body() string {
	s := string(t)
	if len(s) < 2+len(Terminator) {
		return ""
	}
	return s[:len(s)-2-len(Terminator)]
}

// Valid reports whether the checksum matches the body.
func (t Telegram) Valid() bool {
	s := string(t)
	if !strings.HasSuffix(s, Terminator) || len(s) < 2+len(Terminator) {
		return false
	}
	body := t.Body()
	cs := Checksum([]byte(body))
	return s[len(body):len(body)+2] == string(cs[:])
}

// Encode formats ts and the scaled work power into a telegram.
func Encode(ts time.Time, workPower int64) Telegram {
	var b strings.Builder
	b.Grow(len(Header) + len(timestampLayout) + len(Separator) + 12 + len(Trailer))
	b.WriteString(Header)
	b.WriteString(ts.Format(timestampLayout))
	b.WriteString(Separator)
	b.WriteString(strconv.FormatInt(workPower*powerScale, 10))
	b.WriteString(Trailer)
	return AppendChecksum(b.String())
}

// Builder stamps telegrams with the current time in a fixed location.
type Builder struct {
	now    func() time.Time
	loc    *time.Location
	logger *zap.Logger
}

// NewBuilder returns a builder. A nil now defaults to time.Now, a nil loc to time.Local.
func NewBuilder(now func() time.Time, loc *time.Location, logger *zap.Logger) *Builder {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Builder{now: now, loc: loc, logger: logger}
}

// Build returns false when there is no work power to report.
func (b *Builder) Build(workPower *int32) (Telegram, bool) {
	if workPower == nil {
		b.logger.Info("work power is absent, nothing to send")
		return "", false
	}
	return Encode(b.now().In(b.loc), int64(*workPower)), true
}
