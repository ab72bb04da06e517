package xoputil

import (
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrInvalidUTF8 is recorded in JBuilder.Err when a string
// that is not valid UTF-8 is added.
var ErrInvalidUTF8 = errors.New("string is not valid UTF-8")

type JBuilder struct {
	B []byte
	// Err is the first encoding problem seen since the last Reset.
	// The bytes in B are still well-formed JSON when Err is set but
	// they do not faithfully represent the input.
	Err error
}

var _ io.Writer = &JBuilder{}

// Comma adds a comma if a comma is needed based
// on what's already in the JBuilder: if the previous
// character is '{', '[', or ':' then it does not add a
// comma.  Otherwise it does.
func (b *JBuilder) Comma() {
	if len(b.B) == 0 {
		return
	}
	switch b.B[len(b.B)-1] {
	case '[', '{', ':':
		return
	}
	b.B = append(b.B, ',')
}

func (b *JBuilder) AppendByte(v byte) {
	b.B = append(b.B, v)
}

// AppendBytes adds the bytes without wrapping or checking
func (b *JBuilder) AppendBytes(v []byte) {
	b.B = append(b.B, v...)
}

// AppendString adds the bytes without wrapping or checking
func (b *JBuilder) AppendString(v string) {
	b.B = append(b.B, v...)
}

// Write allows JBuilder to be an io.Writer
func (b *JBuilder) Write(v []byte) (int, error) {
	b.B = append(b.B, v...)
	return len(v), nil
}

func (b *JBuilder) Reset() {
	b.B = b.B[:0]
	b.Err = nil
}

// AddSafeString adds a JSON-encoded string that is known to not need escaping
func (b *JBuilder) AddSafeString(v string) {
	b.B = append(b.B, '"')
	b.AppendString(v)
	b.B = append(b.B, '"')
}

// AddString adds a JSON-encoded string
func (b *JBuilder) AddString(v string) {
	b.B = append(b.B, '"')
	b.AddStringBody(v)
	b.B = append(b.B, '"')
}

// AddStringBody adds the escaped body of a JSON string without
// the surrounding quotes.
func (b *JBuilder) AddStringBody(v string) {
	if b.Err == nil && !utf8.ValidString(v) {
		b.Err = errors.Wrapf(ErrInvalidUTF8, "%q", v)
	}
	b.string(v)
}

func (b *JBuilder) AddNull() {
	b.B = append(b.B, "null"...)
}

func (b *JBuilder) AddUint64(i uint64) {
	b.B = strconv.AppendUint(b.B, i, 10)
}

// AddFloat64 adds a number. JSON cannot represent NaN or
// infinities so those become null.
func (b *JBuilder) AddFloat64(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		b.AddNull()
		return
	}
	b.B = strconv.AppendFloat(b.B, f, 'f', -1, 64)
}

func (b *JBuilder) AddInt64(i int64) {
	b.B = strconv.AppendInt(b.B, i, 10)
}

func (b *JBuilder) AddBool(v bool) {
	b.B = strconv.AppendBool(b.B, v)
}

// AddKey calls Comma() and then adds the escaped key and a colon.
func (b *JBuilder) AddKey(v string) {
	b.Comma()
	b.AddString(v)
	b.B = append(b.B, ':')
}

func (b *JBuilder) AddUncheckedKey(v string) {
	b.Comma()
	b.B = append(b.B, '"')
	b.B = append(b.B, v...)
	b.B = append(b.B, '"', ':')
}

func BuildKey(v string) []byte {
	b := &JBuilder{}
	b.B = append(b.B, ',')
	b.AddString(v)
	b.B = append(b.B, ':')
	return b.B
}
