package xopat

import (
	"unicode/utf8"

	"github.com/xoplog/xopscope/xoputil"

	"github.com/muir/gwrap"
)

type K string

func (k K) String() string { return string(k) }

// JSON is the key as a quoted JSON string. It returns nil if the key
// is not valid UTF-8.  Do not modify the slice.
func (k K) JSON() []byte {
	qjs, ok := cachedKeys.Load(k)
	if ok {
		return qjs
	}
	if !utf8.ValidString(string(k)) {
		return nil
	}
	b := xoputil.JBuilder{}
	b.B = make([]byte, 0, len(k)+2)
	b.AddString(string(k))
	qjs, _ = cachedKeys.LoadOrStore(k, b.B)
	return qjs
}

var cachedKeys gwrap.SyncMap[K, []byte]

// ResetCachedKeys drops all cached key encodings. Programs that
// generate unbounded numbers of distinct keys can call it periodically.
func ResetCachedKeys() {
	cachedKeys.Range(func(key K, value []byte) bool {
		cachedKeys.Delete(key)
		return true
	})
}
