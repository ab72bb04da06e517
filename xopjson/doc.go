/*
xopjson is a xopscope.Layer that writes one JSON object per line for
every event and for the start and end of every scope.

Each scope gets a field store (xopat.Fields) when it is created. Fields
given at creation and fields recorded later accumulate there. Every
record carries the fields of all of the scopes that enclose it,
outermost scope first, so each line can be read on its own.

Event

An event logged inside "inner", which is inside "outer":

	{
		"level": "INFO",
		"title": "shaving yaks",
		"type": "event",
		"span": "inner",
		"source.filename": "/src/yak/shave.go",
		"source.line": 42,
		"source.target": "example.com/yak",
		"source.pid": "3172",
		"source.name": "yakd",
		"a": 2,
		"b": 3,
		"skipped": false
	}

"title" is the event's "message" field. Events without a message use
the name from their metadata. The message is not repeated as a field.

"span" is the name of the nearest enclosing scope. It and the
inherited fields are absent for events logged outside of any scope.

Fields of enclosing scopes come first, outermost first, then the
event's own fields. The same key can appear more than once: readers
that keep the last value of a duplicated key see the innermost value.

"source.filename" and "source.line" are null when unknown.
"source.version" is included when WithVersion is used.

Start and end

	{"level":"INFO","title":"inner","type":"start",...,"a":2,"b":3}
	{"level":"INFO","title":"inner","type":"end",...,"a":2,"b":3,"elapsed":"1.203ms"}

A start record is written when a scope is created. An end record is
written when the scope closes, which is after all of its children have
closed. The fields are those of the scope and its ancestors, the scope
itself last. "elapsed" is the time from the first time the scope was
entered until it closed, regardless of how many times it was entered.

A scope that closes without ever being entered is a wiring bug and
panics.

Errors

Records that contain strings or keys that are not valid UTF-8 are
dropped. Write failures are not retried. Both are passed to the
function given with WithErrorReporter and never reach the code that is
logging.

Stored fields

GetStored retrieves a field from the current scope or, failing that,
from the nearest ancestor that has it.
*/
package xopjson
