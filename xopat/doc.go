/*
Package xopat holds the per-scope field store.

Each scope created through xopscope gets a Fields attached to it by the
xopjson layer. Fields is populated by visiting the typed values that the
host engine hands over when a scope is created and whenever more values
are recorded on it. Keys are kept sorted so that serialization is
deterministic. Recording a key a second time on the same Fields replaces
the earlier value.

Key names go through NormalizeKey first:

	log.target    dropped (metadata carried by bridged loggers)
	r#type        stored as "type"

Values are one of int64, uint64, float64, bool, or string. Anything else
is rendered with fmt's %+v verb and stored as a string.
*/
package xopat
