/*
Package xopotel lets OpenTelemetry instrumentation drive xopscope.

SpanProcessor is registered with an OpenTelemetry SDK TracerProvider.
Each OTEL span becomes a xopscope scope: it is created and entered when
the OTEL span starts and exited and closed when the OTEL span ends.
OTEL attributes become fields on the scope. OTEL span events are only
visible once the span ends so they are logged as events of the scope
at that time, just before the scope closes.

	processor := xopotel.NewSpanProcessor(dispatch)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(processor))

Nothing is exported: combine the processor with an exporter if the
spans are also wanted elsewhere.
*/
package xopotel
