// Grounded on original_source/_trace.py's function-scoped tracing wrapper,
// adapted to Go's lack of exceptions: a panic inside fn is treated the way
// the Python source treats a raised exception. The span is marked ERROR
// and the panic is re-raised (re-panicked) rather than swallowed.
package tracer

import (
	"fmt"
	"reflect"
	"runtime"
)

// Trace opens a span named name (or, if name is empty, fn's qualified
// function name) of the given kind, invokes fn, and closes the span with
// a status derived from fn's return value. fn's error return and any
// panic propagate unchanged to the caller.
func Trace(name string, kind Kind, fn func() error) (err error) {
	s := StartSpan(resolveSpanName(name, fn), WithSpanKind(kind))
	defer finishFromPanicOrErr(s, &err)
	err = fn()
	return err
}

// TraceValue is Trace for callables that also return a value, which is
// passed through untouched.
func TraceValue[T any](name string, kind Kind, fn func() (T, error)) (result T, err error) {
	s := StartSpan(resolveSpanName(name, fn), WithSpanKind(kind))
	defer finishFromPanicOrErr(s, &err)
	result, err = fn()
	return result, err
}

// finishFromPanicOrErr closes s with ERROR if fn panicked, re-panicking
// afterward so the caller still observes the original failure; otherwise
// it closes s with the status derived from *errp.
func finishFromPanicOrErr(s *Span, errp *error) {
	if r := recover(); r != nil {
		s.Finish(fmt.Errorf("panic: %v", r))
		panic(r)
	}
	s.Finish(*errp)
}

func resolveSpanName(explicit string, fn any) string {
	if explicit != "" {
		return explicit
	}
	pc := reflect.ValueOf(fn).Pointer()
	if f := runtime.FuncForPC(pc); f != nil {
		return f.Name()
	}
	return "anonymous"
}
