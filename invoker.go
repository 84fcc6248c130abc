package events

import (
	"reflect"

	"github.com/pkg/errors"
)

var (
	errType      = reflect.TypeOf((*error)(nil)).Elem()
	errChanType  = reflect.TypeOf((<-chan error)(nil))
	anySliceType = reflect.TypeOf([]any(nil))
)

// identityOf returns the comparison key used to match listeners on removal
// and counting: the code pointer of the function value. Distinct closures
// over the same function literal share a code pointer and are therefore
// indistinguishable to removal.
func identityOf(listener any) (uintptr, bool) {
	if listener == nil {
		return 0, false
	}
	v := reflect.ValueOf(listener)
	if v.Kind() != reflect.Func || v.IsNil() {
		return 0, false
	}
	return v.Pointer(), true
}

// adaptListener builds the dispatch-ready form of a listener once, at
// subscription time, so that Emit performs no per-call shape analysis.
//
// The emitted argument vector is reshaped to the listener's signature:
// a variadic ...any or a sole []any parameter receives the whole vector,
// missing trailing parameters are filled with their zero value, and excess
// arguments are dropped. An emitted argument that is not assignable to its
// parameter aborts that listener with ErrArgumentType; the failure is
// contained and siblings still run.
//
// A result of type error reports the listener's synchronous failure. A
// result of type <-chan error (or chan error) defers the outcome: a watcher
// consumes at most one value from it and routes a non-nil error through the
// usual failure channel. Outcome channels must eventually send or close,
// otherwise their watcher never exits.
func (e *Emitter) adaptListener(event string, listener any) DispatchFunc {
	switch fn := listener.(type) {
	case func():
		return func(...any) error {
			fn()
			return nil
		}
	case func() error:
		return func(...any) error {
			return fn()
		}
	case func(...any):
		return func(args ...any) error {
			fn(args...)
			return nil
		}
	case func(...any) error:
		return func(args ...any) error {
			return fn(args...)
		}
	case DispatchFunc:
		return fn
	case func([]any):
		return func(args ...any) error {
			fn(args)
			return nil
		}
	case func([]any) error:
		return func(args ...any) error {
			return fn(args)
		}
	case func(any):
		return func(args ...any) error {
			fn(firstArg(args))
			return nil
		}
	case func(any) error:
		return func(args ...any) error {
			return fn(firstArg(args))
		}
	case func(...any) <-chan error:
		return func(args ...any) error {
			e.watchOutcome(event, fn(args...))
			return nil
		}
	}
	return e.reflectInvoker(event, listener)
}

func firstArg(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

// reflectInvoker covers every listener signature the type switch in
// adaptListener does not: typed parameters, typed variadics and outcome
// channels combined with other results. Signature analysis happens here,
// once; the returned DispatchFunc only builds the call vector and calls.
func (e *Emitter) reflectInvoker(event string, listener any) DispatchFunc {
	fn := reflect.ValueOf(listener)
	typ := fn.Type()

	errOut, chanOut := classifyOutputs(typ)
	wholeVector := !typ.IsVariadic() && typ.NumIn() == 1 && typ.In(0) == anySliceType

	return func(args ...any) error {
		var in []reflect.Value
		if wholeVector {
			in = []reflect.Value{reflect.ValueOf(args)}
		} else {
			var err error
			if in, err = adaptArgs(typ, args); err != nil {
				return err
			}
		}

		outs := fn.Call(in)

		if chanOut >= 0 {
			e.watchOutcome(event, toErrChan(outs[chanOut]))
		}
		if errOut >= 0 && !outs[errOut].IsNil() {
			return outs[errOut].Interface().(error)
		}
		return nil
	}
}

// classifyOutputs locates the listener's failure-bearing results: the last
// result of type error and the first receivable channel of error.
func classifyOutputs(typ reflect.Type) (errOut, chanOut int) {
	errOut, chanOut = -1, -1
	for i := 0; i < typ.NumOut(); i++ {
		out := typ.Out(i)
		switch {
		case out == errType:
			errOut = i
		case chanOut < 0 && out.Kind() == reflect.Chan && out.ConvertibleTo(errChanType):
			chanOut = i
		}
	}
	return errOut, chanOut
}

func toErrChan(v reflect.Value) <-chan error {
	if v.IsNil() {
		return nil
	}
	return v.Convert(errChanType).Interface().(<-chan error)
}

// adaptArgs reshapes the emitted argument vector to the listener's declared
// parameters. Missing positions become the parameter's zero value, excess
// positions are dropped and a variadic tail consumes whatever remains.
func adaptArgs(typ reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := typ.NumIn()

	if typ.IsVariadic() {
		fixed := numIn - 1
		in := make([]reflect.Value, 0, max(fixed, len(args)))
		for i := 0; i < fixed; i++ {
			v, err := argValue(typ.In(i), args, i)
			if err != nil {
				return nil, err
			}
			in = append(in, v)
		}
		elem := typ.In(fixed).Elem()
		for i := fixed; i < len(args); i++ {
			v, err := argValue(elem, args, i)
			if err != nil {
				return nil, err
			}
			in = append(in, v)
		}
		return in, nil
	}

	in := make([]reflect.Value, numIn)
	for i := 0; i < numIn; i++ {
		v, err := argValue(typ.In(i), args, i)
		if err != nil {
			return nil, err
		}
		in[i] = v
	}
	return in, nil
}

func argValue(param reflect.Type, args []any, i int) (reflect.Value, error) {
	if i >= len(args) || args[i] == nil {
		return reflect.Zero(param), nil
	}
	v := reflect.ValueOf(args[i])
	if !v.Type().AssignableTo(param) {
		return reflect.Value{}, errors.Wrapf(ErrArgumentType,
			"argument %d: %T is not assignable to %s", i, args[i], param)
	}
	return v, nil
}
