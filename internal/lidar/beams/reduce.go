package beams

import (
	"strings"

	"github.com/banshee-data/beam.reduce/internal/config"
)

// Method names a reduction strategy.
type Method string

// Supported methods.
const (
	MethodSimple   Method = config.MethodSimple
	MethodAdvanced Method = config.MethodAdvanced
	MethodProper   Method = config.MethodProper

	DefaultMethod = MethodProper
)

// methodOrder is the order methods are listed and compared in.
var methodOrder = []Method{MethodSimple, MethodAdvanced, MethodProper}

// Methods returns every supported method.
func Methods() []Method {
	return append([]Method(nil), methodOrder...)
}

// ParseMethod validates a method name. The empty string selects DefaultMethod.
func ParseMethod(name string) (Method, error) {
	if name == "" {
		return DefaultMethod, nil
	}
	m := Method(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range methodOrder {
		if m == known {
			return m, nil
		}
	}
	return "", &UnknownMethodError{Method: name}
}

// Result is the dispatcher's output. Points has the same record shape as
// the input and never shares its backing array.
type Result struct {
	Method Method
	Points []Point
	// Warnings are non-fatal signals such as ErrDegenerateInput.
	Warnings []error
	// Detection and KeptBeams are set by the proper method only.
	Detection *Detection
	KeptBeams []int
}

// Reduce validates the input and parameters and runs the named method.
// Errors are returned as-is; no partial result accompanies an error.
func Reduce(points []Point, method Method, p Params) (*Result, error) {
	m, err := ParseMethod(string(method))
	if err != nil {
		return nil, err
	}
	if err := validatePoints(points); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Method: m}
	switch m {
	case MethodSimple:
		out, err := ReduceSimple(points, p)
		if err != nil {
			return nil, err
		}
		res.Points = out
	case MethodAdvanced:
		out, err := ReduceAdvanced(points, p)
		if err != nil {
			return nil, err
		}
		res.Points = out
	case MethodProper:
		pr, err := ReduceProper(points, p)
		if err != nil {
			return nil, err
		}
		res.Points = pr.Points
		res.Warnings = pr.Warnings
		res.Detection = pr.Detection
		res.KeptBeams = pr.KeptBeams
	}
	return res, nil
}

// ReduceDefault runs the proper method with DefaultParams.
func ReduceDefault(points []Point) (*Result, error) {
	return Reduce(points, DefaultMethod, DefaultParams())
}
