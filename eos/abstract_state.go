package eos

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownFluid        = errors.New("eos: unknown fluid")
	ErrUnknownBackend      = errors.New("eos: unknown backend")
	ErrNoConvergence       = errors.New("eos: solver did not converge")
	ErrOutOfRange          = errors.New("eos: input outside the valid range of the equation of state")
	ErrTwoPhaseUnsupported = errors.New("eos: input pair cannot be resolved inside the two-phase region")
	ErrInvalidDerivative   = errors.New("eos: partial derivative is not defined")
	ErrNoState             = errors.New("eos: no state has been set")
	ErrClosed              = errors.New("eos: state handle is closed")
)

// AbstractState is a handle on one fluid's equation of state. Every getter reads
// from the last successful Update, so an update followed by reads must not be
// interleaved with another update. Implementations are not safe for concurrent use.
type AbstractState interface {
	Update(pair InputPair, value1, value2 float64) error

	Cpmass() float64
	Cvmass() float64
	P() float64
	T() float64
	Smass() float64
	Hmass() float64
	Umass() float64
	Rhomass() float64
	SpeedSound() float64
	Phase() Phase

	// FirstPartialDeriv returns d(of)/d(wrt) holding constant fixed
	FirstPartialDeriv(of, wrt, constant Parameter) (float64, error)

	GasConstant() float64 // J/(mol K)
	MolarMass() float64   // kg/mol
	PCritical() float64
	TCritical() float64
	AcentricFactor() float64
	Tmin() float64
	Tmax() float64
	Pmax() float64

	FluidName() string
	BackendName() string
	Close() error
}

type InputPair uint8

const (
	DmassUmassInputs InputPair = iota
	PTInputs
	DmassPInputs
	HmassSmassInputs
	PSmassInputs
	DmassTInputs
)

var InputPairNames = map[string]InputPair{
	"dmassumass": DmassUmassInputs,
	"rhoe":       DmassUmassInputs,
	"pt":         PTInputs,
	"dmassp":     DmassPInputs,
	"rhop":       DmassPInputs,
	"hmasssmass": HmassSmassInputs,
	"hs":         HmassSmassInputs,
	"psmass":     PSmassInputs,
	"ps":         PSmassInputs,
	"dmasst":     DmassTInputs,
	"rhot":       DmassTInputs,
}

func (ip InputPair) String() string {
	names := []string{
		"DmassUmass",
		"PT",
		"DmassP",
		"HmassSmass",
		"PSmass",
		"DmassT",
	}
	if int(ip) >= len(names) {
		return fmt.Sprintf("InputPair(%d)", int(ip))
	}
	return names[int(ip)]
}

func ParseInputPair(label string) (ip InputPair, err error) {
	var ok bool
	if ip, ok = InputPairNames[strings.ToLower(label)]; !ok {
		err = fmt.Errorf("unable to use input pair named %q", label)
	}
	return
}

type Parameter uint8

const (
	IP Parameter = iota
	IT
	IDmass
	IUmass
	IHmass
	ISmass
)

func (p Parameter) String() string {
	names := []string{"P", "T", "Dmass", "Umass", "Hmass", "Smass"}
	if int(p) >= len(names) {
		return fmt.Sprintf("Parameter(%d)", int(p))
	}
	return names[int(p)]
}

type Phase uint8

const (
	PhaseUnknown Phase = iota
	PhaseLiquid
	PhaseGas
	PhaseSupercritical
	PhaseSupercriticalGas
	PhaseSupercriticalLiquid
	PhaseTwoPhase
)

func (ph Phase) String() string {
	names := []string{
		"unknown",
		"liquid",
		"gas",
		"supercritical",
		"supercritical_gas",
		"supercritical_liquid",
		"twophase",
	}
	if int(ph) >= len(names) {
		return fmt.Sprintf("Phase(%d)", int(ph))
	}
	return names[int(ph)]
}

type backendConstructor func(backend string, fl *Fluid) AbstractState

var backends = map[string]backendConstructor{
	"heos": newHelmholtzState,
	"pr":   newHelmholtzState,
}

// Factory instantiates a state handle for the named fluid using the named backend.
func Factory(backend, fluidName string) (AbstractState, error) {
	ctor, ok := backends[strings.ToLower(backend)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	fl, err := LookupFluid(fluidName)
	if err != nil {
		return nil, err
	}
	return ctor(strings.ToUpper(backend), fl), nil
}
