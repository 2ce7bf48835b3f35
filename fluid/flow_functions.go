package fluid

import (
	"fmt"
	"math"
)

type FlowFunction uint8

func (pm FlowFunction) String() string {
	strings := []string{
		"Density",
		"XMomentum",
		"YMomentum",
		"Energy",
		"Mach",
		"Static Pressure",
		"Dynamic Pressure",
		"Pressure Coefficient",
		"Sound Speed",
		"Velocity",
		"XVelocity",
		"YVelocity",
		"Enthalpy",
		"Temperature",
		"Entropy",
	}
	if int(pm) >= len(strings) {
		return fmt.Sprintf("FlowFunction(%d)", int(pm))
	}
	return strings[int(pm)]
}

const (
	Density FlowFunction = iota
	XMomentum
	YMomentum
	Energy
	Mach                // 4
	StaticPressure      // 5
	DynamicPressure     // 6
	PressureCoefficient // 7
	SoundSpeed          // 8
	Velocity            // 9
	XVelocity           // 10
	YVelocity           // 11
	Enthalpy            // 12
	Temperature         // 13
	Entropy             // 14
)

// FreeStream is a uniform flow of the model fluid at (Pinf, Tinf) moving at
// Mach Minf, inclined Alpha degrees from the x axis.
type FreeStream struct {
	Model             Model
	Qinf              [4]float64
	Pinf, QQinf, Cinf float64
	Tinf              float64
	Minf, Alpha       float64
}

func NewFreeStream(m Model, Minf, Alpha, Pinf, Tinf float64) (fs *FreeStream, err error) {
	if err = m.SetStatePT(Pinf, Tinf); err != nil {
		return
	}
	var (
		st   = m.Thermo()
		rho  = st.Density
		C    = math.Sqrt(st.SoundSpeed2)
		U    = Minf * C
		uinf = U * math.Cos(Alpha*math.Pi/180.)
		vinf = U * math.Sin(Alpha*math.Pi/180.)
	)
	fs = &FreeStream{
		Model: m,
		Qinf:  [4]float64{rho, rho * uinf, rho * vinf, rho * (st.StaticEnergy + 0.5*U*U)},
		Pinf:  st.Pressure,
		QQinf: 0.5 * rho * U * U,
		Cinf:  C,
		Tinf:  st.Temperature,
		Minf:  Minf,
		Alpha: Alpha,
	}
	return
}

func (fs *FreeStream) GetFlowFunctionQQ(Q [4]float64, pf FlowFunction) (f float64, err error) {
	return fs.GetFlowFunctionBase(Q[0], Q[1], Q[2], Q[3], pf)
}

// GetFlowFunctionBase evaluates pf from the conserved variables. Functions
// that need the thermodynamic state set the model at the local (rho, e).
func (fs *FreeStream) GetFlowFunctionBase(rho, rhoU, rhoV, E float64, pf FlowFunction) (f float64, err error) {
	var (
		oorho = 1. / rho
		q     = 0.5 * (rhoU*rhoU + rhoV*rhoV) * oorho
		st    State
	)
	switch pf {
	case Mach, StaticPressure, PressureCoefficient, SoundSpeed, Enthalpy, Temperature, Entropy:
		if err = fs.Model.SetStateRhoE(rho, (E-q)*oorho); err != nil {
			return
		}
		st = fs.Model.Thermo()
	}

	switch pf {
	case Density:
		f = rho
	case XMomentum:
		f = rhoU
	case YMomentum:
		f = rhoV
	case Energy:
		f = E
	case StaticPressure:
		f = st.Pressure
	case DynamicPressure:
		f = q
	case PressureCoefficient:
		f = (st.Pressure - fs.Pinf) / fs.QQinf
	case SoundSpeed:
		f = math.Sqrt(st.SoundSpeed2)
	case Velocity:
		f = math.Sqrt(rhoU*rhoU+rhoV*rhoV) * oorho
	case XVelocity:
		f = rhoU * oorho
	case YVelocity:
		f = rhoV * oorho
	case Mach:
		U := math.Sqrt(rhoU*rhoU+rhoV*rhoV) * oorho
		f = U / math.Sqrt(st.SoundSpeed2)
	case Enthalpy:
		f = (E + st.Pressure) * oorho
	case Temperature:
		f = st.Temperature
	case Entropy:
		f = st.Entropy
	default:
		err = fmt.Errorf("unknown flow function %s", pf)
	}
	return
}
