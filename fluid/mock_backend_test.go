package fluid

import (
	"github.com/stretchr/testify/mock"

	"github.com/notargets/realgas/eos"
)

// MockState implements eos.AbstractState with scripted answers
type MockState struct {
	mock.Mock
}

func (m *MockState) Update(pair eos.InputPair, value1, value2 float64) error {
	args := m.Called(pair, value1, value2)
	return args.Error(0)
}

func (m *MockState) float(method string) float64 {
	args := m.MethodCalled(method)
	return args.Get(0).(float64)
}

func (m *MockState) Cpmass() float64         { return m.float("Cpmass") }
func (m *MockState) Cvmass() float64         { return m.float("Cvmass") }
func (m *MockState) P() float64              { return m.float("P") }
func (m *MockState) T() float64              { return m.float("T") }
func (m *MockState) Smass() float64          { return m.float("Smass") }
func (m *MockState) Hmass() float64          { return m.float("Hmass") }
func (m *MockState) Umass() float64          { return m.float("Umass") }
func (m *MockState) Rhomass() float64        { return m.float("Rhomass") }
func (m *MockState) SpeedSound() float64     { return m.float("SpeedSound") }
func (m *MockState) GasConstant() float64    { return m.float("GasConstant") }
func (m *MockState) MolarMass() float64      { return m.float("MolarMass") }
func (m *MockState) PCritical() float64      { return m.float("PCritical") }
func (m *MockState) TCritical() float64      { return m.float("TCritical") }
func (m *MockState) AcentricFactor() float64 { return m.float("AcentricFactor") }
func (m *MockState) Tmin() float64           { return m.float("Tmin") }
func (m *MockState) Tmax() float64           { return m.float("Tmax") }
func (m *MockState) Pmax() float64           { return m.float("Pmax") }

func (m *MockState) Phase() eos.Phase {
	args := m.Called()
	return args.Get(0).(eos.Phase)
}

func (m *MockState) FirstPartialDeriv(of, wrt, constant eos.Parameter) (float64, error) {
	args := m.Called(of, wrt, constant)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockState) FluidName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockState) BackendName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockState) Close() error {
	args := m.Called()
	return args.Error(0)
}

// newMockState scripts the fluid constants of a CO2-like fluid
func newMockState() (m *MockState) {
	m = &MockState{}
	m.On("GasConstant").Return(8.314462618)
	m.On("MolarMass").Return(0.0440098)
	m.On("PCritical").Return(7.3773e6)
	m.On("TCritical").Return(304.1282)
	m.On("AcentricFactor").Return(0.22394)
	m.On("Tmin").Return(216.592)
	m.On("Tmax").Return(2000.)
	m.On("Pmax").Return(8.e8)
	m.On("FluidName").Return("CarbonDioxide")
	m.On("BackendName").Return("MOCK")
	return
}

func mockFactory(m *MockState) Option {
	return WithFactory(func(backend, fluidName string) (eos.AbstractState, error) {
		return m, nil
	})
}
