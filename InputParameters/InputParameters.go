package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type FluidParameters struct {
	Title       string          `yaml:"Title"`
	FluidModel  string          `yaml:"FluidModel"` // IdealGas or RealGas
	FluidName   string          `yaml:"FluidName"`
	Backend     string          `yaml:"Backend"`
	Gamma       float64         `yaml:"Gamma"`
	GasConstant float64         `yaml:"GasConstant"`
	Minf        float64         `yaml:"Minf"`
	Alpha       float64         `yaml:"Alpha"`
	Pinf        float64         `yaml:"Pinf"`
	Tinf        float64         `yaml:"Tinf"`
	Sweep       SweepParameters `yaml:"Sweep"`
}

// SweepParameters describe a tensor grid of states over one input pair
type SweepParameters struct {
	InputPair  string     `yaml:"InputPair"`
	Value1     [2]float64 `yaml:"Value1"` // Min, Max
	Value2     [2]float64 `yaml:"Value2"`
	N1         int        `yaml:"N1"`
	N2         int        `yaml:"N2"`
	Workers    int        `yaml:"Workers"`
	PlotColumn string     `yaml:"PlotColumn"`
}

func (ip *FluidParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *FluidParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Fluid Model\n", ip.FluidModel)
	if ip.FluidName != "" {
		fmt.Printf("[%s]\t\t= Fluid Name\n", ip.FluidName)
	}
	if ip.Backend != "" {
		fmt.Printf("[%s]\t\t\t= Backend\n", ip.Backend)
	}
	if ip.Gamma != 0 {
		fmt.Printf("%8.5f\t\t= Gamma\n", ip.Gamma)
	}
	if ip.GasConstant != 0 {
		fmt.Printf("%8.3f\t\t= Gas Constant\n", ip.GasConstant)
	}
	fmt.Printf("%8.5f\t\t= Minf\n", ip.Minf)
	fmt.Printf("%8.5f\t\t= Alpha\n", ip.Alpha)
	fmt.Printf("%12.5g\t\t= Pinf\n", ip.Pinf)
	fmt.Printf("%12.5g\t\t= Tinf\n", ip.Tinf)
	sw := ip.Sweep
	if sw.InputPair != "" {
		fmt.Printf("[%s]\t\t\t= Sweep Input Pair\n", sw.InputPair)
		fmt.Printf("%v x %d\t= Sweep Value1\n", sw.Value1, sw.N1)
		fmt.Printf("%v x %d\t= Sweep Value2\n", sw.Value2, sw.N2)
		fmt.Printf("[%d]\t\t\t\t= Workers\n", sw.Workers)
	}
}
