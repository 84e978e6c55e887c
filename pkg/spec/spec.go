package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the design spec file name inside a project directory.
const ProjectFile = "design.yaml"

// Conventional values used when a design leaves a field unset.
const (
	DefaultSpecVersion      = "0.1.0"
	DefaultCurrency         = "USD"
	DefaultPerformanceRatio = 0.80
	DefaultLossPct          = 14.0
	DefaultDCACRatio        = 1.2
	DefaultDegradationPct   = 0.5
	DefaultDiscountRatePct  = 8.0
	DefaultEscalationPct    = 2.5
	DefaultOMEscalationPct  = 2.0
	DefaultLifetimeYears    = 25

	DefaultAmbientTempC      = 30.0
	DefaultMaxVoltageDropPct = 3.0

	DefaultDepthOfDischarge    = 0.9
	DefaultRoundTripEfficiency = 0.9
	DefaultCRate               = 0.5
	DefaultAutonomyDays        = 1.0
	DefaultSystemDerate        = 0.85
	DefaultInverterEfficiency  = 0.96
	DefaultStorageDCACRatio    = 1.25

	DefaultUsableFraction = 0.85
	DefaultGCR            = 0.4
	DefaultModuleAreaM2   = 2.16
	DefaultModuleWp       = 400.0
)

// Load reads a design spec from a YAML file.
func Load(path string) (*DesignSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a design spec from YAML bytes.
func Parse(data []byte) (*DesignSpec, error) {
	var spec DesignSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing spec YAML: %w", err)
	}
	return &spec, nil
}

// LoadProject loads a design spec from a project directory.
// It looks for design.yaml in the given directory.
func LoadProject(projectDir string) (*DesignSpec, error) {
	return Load(filepath.Join(projectDir, ProjectFile))
}

// ApplyDefaults fills zero-valued fields for which zero is not a usable value
// (performance ratio, lifetime, efficiencies and the like). Fields where zero
// is meaningful are defaulted at decode time instead; see NewFinancialParams.
func ApplyDefaults(s *DesignSpec) {
	if s.SpecVersion == "" {
		s.SpecVersion = DefaultSpecVersion
	}
	if s.Project.Currency == "" {
		s.Project.Currency = DefaultCurrency
	}

	sys := &s.System
	if sys.PerformanceRatio == 0 {
		sys.PerformanceRatio = DefaultPerformanceRatio
	}
	if sys.ArrayType == "" {
		sys.ArrayType = ArrayFixedOpenRack
	}
	if sys.Inverter.Quantity == 0 {
		sys.Inverter.Quantity = 1
	}
	if sys.Inverter.DCACRatio == 0 {
		sys.Inverter.DCACRatio = DefaultDCACRatio
	}

	if s.Irradiance.Source == "" {
		if len(s.Irradiance.Monthly) > 0 {
			s.Irradiance.Source = IrradianceStatic
		} else {
			s.Irradiance.Source = IrradiancePVWatts
		}
	}

	fin := &s.Financial
	if fin.LifetimeYears == 0 {
		fin.LifetimeYears = DefaultLifetimeYears
	}
	if fin.Financing.Financing == nil {
		fin.Financing.Financing = Cash{}
	}

	for i := range s.Cables {
		c := &s.Cables[i]
		if c.Name == "" {
			c.Name = fmt.Sprintf("run-%d", i+1)
		}
		if c.InstallMethod == "" {
			c.InstallMethod = "free_air"
		}
		if c.Circuits == 0 {
			c.Circuits = 1
		}
		if c.Material == "" {
			c.Material = "copper"
		}
		if c.Circuit == "" {
			c.Circuit = "dc"
		}
		if c.MaxVoltageDropPct == 0 {
			c.MaxVoltageDropPct = DefaultMaxVoltageDropPct
		}
	}

	if st := s.Storage; st != nil {
		if st.Coupling == "" {
			st.Coupling = "dc"
		}
		if st.RoundTripEfficiency == 0 {
			st.RoundTripEfficiency = DefaultRoundTripEfficiency
		}
		if st.DepthOfDischarge == 0 {
			st.DepthOfDischarge = DefaultDepthOfDischarge
		}
		if st.CRate == 0 {
			st.CRate = DefaultCRate
		}
		if st.SystemDerate == 0 {
			st.SystemDerate = DefaultSystemDerate
		}
		if st.InverterEfficiency == 0 {
			st.InverterEfficiency = DefaultInverterEfficiency
		}
		if st.DCACRatio == 0 {
			st.DCACRatio = DefaultStorageDCACRatio
		}
	}

	if site := s.Site; site != nil {
		if site.UsableFraction == 0 {
			site.UsableFraction = DefaultUsableFraction
		}
		if site.GCR == 0 {
			site.GCR = DefaultGCR
		}
		if site.ModuleAreaM2 == 0 {
			site.ModuleAreaM2 = DefaultModuleAreaM2
		}
		if site.ModuleWp == 0 {
			site.ModuleWp = DefaultModuleWp
		}
	}
}
