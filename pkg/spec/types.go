package spec

// DesignSpec is the top-level design specification parsed from design.yaml.
type DesignSpec struct {
	SpecVersion string          `yaml:"spec_version" json:"spec_version"`
	Project     ProjectDef      `yaml:"project" json:"project"`
	Location    Location        `yaml:"location" json:"location"`
	System      SystemSpec      `yaml:"system" json:"system"`
	Irradiance  IrradianceDef   `yaml:"irradiance" json:"irradiance"`
	Financial   FinancialParams `yaml:"financial" json:"financial"`
	Cables      []CableRun      `yaml:"cables,omitempty" json:"cables,omitempty"`
	Storage     *StorageDef     `yaml:"storage,omitempty" json:"storage,omitempty"`
	Site        *SiteDef        `yaml:"site,omitempty" json:"site,omitempty"`
}

type ProjectDef struct {
	Name     string `yaml:"name" json:"name"`
	Currency string `yaml:"currency" json:"currency"`
}

// Location is a site position. Latitude in [-90,90], longitude in [-180,180].
type Location struct {
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
	Timezone  string  `yaml:"timezone" json:"timezone"`
}

// ArrayType tags the mounting of the PV array.
type ArrayType string

const (
	ArrayFixedOpenRack    ArrayType = "fixed_open_rack"
	ArrayFixedRoof        ArrayType = "fixed_roof"
	ArrayOneAxis          ArrayType = "one_axis"
	ArrayOneAxisBacktrack ArrayType = "one_axis_backtracking"
	ArrayTwoAxis          ArrayType = "two_axis"
)

// ArrayTypes lists every accepted array type.
var ArrayTypes = []ArrayType{
	ArrayFixedOpenRack, ArrayFixedRoof, ArrayOneAxis, ArrayOneAxisBacktrack, ArrayTwoAxis,
}

// Tracking reports whether the array follows the sun.
func (a ArrayType) Tracking() bool {
	return a == ArrayOneAxis || a == ArrayOneAxisBacktrack || a == ArrayTwoAxis
}

// SystemSpec describes the PV array and its inverters.
// AzimuthDeg uses 0 = south-facing.
type SystemSpec struct {
	CapacityKW       float64        `yaml:"capacity_kw" json:"capacity_kw"`
	TiltDeg          float64        `yaml:"tilt_deg" json:"tilt_deg"`
	AzimuthDeg       float64        `yaml:"azimuth_deg" json:"azimuth_deg"`
	ModuleEfficiency float64        `yaml:"module_efficiency" json:"module_efficiency"`
	PerformanceRatio float64        `yaml:"performance_ratio" json:"performance_ratio"`
	LossPct          float64        `yaml:"loss_pct" json:"loss_pct"`
	ArrayType        ArrayType      `yaml:"array_type" json:"array_type"`
	Inverter         InverterConfig `yaml:"inverter" json:"inverter"`
}

// InverterConfig describes the inverter bank. RatedKW is per unit; when zero
// the AC rating is derived from the array capacity and DCACRatio.
type InverterConfig struct {
	Model     string  `yaml:"model" json:"model"`
	Quantity  int     `yaml:"quantity" json:"quantity"`
	RatedKW   float64 `yaml:"rated_kw" json:"rated_kw"`
	DCACRatio float64 `yaml:"dc_ac_ratio" json:"dc_ac_ratio"`
}

// IrradianceDef selects where monthly irradiance comes from.
type IrradianceDef struct {
	Source  string    `yaml:"source" json:"source"` // "pvwatts" or "static"
	Monthly []float64 `yaml:"monthly,omitempty" json:"monthly,omitempty"`
}

const (
	IrradiancePVWatts = "pvwatts"
	IrradianceStatic  = "static"
)

// FinancialParams holds the cost and revenue assumptions. Rates are percentages.
type FinancialParams struct {
	SystemCost      float64      `yaml:"system_cost" json:"system_cost"`
	ElectricityRate float64      `yaml:"electricity_rate" json:"electricity_rate"`
	EscalationPct   float64      `yaml:"escalation_pct" json:"escalation_pct"`
	Incentives      float64      `yaml:"incentives" json:"incentives"`
	Financing       FinancingDef `yaml:"financing" json:"financing"`
	OMCost          float64      `yaml:"om_cost" json:"om_cost"`
	OMEscalationPct float64      `yaml:"om_escalation_pct" json:"om_escalation_pct"`
	DegradationPct  float64      `yaml:"degradation_pct" json:"degradation_pct"`
	DiscountRatePct float64      `yaml:"discount_rate_pct" json:"discount_rate_pct"`
	LifetimeYears   int          `yaml:"lifetime_years" json:"lifetime_years"`
}

// CableRun is one cable sizing request inside a design.
type CableRun struct {
	Name              string  `yaml:"name" json:"name"`
	DesignCurrentA    float64 `yaml:"design_current_a" json:"design_current_a"`
	LengthM           float64 `yaml:"length_m" json:"length_m"`
	AmbientTempC      float64 `yaml:"ambient_temp_c" json:"ambient_temp_c"`
	InstallMethod     string  `yaml:"install_method" json:"install_method"`
	Circuits          int     `yaml:"circuits" json:"circuits"`
	Material          string  `yaml:"material" json:"material"`
	Circuit           string  `yaml:"circuit" json:"circuit"`
	RatedVoltageV     float64 `yaml:"rated_voltage_v" json:"rated_voltage_v"`
	MaxVoltageDropPct float64 `yaml:"max_voltage_drop_pct" json:"max_voltage_drop_pct"`
}

// StorageDef holds battery sizing inputs. Either the daily day/night loads or
// a 24-value hourly profile may be given.
type StorageDef struct {
	Coupling            string    `yaml:"coupling" json:"coupling"`
	DaytimeLoadKWh      float64   `yaml:"daytime_load_kwh" json:"daytime_load_kwh"`
	NighttimeLoadKWh    float64   `yaml:"nighttime_load_kwh" json:"nighttime_load_kwh"`
	HourlyLoadKWh       []float64 `yaml:"hourly_load_kwh,omitempty" json:"hourly_load_kwh,omitempty"`
	AutonomyDays        float64   `yaml:"autonomy_days" json:"autonomy_days"`
	RoundTripEfficiency float64   `yaml:"round_trip_efficiency" json:"round_trip_efficiency"`
	DepthOfDischarge    float64   `yaml:"depth_of_discharge" json:"depth_of_discharge"`
	CRate               float64   `yaml:"c_rate" json:"c_rate"`
	PeakLoadKW          float64   `yaml:"peak_load_kw" json:"peak_load_kw"`
	NighttimePeakKW     float64   `yaml:"nighttime_peak_kw" json:"nighttime_peak_kw"`
	PeakSunHours        float64   `yaml:"peak_sun_hours" json:"peak_sun_hours"`
	SystemDerate        float64   `yaml:"system_derate" json:"system_derate"`
	InverterEfficiency  float64   `yaml:"inverter_efficiency" json:"inverter_efficiency"`
	DCACRatio           float64   `yaml:"dc_ac_ratio" json:"dc_ac_ratio"`
}

// SiteDef is an optional roof or ground polygon for installation potential.
type SiteDef struct {
	Vertices       []Vertex `yaml:"vertices" json:"vertices"`
	UsableFraction float64  `yaml:"usable_fraction" json:"usable_fraction"`
	GCR            float64  `yaml:"gcr" json:"gcr"`
	ModuleAreaM2   float64  `yaml:"module_area_m2" json:"module_area_m2"`
	ModuleWp       float64  `yaml:"module_wp" json:"module_wp"`
}

type Vertex struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}
