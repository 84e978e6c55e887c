package spec

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Fields for which zero is a meaningful value (rates, losses, autonomy,
// ambient temperature) take their defaults while decoding, so only omitted
// keys are defaulted. ApplyDefaults leaves them alone.

// NewSystemSpec returns a SystemSpec carrying the decode-time defaults.
func NewSystemSpec() SystemSpec {
	return SystemSpec{LossPct: DefaultLossPct}
}

// NewFinancialParams returns FinancialParams carrying the decode-time defaults.
func NewFinancialParams() FinancialParams {
	return FinancialParams{
		EscalationPct:   DefaultEscalationPct,
		OMEscalationPct: DefaultOMEscalationPct,
		DegradationPct:  DefaultDegradationPct,
		DiscountRatePct: DefaultDiscountRatePct,
	}
}

// NewStorageDef returns a StorageDef carrying the decode-time defaults.
func NewStorageDef() StorageDef {
	return StorageDef{AutonomyDays: DefaultAutonomyDays}
}

// NewCableRun returns a CableRun carrying the decode-time defaults.
func NewCableRun() CableRun {
	return CableRun{AmbientTempC: DefaultAmbientTempC}
}

type (
	plainDesignSpec      DesignSpec
	plainSystemSpec      SystemSpec
	plainFinancialParams FinancialParams
	plainStorageDef      StorageDef
	plainCableRun        CableRun
)

func presetDesignSpec() plainDesignSpec {
	return plainDesignSpec{System: NewSystemSpec(), Financial: NewFinancialParams()}
}

func (s *DesignSpec) UnmarshalYAML(value *yaml.Node) error {
	p := presetDesignSpec()
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = DesignSpec(p)
	return nil
}

func (s *DesignSpec) UnmarshalJSON(data []byte) error {
	p := presetDesignSpec()
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = DesignSpec(p)
	return nil
}

func (s *SystemSpec) UnmarshalYAML(value *yaml.Node) error {
	p := plainSystemSpec(NewSystemSpec())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = SystemSpec(p)
	return nil
}

func (s *SystemSpec) UnmarshalJSON(data []byte) error {
	p := plainSystemSpec(NewSystemSpec())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = SystemSpec(p)
	return nil
}

func (f *FinancialParams) UnmarshalYAML(value *yaml.Node) error {
	p := plainFinancialParams(NewFinancialParams())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*f = FinancialParams(p)
	return nil
}

func (f *FinancialParams) UnmarshalJSON(data []byte) error {
	p := plainFinancialParams(NewFinancialParams())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = FinancialParams(p)
	return nil
}

func (st *StorageDef) UnmarshalYAML(value *yaml.Node) error {
	p := plainStorageDef(NewStorageDef())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*st = StorageDef(p)
	return nil
}

func (st *StorageDef) UnmarshalJSON(data []byte) error {
	p := plainStorageDef(NewStorageDef())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*st = StorageDef(p)
	return nil
}

func (c *CableRun) UnmarshalYAML(value *yaml.Node) error {
	p := plainCableRun(NewCableRun())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = CableRun(p)
	return nil
}

func (c *CableRun) UnmarshalJSON(data []byte) error {
	p := plainCableRun(NewCableRun())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = CableRun(p)
	return nil
}
