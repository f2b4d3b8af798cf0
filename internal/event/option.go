package event

type ResponseOption struct {
	ID                 string          `json:"id"`
	Label              string          `json:"label"`
	Description        string          `json:"description"`
	SuccessProbability float64         `json:"success_probability"`
	Effects            OptionEffects   `json:"effects"`
	AlignmentShift     AlignmentShift  `json:"alignment_shift"`
	RequiredAlignment  *AlignmentRange `json:"required_alignment,omitempty"`
	Available          bool            `json:"available"`
	Risky              bool            `json:"risky"`
	ChaosModeOnly      bool            `json:"chaos_mode_only"`
	SuccessText        string          `json:"success_text"`
	FailureText        string          `json:"failure_text"`
}

type OptionEffects struct {
	Trust        float64            `json:"trust"`
	Capital      float64            `json:"capital"`
	Funds        float64            `json:"funds"`
	Media        float64            `json:"media"`
	PartyLoyalty float64            `json:"party_loyalty"`
	VoterBlocs   map[string]float64 `json:"voter_blocs,omitempty"`
}

type AlignmentShift struct {
	LawChaos int `json:"law_chaos"`
	GoodEvil int `json:"good_evil"`
}

// AlignmentRange bounds the alignment axes, inclusive. Both axes run from
// -100 to 100.
type AlignmentRange struct {
	MinLawChaos int `json:"min_law_chaos"`
	MaxLawChaos int `json:"max_law_chaos"`
	MinGoodEvil int `json:"min_good_evil"`
	MaxGoodEvil int `json:"max_good_evil"`
}

func (r AlignmentRange) Contains(lawChaos, goodEvil int) bool {
	return lawChaos >= r.MinLawChaos && lawChaos <= r.MaxLawChaos &&
		goodEvil >= r.MinGoodEvil && goodEvil <= r.MaxGoodEvil
}
