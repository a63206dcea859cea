package models

// GlobalParams holds the dropdown-option dictionaries and MEDDIC evaluation
// weights consumed verbatim by the config-editor screens.
type GlobalParams struct {
	Options       map[string][]string `json:"options" bson:"options"`
	MeddicWeights map[string]float64  `json:"meddicWeights" bson:"meddicWeights"`
}

// Clone returns a deep copy of the params.
func (p GlobalParams) Clone() GlobalParams {
	out := GlobalParams{}
	if p.Options != nil {
		out.Options = make(map[string][]string, len(p.Options))
		for name, values := range p.Options {
			copied := make([]string, len(values))
			copy(copied, values)
			out.Options[name] = copied
		}
	}
	if p.MeddicWeights != nil {
		out.MeddicWeights = make(map[string]float64, len(p.MeddicWeights))
		for name, w := range p.MeddicWeights {
			out.MeddicWeights[name] = w
		}
	}
	return out
}
