package scenario

// Input is one adjustable value with its default and bounds.
type Input struct {
	Key     string
	Default float64
	Min     float64
	Max     float64
	Unit    string

	// User is the caller-set value; valid only when Set is true.
	User float64
	Set  bool
}

// Inputs is an ordered collection of adjustable inputs keyed by name.
type Inputs struct {
	keys []string
	m    map[string]*Input
}

func (in *Inputs) init() {
	if in.m == nil {
		in.m = make(map[string]*Input)
	}
}

// Add registers an input. An existing key is overwritten in place and keeps
// its position.
func (in *Inputs) Add(input Input) {
	in.init()
	if _, ok := in.m[input.Key]; !ok {
		in.keys = append(in.keys, input.Key)
	}
	stored := input
	in.m[input.Key] = &stored
}

// Get returns the input for a key, or nil.
func (in *Inputs) Get(key string) *Input {
	return in.m[key]
}

// Keys returns the input keys in insertion order.
func (in *Inputs) Keys() []string {
	return in.keys
}

// Len returns the number of inputs.
func (in *Inputs) Len() int {
	return len(in.keys)
}

// UserValues returns the user-set values keyed by input name.
func (in *Inputs) UserValues() map[string]float64 {
	out := make(map[string]float64)
	for _, key := range in.keys {
		if input := in.m[key]; input.Set {
			out[key] = input.User
		}
	}
	return out
}

// UpdateUserValues applies user values to the scenario's inputs. Unknown
// keys are recorded as warnings and skipped; values are not validated.
func (s *Scenario) UpdateUserValues(values map[string]float64) {
	for key, value := range values {
		input := s.Inputs.Get(key)
		if input == nil {
			s.Warnings.Addf("unknown input key %q", key)
			continue
		}
		input.User = value
		input.Set = true
	}
}
