package model

// GenerateRequest is the body accepted by the generate and validate
// endpoints and by saved profiles. Nil fields fall back to the configured
// defaults; numbers are clamped into [0, 65535].
type GenerateRequest struct {
	Length        *int  `json:"length"`
	Numbers       *int  `json:"numbers"`
	Specials      *int  `json:"specials"`
	FirstIsLetter *bool `json:"first_is_letter"`
	AllowRepeats  *bool `json:"allow_repeats"`
	Count         int   `json:"count,omitempty"`
	Hash          bool  `json:"hash,omitempty"`
}

// Requirements is the JSON form of crypto.Requirements.
type Requirements struct {
	Length        uint16 `json:"length"`
	Numbers       uint16 `json:"numbers"`
	Specials      uint16 `json:"specials"`
	FirstIsLetter bool   `json:"first_is_letter"`
	AllowRepeats  bool   `json:"allow_repeats"`
}

// GenerateResponse carries the generated passwords and the validated
// requirements they satisfy.
type GenerateResponse struct {
	Passwords    []string     `json:"passwords"`
	Hashes       []string     `json:"hashes,omitempty"`
	Requirements Requirements `json:"requirements"`
}

// SampleSet lists the characters of one pool.
type SampleSet struct {
	Kind string   `json:"kind"`
	Set  []string `json:"set"`
}
