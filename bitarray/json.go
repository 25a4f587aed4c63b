package bitarray

import "encoding/json"

// MarshalJSON encodes d as a '0'/'1' string, the scheme's interchange form
// for bit strings. Bits are exact; no precision is lost.
func (d Dense) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (d *Dense) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
