package ris

import (
	"bytes"
	"encoding/json"
)

// asnScalar decodes an AS number that the API may encode as a JSON number
// or a string, depending on endpoint.
type asnScalar string

func (s *asnScalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = asnScalar(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = asnScalar(num.String())
	return nil
}

func (s asnScalar) String() string {
	return string(s)
}
