package event

import "encoding/json"

// DecodePayload returns the payload as T. In-process events already carry T;
// anything else, such as a payload read back from a dead-letter file, goes
// through a JSON round-trip.
func DecodePayload[T any](payload any) (T, error) {
	if v, ok := payload.(T); ok {
		return v, nil
	}
	var out T
	data, err := json.Marshal(payload)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(data, &out)
	return out, err
}
