package request

import "encoding/json"

type TaskCreate struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Completed   *bool   `json:"completed"`
}

// TaskUpdate is a partial payload. A nil pointer alone cannot tell
// "field not sent" apart from "field sent as null", so UnmarshalJSON also
// records which keys were present in the body.
type TaskUpdate struct {
	Title       *string `json:"title" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Completed   *bool   `json:"completed"`

	supplied map[string]struct{}
}

func (r *TaskUpdate) UnmarshalJSON(data []byte) error {
	type alias TaskUpdate

	var fields alias

	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = TaskUpdate(fields)
	r.supplied = make(map[string]struct{}, len(raw))

	for key := range raw {
		r.supplied[key] = struct{}{}
	}

	return nil
}

// Supplied reports whether the field appeared in the payload, even as null.
func (r *TaskUpdate) Supplied(field string) bool {
	_, ok := r.supplied[field]
	return ok
}
