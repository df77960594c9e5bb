package content

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// JSON is a serializable value sent as a JSON request body.
type JSON struct {
	name    string
	value   interface{}
	encoded []byte
}

// NewJSON marshals v once so that unserializable values are rejected at
// construction rather than at send time.
func NewJSON(name string, v interface{}) (*JSON, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "value of '%s' is not serializable to JSON", name)
	}
	return &JSON{name: name, value: v, encoded: encoded}, nil
}

func (j *JSON) Name() string {
	return j.name
}

func (j *JSON) Enctype() string {
	return TypeJSON
}

func (j *JSON) Build() (*Payload, error) {
	payload := newPayload()
	payload.BodyType = JSONBody
	payload.JSON = j.value
	return payload, nil
}

func (j *JSON) part() Part {
	return Part{
		FieldName:   j.name,
		ContentType: TypeJSON,
		Body:        j.encoded,
	}
}
