package content

// Field is a name/value pair sent inside an URL-encoded request body.
type Field struct {
	name  string
	value string
}

func NewField(name, value string) (*Field, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Field{name: name, value: value}, nil
}

func (f *Field) Name() string {
	return f.name
}

func (f *Field) Enctype() string {
	return TypeForm
}

func (f *Field) Build() (*Payload, error) {
	payload := newPayload()
	payload.BodyType = FormBody
	payload.Fields.Add(f.name, f.value)
	return payload, nil
}
