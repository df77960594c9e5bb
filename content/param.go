package content

// Param is a name/value pair sent as a URL query parameter.
type Param struct {
	name  string
	value string
}

func NewParam(name, value string) (*Param, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Param{name: name, value: value}, nil
}

func (p *Param) Name() string {
	return p.name
}

// Enctype returns "" because a parameter is sent in the URL and contributes
// nothing to the request body.
func (p *Param) Enctype() string {
	return ""
}

func (p *Param) Build() (*Payload, error) {
	payload := newPayload()
	payload.Params.Add(p.name, p.value)
	return payload, nil
}
