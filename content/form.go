package content

import (
	"github.com/pkg/errors"
)

// Form aggregates leaf content objects into one request. Params always end
// up in the URL; everything else goes into the body. The body stays
// URL-encoded until a member that cannot be expressed as a form field (a
// File or JSON) is added, at which point it switches to multipart.
type Form struct {
	name     string
	enctype  string
	contents []Content
}

func NewForm(name string) (*Form, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Form{name: name, enctype: TypeForm}, nil
}

func (f *Form) Name() string {
	return f.name
}

func (f *Form) Enctype() string {
	return f.enctype
}

// Add appends contents to the form. Only the four leaf kinds are accepted;
// in particular forms do not nest.
func (f *Form) Add(contents ...Content) error {
	for _, c := range contents {
		switch c.(type) {
		case *Param, *Field:
		case *File, *JSON:
			f.enctype = TypeMultipart
		default:
			return errors.Errorf("unsupported content type %T", c)
		}
		f.contents = append(f.contents, c)
	}
	return nil
}

// Build merges all members into one payload. Repeated param/field names
// accumulate as multi-values; a part name used twice is an error because
// multipart consumers key file parts by name.
func (f *Form) Build() (*Payload, error) {
	payload := newPayload()
	seen := map[string]struct{}{}

	for _, c := range f.contents {
		switch c := c.(type) {
		case *Param:
			p, err := c.Build()
			if err != nil {
				return nil, err
			}
			for name, values := range p.Params {
				payload.Params[name] = append(payload.Params[name], values...)
			}
		case *Field:
			p, err := c.Build()
			if err != nil {
				return nil, err
			}
			for name, values := range p.Fields {
				payload.Fields[name] = append(payload.Fields[name], values...)
			}
		case *File:
			if err := f.addPart(payload, seen, c.part()); err != nil {
				return nil, err
			}
		case *JSON:
			if err := f.addPart(payload, seen, c.part()); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Errorf("unsupported content type %T", c)
		}
	}

	switch {
	case len(payload.Parts) > 0:
		payload.BodyType = MultipartBody
	case len(payload.Fields) > 0:
		payload.BodyType = FormBody
	default:
		payload.BodyType = EmptyBody
	}
	return payload, nil
}

func (f *Form) addPart(payload *Payload, seen map[string]struct{}, part Part) error {
	if _, ok := seen[part.FieldName]; ok {
		return errors.Wrapf(ErrDuplicateName, "part '%s'", part.FieldName)
	}
	seen[part.FieldName] = struct{}{}
	payload.Parts = append(payload.Parts, part)
	return nil
}
