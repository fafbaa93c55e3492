package domain

import "context"

// Placeholder attributes of speakers created implicitly by a session.
const (
	DefaultSpeakerBiography = "Default bio"
	DefaultSpeakerCompany   = "Default company"
)

// DefaultSpeakerSpecialty is the placeholder specialty of an implicitly created speaker.
var DefaultSpeakerSpecialty = []string{"Default specialty"}

// Speaker is identified by name. Uniqueness of the name is best effort.
// swagger:model Speaker
type Speaker struct {
	Key       string   `json:"websafe_key"`
	Name      string   `json:"name"`
	Biography string   `json:"biography"`
	Company   string   `json:"company"`
	Specialty []string `json:"specialty"`
}

// NewPlaceholderSpeaker returns a speaker with default attributes for name.
func NewPlaceholderSpeaker(name string) *Speaker {
	return &Speaker{
		Name:      name,
		Biography: DefaultSpeakerBiography,
		Company:   DefaultSpeakerCompany,
		Specialty: append([]string(nil), DefaultSpeakerSpecialty...),
	}
}

// SpeakerSchema lists the filterable speaker fields.
var SpeakerSchema = NewSchema(KindSpeaker,
	FieldSpec{Name: "name", Token: "NAME", Kind: FieldString},
	FieldSpec{Name: "biography", Token: "BIOGRAPHY", Kind: FieldString},
	FieldSpec{Name: "company", Token: "COMPANY", Kind: FieldString},
	FieldSpec{Name: "specialty", Token: "SPECIALTY", Kind: FieldString, Repeated: true},
)

// Field implements FieldGetter.
func (s *Speaker) Field(name string) (any, bool) {
	switch name {
	case "name":
		return s.Name, true
	case "biography":
		return s.Biography, true
	case "company":
		return s.Company, true
	case "specialty":
		return s.Specialty, true
	}
	return nil, false
}

// SpeakerRepository defines storage operations for speakers.
type SpeakerRepository interface {
	Create(ctx context.Context, sp *Speaker) error
	GetByName(ctx context.Context, name string) (*Speaker, error)
	ListByCompany(ctx context.Context, company string) ([]*Speaker, error)
	ListBySpecialty(ctx context.Context, specialty string) ([]*Speaker, error)
	// Find returns speakers matching every equality predicate, in store order.
	Find(ctx context.Context, eq []Predicate) ([]*Speaker, error)
}

// SpeakerService defines speaker operations.
type SpeakerService interface {
	CreateSpeaker(ctx context.Context, sp *Speaker) (*Speaker, error)
	GetSpeakerByName(ctx context.Context, name string) (*Speaker, error)
	QuerySpeakers(ctx context.Context, filters []RawFilter) ([]*Speaker, error)
}
