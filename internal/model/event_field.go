package model

// EventField is a set of Event fields, used to tell the save pipeline and
// the repository which values were assigned since the record was loaded.
type EventField uint32

const (
	FieldTitle EventField = 1 << iota
	FieldSlug
	FieldDescription
	FieldOverview
	FieldImage
	FieldVenue
	FieldLocation
	FieldDate
	FieldTime
	FieldMode
	FieldAudience
	FieldAgenda
	FieldOrganizer
	FieldTags
)

// AllEventFields marks every field as changed, which is how a new record is saved.
const AllEventFields = FieldTitle | FieldSlug | FieldDescription | FieldOverview |
	FieldImage | FieldVenue | FieldLocation | FieldDate | FieldTime | FieldMode |
	FieldAudience | FieldAgenda | FieldOrganizer | FieldTags

// Has reports whether any field of other is in f.
func (f EventField) Has(other EventField) bool {
	return f&other != 0
}
