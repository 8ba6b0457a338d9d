package cache

// TagType enumerates the entity families a cached result can belong to.
// Write operations invalidate by tag; the mapping from operation to tags is
// static in the api package.
type TagType int

const (
	TagLicenses TagType = iota
	TagActivations
	TagSubscriptions
	TagPayments
	TagStats
	TagProfile
)

func (t TagType) String() string {
	switch t {
	case TagLicenses:
		return "licenses"
	case TagActivations:
		return "activations"
	case TagSubscriptions:
		return "subscriptions"
	case TagPayments:
		return "payments"
	case TagStats:
		return "stats"
	case TagProfile:
		return "profile"
	default:
		return "unknown"
	}
}

// Tag labels a cached result, optionally narrowed to a single entity.
// An empty ID means the whole family: it overlaps every tag of its type.
type Tag struct {
	Type TagType
	ID   string
}

func (t Tag) overlaps(other Tag) bool {
	if t.Type != other.Type {
		return false
	}
	return t.ID == "" || other.ID == "" || t.ID == other.ID
}

func anyOverlap(provided, invalidated []Tag) bool {
	for _, p := range provided {
		for _, inv := range invalidated {
			if p.overlaps(inv) {
				return true
			}
		}
	}
	return false
}
