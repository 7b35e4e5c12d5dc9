package component

// Origin records where an artifact's source came from.
type Origin int

const (
	OriginGenerated Origin = iota
	OriginTemplated
)

func (o Origin) String() string {
	if o == OriginTemplated {
		return "templated"
	}
	return "generated"
}

// Artifact is the single output of a run, handed to the file writer.
type Artifact struct {
	Source        string
	ComponentName string
	Origin        Origin
	// FallbackReason is set when Origin is OriginTemplated.
	FallbackReason error
}
