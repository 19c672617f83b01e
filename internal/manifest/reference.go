package manifest

// ReferenceKind identifies which field of a repository entry selects its revision.
type ReferenceKind int

// Reference kinds in precedence order.
const (
	ReferenceNone ReferenceKind = iota
	ReferenceCommit
	ReferenceTag
	ReferenceBranch
)

// Reference is the revision an entry asks for after precedence is applied.
type Reference struct {
	Kind  ReferenceKind
	Value string
}

// IsPinned reports whether the reference fixes the checkout to a commit or tag.
func (reference Reference) IsPinned() bool {
	return reference.Kind == ReferenceCommit || reference.Kind == ReferenceTag
}

// Reference applies commit > tag > branch precedence to the entry.
func (entry RepositoryEntry) Reference() Reference {
	switch {
	case len(entry.Commit) > 0:
		return Reference{Kind: ReferenceCommit, Value: entry.Commit}
	case len(entry.Tag) > 0:
		return Reference{Kind: ReferenceTag, Value: entry.Tag}
	case len(entry.Branch) > 0:
		return Reference{Kind: ReferenceBranch, Value: entry.Branch}
	default:
		return Reference{Kind: ReferenceNone}
	}
}
