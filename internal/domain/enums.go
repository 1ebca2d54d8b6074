package domain

import "strings"

// EnumMappingVersion identifies the storage strings defined in this file.
// Stored rows are compared against these strings, so changing one requires
// a new version and a data migration.
const EnumMappingVersion = 1

// PullRequestState is the state of a pull request.
type PullRequestState int

const (
	PullRequestStateOther PullRequestState = iota
	PullRequestStateOpen
	PullRequestStateClosed
)

// ReviewState is the verdict of a review.
type ReviewState int

const (
	ReviewStateOther ReviewState = iota
	ReviewStateApproved
	ReviewStateChangesRequested
	ReviewStateCommented
	ReviewStateDismissed
	ReviewStatePending
)

// AuthorAssociation is the relation between an account and a repository.
type AuthorAssociation int

const (
	AuthorAssociationOther AuthorAssociation = iota
	AuthorAssociationCollaborator
	AuthorAssociationContributor
	AuthorAssociationFirstTimer
	AuthorAssociationFirstTimeContributor
	AuthorAssociationMannequin
	AuthorAssociationMember
	AuthorAssociationNone
	AuthorAssociationOwner
)

// enumEntry binds a variant to the string GitHub sends and the string stored.
type enumEntry[E comparable] struct {
	value   E
	remote  string
	storage string
}

type enumTable[E comparable] struct {
	other    E
	byRemote map[string]E
	storage  map[E]string
}

func newEnumTable[E comparable](other E, entries ...enumEntry[E]) enumTable[E] {
	t := enumTable[E]{
		other:    other,
		byRemote: make(map[string]E, len(entries)),
		storage:  make(map[E]string, len(entries)),
	}
	for _, e := range entries {
		if e.remote != "" {
			t.byRemote[e.remote] = e.value
		}
		t.storage[e.value] = e.storage
	}
	return t
}

func (t enumTable[E]) parse(remote string) E {
	if v, ok := t.byRemote[strings.ToUpper(strings.TrimSpace(remote))]; ok {
		return v
	}
	return t.other
}

func (t enumTable[E]) store(v E) string {
	if s, ok := t.storage[v]; ok {
		return s
	}
	return t.storage[t.other]
}

var pullRequestStates = newEnumTable(PullRequestStateOther,
	enumEntry[PullRequestState]{PullRequestStateOpen, "OPEN", "open"},
	enumEntry[PullRequestState]{PullRequestStateClosed, "CLOSED", "closed"},
	enumEntry[PullRequestState]{PullRequestStateOther, "", "other"},
)

var reviewStates = newEnumTable(ReviewStateOther,
	enumEntry[ReviewState]{ReviewStateApproved, "APPROVED", "approved"},
	enumEntry[ReviewState]{ReviewStateChangesRequested, "CHANGES_REQUESTED", "changes_requested"},
	enumEntry[ReviewState]{ReviewStateCommented, "COMMENTED", "commented"},
	enumEntry[ReviewState]{ReviewStateDismissed, "DISMISSED", "dismissed"},
	enumEntry[ReviewState]{ReviewStatePending, "PENDING", "pending"},
	enumEntry[ReviewState]{ReviewStateOther, "", "other"},
)

var authorAssociations = newEnumTable(AuthorAssociationOther,
	enumEntry[AuthorAssociation]{AuthorAssociationCollaborator, "COLLABORATOR", "collaborator"},
	enumEntry[AuthorAssociation]{AuthorAssociationContributor, "CONTRIBUTOR", "contributor"},
	enumEntry[AuthorAssociation]{AuthorAssociationFirstTimer, "FIRST_TIMER", "first_timer"},
	enumEntry[AuthorAssociation]{AuthorAssociationFirstTimeContributor, "FIRST_TIME_CONTRIBUTOR", "first_time_contributor"},
	enumEntry[AuthorAssociation]{AuthorAssociationMannequin, "MANNEQUIN", "mannequin"},
	enumEntry[AuthorAssociation]{AuthorAssociationMember, "MEMBER", "member"},
	enumEntry[AuthorAssociation]{AuthorAssociationNone, "NONE", "none"},
	enumEntry[AuthorAssociation]{AuthorAssociationOwner, "OWNER", "owner"},
	enumEntry[AuthorAssociation]{AuthorAssociationOther, "", "other"},
)

func ParsePullRequestState(remote string) PullRequestState { return pullRequestStates.parse(remote) }
func (s PullRequestState) String() string { return pullRequestStates.store(s) }

func ParseReviewState(remote string) ReviewState { return reviewStates.parse(remote) }
func (s ReviewState) String() string { return reviewStates.store(s) }

func ParseAuthorAssociation(remote string) AuthorAssociation { return authorAssociations.parse(remote) }
func (a AuthorAssociation) String() string { return authorAssociations.store(a) }

// StoredPullRequestState returns the column value for a remote state.
// An absent remote value is stored as "".
func StoredPullRequestState(remote string) string {
	if strings.TrimSpace(remote) == "" {
		return ""
	}
	return ParsePullRequestState(remote).String()
}

// StoredReviewState returns the column value for a remote review state.
func StoredReviewState(remote string) string {
	if strings.TrimSpace(remote) == "" {
		return ""
	}
	return ParseReviewState(remote).String()
}

// StoredAuthorAssociation returns the column value for a remote association.
func StoredAuthorAssociation(remote string) string {
	if strings.TrimSpace(remote) == "" {
		return ""
	}
	return ParseAuthorAssociation(remote).String()
}
