package githubapi

import (
	"fmt"
	"strings"

	"github.com/temirov/libkeeper/internal/utils/flags"
)

const (
	repositoryReferenceTemplateConstant = "%s/%s"
	entryKindFileConstant               = "file"
	entryKindDirectoryConstant          = "dir"
	repositoryTypeAllConstant           = "all"
	repositoryTypeOwnerConstant         = "owner"
	repositoryTypePublicConstant        = "public"
	repositoryTypePrivateConstant       = "private"
	repositoryTypeMemberConstant        = "member"
	repositoryTypeInvalidTemplate       = "unsupported repository type %q"
)

// RepositoryRef identifies a repository by owner and name.
type RepositoryRef struct {
	Owner string
	Name  string
}

// String renders the owner/name form.
func (reference RepositoryRef) String() string {
	return fmt.Sprintf(repositoryReferenceTemplateConstant, reference.Owner, reference.Name)
}

// Repository carries the repository details used by libkeeper commands.
type Repository struct {
	Ref           RepositoryRef
	Description   string
	HTMLURL       string
	CloneURL      string
	DefaultBranch string
}

// Account describes a GitHub user or organization.
type Account struct {
	Login string
	Name  string
}

// DisplayName returns the account name, falling back to the login when no name is set.
func (account Account) DisplayName() string {
	trimmedName := strings.TrimSpace(account.Name)
	if len(trimmedName) > 0 {
		return trimmedName
	}
	return account.Login
}

// EntryKind enumerates directory listing entry types.
type EntryKind string

// Directory entry kinds reported by the contents API.
const (
	EntryKindFile      EntryKind = EntryKind(entryKindFileConstant)
	EntryKindDirectory EntryKind = EntryKind(entryKindDirectoryConstant)
)

// DirectoryEntry is one immediate child of a listed directory.
type DirectoryEntry struct {
	Name string
	Kind EntryKind
}

// IsDirectory reports whether the entry is a directory.
func (entry DirectoryEntry) IsDirectory() bool {
	return entry.Kind == EntryKindDirectory
}

// FileContent describes a file returned by the contents API.
type FileContent struct {
	Path string
	SHA  string
}

// ReleaseDescriptor holds the values submitted when creating a release.
type ReleaseDescriptor struct {
	TagName string
	Title   string
	Body    string
}

// Release describes an existing GitHub release.
type Release struct {
	ID      int64
	TagName string
	Name    string
	HTMLURL string
}

// CreateFileRequest describes a file creation commit.
type CreateFileRequest struct {
	Path           string
	Message        string
	EncodedContent string
	Branch         string
}

// CommitReference identifies the commit produced by a file creation.
type CommitReference struct {
	SHA     string
	HTMLURL string
}

// RepositoryType filters account repository listings.
type RepositoryType string

// Repository listing filters accepted by the GitHub API.
const (
	RepositoryTypeAll     RepositoryType = RepositoryType(repositoryTypeAllConstant)
	RepositoryTypeOwner   RepositoryType = RepositoryType(repositoryTypeOwnerConstant)
	RepositoryTypePublic  RepositoryType = RepositoryType(repositoryTypePublicConstant)
	RepositoryTypePrivate RepositoryType = RepositoryType(repositoryTypePrivateConstant)
	RepositoryTypeMember  RepositoryType = RepositoryType(repositoryTypeMemberConstant)
)

// RepositoryTypeChoices lists the accepted repository type values in display order.
func RepositoryTypeChoices() []string {
	return []string{
		string(RepositoryTypeAll),
		string(RepositoryTypeOwner),
		string(RepositoryTypePublic),
		string(RepositoryTypePrivate),
		string(RepositoryTypeMember),
	}
}

// ParseRepositoryType normalizes a textual repository type, defaulting to all when empty.
func ParseRepositoryType(value string) (RepositoryType, error) {
	if len(strings.TrimSpace(value)) == 0 {
		return RepositoryTypeAll, nil
	}
	choice, matched := flags.MatchChoice(value, RepositoryTypeChoices())
	if !matched {
		return "", fmt.Errorf(repositoryTypeInvalidTemplate, value)
	}
	return RepositoryType(choice), nil
}

// LookupStatus distinguishes a found resource from an expected absence.
type LookupStatus int

// Lookup statuses.
const (
	LookupAbsent LookupStatus = iota
	LookupFound
)

// Lookup carries the result of a query whose target may legitimately be missing.
// Failures other than absence are returned separately as errors.
type Lookup[T any] struct {
	Status LookupStatus
	Value  T
}

// Found wraps a located value.
func Found[T any](value T) Lookup[T] {
	return Lookup[T]{Status: LookupFound, Value: value}
}

// Absent reports a missing resource.
func Absent[T any]() Lookup[T] {
	return Lookup[T]{Status: LookupAbsent}
}

// IsFound reports whether the lookup located its target.
func (lookup Lookup[T]) IsFound() bool {
	return lookup.Status == LookupFound
}
