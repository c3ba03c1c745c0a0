package properties

import (
	"strings"
)

const (
	// DefaultCategory is assigned to every synthesized record.
	DefaultCategory = "Other"
	// DefaultArchitectures marks a library as portable to every architecture.
	DefaultArchitectures = "*"
)

var nameSeparatorReplacer = strings.NewReplacer("-", " ", "_", " ")

// SynthesisInput carries the repository metadata and operator choices for one record.
type SynthesisInput struct {
	RepositoryName string
	Description    string
	Version        string
	Author         string
	Maintainer     string
	URL            string
}

// Synthesize derives a library.properties record from repository metadata.
func Synthesize(input SynthesisInput) Record {
	libraryName := nameSeparatorReplacer.Replace(input.RepositoryName)

	description := input.Description
	if len(strings.TrimSpace(description)) == 0 {
		description = libraryName
	}

	return NewRecord(map[string]string{
		KeyName:          libraryName,
		KeyVersion:       input.Version,
		KeyAuthor:        input.Author,
		KeyMaintainer:    input.Maintainer,
		KeySentence:      description,
		KeyParagraph:     description,
		KeyCategory:      DefaultCategory,
		KeyURL:           input.URL,
		KeyArchitectures: DefaultArchitectures,
	})
}
