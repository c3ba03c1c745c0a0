// Package inputs reads repository names piped into libkeeper commands.
package inputs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	readerNotConfiguredMessageConstant  = "repository name reader not configured"
	visitorNotConfiguredMessageConstant = "repository name visitor not configured"
	readNamesErrorTemplateConstant      = "failed to read repository names: %w"
)

// NameVisitor receives one repository name at a time.
type NameVisitor func(repositoryName string) error

// VisitNames calls visit for every non-blank, trimmed line of reader in order.
// The first visitor error stops the pass and is returned unchanged.
func VisitNames(reader io.Reader, visit NameVisitor) error {
	if reader == nil {
		return errors.New(readerNotConfiguredMessageConstant)
	}
	if visit == nil {
		return errors.New(visitorNotConfiguredMessageConstant)
	}

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		repositoryName := strings.TrimSpace(scanner.Text())
		if len(repositoryName) == 0 {
			continue
		}
		if visitError := visit(repositoryName); visitError != nil {
			return visitError
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return fmt.Errorf(readNamesErrorTemplateConstant, scanError)
	}
	return nil
}

// ReadNames collects every name VisitNames would visit.
func ReadNames(reader io.Reader) ([]string, error) {
	repositoryNames := make([]string, 0)
	visitError := VisitNames(reader, func(repositoryName string) error {
		repositoryNames = append(repositoryNames, repositoryName)
		return nil
	})
	if visitError != nil {
		return nil, visitError
	}
	return repositoryNames, nil
}
