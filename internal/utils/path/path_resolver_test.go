package pathutils

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathResolverResolve(testInstance *testing.T) {
	homeDirectory := filepath.Join(string(filepath.Separator), "home", "maker")
	resolver := NewPathResolverWithProvider(func() (string, error) { return homeDirectory, nil })

	testCases := []struct {
		name         string
		candidate    string
		fallback     string
		expectedPath string
	}{
		{name: "blank_uses_fallback", candidate: "  ", fallback: ".", expectedPath: "."},
		{name: "home_only", candidate: "~", fallback: ".", expectedPath: homeDirectory},
		{name: "home_relative", candidate: "~/libraries/out", fallback: ".", expectedPath: filepath.Join(homeDirectory, "libraries", "out")},
		{name: "other_user_unchanged", candidate: "~maker/out", fallback: ".", expectedPath: "~maker/out"},
		{name: "cleaned", candidate: "out/../generated/", fallback: ".", expectedPath: "generated"},
		{name: "both_blank", candidate: "", fallback: "", expectedPath: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			require.Equal(subtest, testCase.expectedPath, resolver.Resolve(testCase.candidate, testCase.fallback))
		})
	}
}

func TestPathResolverKeepsTildeWhenHomeUnavailable(testInstance *testing.T) {
	resolver := NewPathResolverWithProvider(func() (string, error) { return "", errors.New("no home") })
	require.Equal(testInstance, "~/out", resolver.ExpandHome("~/out"))
}
