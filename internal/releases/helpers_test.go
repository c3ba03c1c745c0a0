package releases_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type releaseBody struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	Body    string `json:"body"`
}

func decodeReleaseBody(testInstance *testing.T, body any) releaseBody {
	testInstance.Helper()
	payload, marshalError := json.Marshal(body)
	require.NoError(testInstance, marshalError)
	var decoded releaseBody
	require.NoError(testInstance, json.Unmarshal(payload, &decoded))
	return decoded
}
