package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/devcamper/internal/auth"
	"github.com/kailas-cloud/devcamper/internal/domain"
)

func TestTokenCmd_MintsValidToken(t *testing.T) {
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"token", "--user", "u-42", "--role", "admin", "--secret", "s3cret", "--ttl", "1h"})

	require.NoError(t, root.Execute())

	claims, err := auth.ValidateToken(strings.TrimSpace(out.String()), []byte("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{UserID: "u-42", Role: domain.RoleAdmin}, claims.Principal())
	assert.Contains(t, errOut.String(), "from now")
}

func TestTokenCmd_RejectsUnknownRole(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"token", "--user", "u1", "--role", "root", "--secret", "s", "--ttl", "1h"})

	assert.Error(t, root.Execute())
}

func TestTokenCmd_UserRequired(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"token", "--secret", "s", "--ttl", "1h"})

	assert.Error(t, root.Execute())
}

func TestReadRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bootcamps.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"_id":"a","name":"A"},{"_id":"b","name":"B"}]`), 0o600))

	recs, err := readRecords(path)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "B", recs[1]["name"])

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not":"an array"}`), 0o600))
	_, err = readRecords(bad)
	assert.Error(t, err)

	_, err = readRecords(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
