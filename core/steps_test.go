package core

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/santiagomed/rcgen/component"
	"github.com/santiagomed/rcgen/fs"
	"github.com/santiagomed/rcgen/logger"
	"github.com/santiagomed/rcgen/metrics"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unlistableFs refuses to open directories, so walking them fails.
type unlistableFs struct {
	afero.Fs
}

func (u unlistableFs) Open(name string) (afero.File, error) {
	if info, err := u.Fs.Stat(name); err == nil && info.IsDir() {
		return nil, errors.New("permission denied")
	}
	return u.Fs.Open(name)
}

func TestWriteFilesStep_ListingFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	step := &WriteFilesStep{
		fs:      &fs.FileSystem{Fs: unlistableFs{afero.NewMemMapFs()}},
		metrics: metrics.NewRecorder(),
	}
	state := &State{
		Request:  userCardRequest(),
		Artifact: &component.Artifact{Source: "x", ComponentName: "UserCard", Origin: component.OriginGenerated},
		Logger:   logger.New(&buf, true),
	}

	require.NoError(t, step.Execute(context.Background(), state))

	assert.Equal(t, "src/components/UserCard/UserCard.jsx", state.Written.ComponentFile)
	assert.Contains(t, buf.String(), "Unable to list src/components/UserCard")
	assert.Contains(t, buf.String(), "permission denied")
}
