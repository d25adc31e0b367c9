package domain_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestTag(t *testing.T) {
	err := domain.Tag(domain.ErrInvalidName, "name", "a..b")

	require.ErrorIs(t, err, domain.ErrInvalidName)
	assert.Equal(t, domain.ErrInvalidName.Error(), err.Error())

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "a..b", zErr.Metadata()["name"])
}

func TestTag_Chained(t *testing.T) {
	err := zerr.With(domain.Tag(domain.ErrScanFailed, "root", "/a"), "kind", "dir")

	require.ErrorIs(t, err, domain.ErrScanFailed)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "/a", zErr.Metadata()["root"])
	assert.Equal(t, "dir", zErr.Metadata()["kind"])
}

func TestCause(t *testing.T) {
	err := domain.Cause(domain.ErrScanFailed, fs.ErrNotExist)

	require.ErrorIs(t, err, domain.ErrScanFailed)
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "file does not exist")

	bare := zerr.With(domain.Cause(domain.ErrScanFailed, nil), "root", "/a")
	require.ErrorIs(t, bare, domain.ErrScanFailed)
	assert.Equal(t, domain.ErrScanFailed.Error(), bare.Error())
	assert.False(t, errors.Is(domain.ErrScanFailed, fs.ErrNotExist))
}
