package main

import (
	"testing"

	"github.com/poiesic/refind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	kind, err := parseKind("lost")
	require.NoError(t, err)
	assert.Equal(t, core.ReportKindLost, kind)

	kind, err = parseKind("FOUND")
	require.NoError(t, err)
	assert.Equal(t, core.ReportKindFound, kind)

	_, err = parseKind("stolen")
	assert.Error(t, err)
}

func TestParseSubject(t *testing.T) {
	subject, err := parseSubject("person")
	require.NoError(t, err)
	assert.Equal(t, core.SubjectKindPerson, subject)

	subject, err = parseSubject("Item")
	require.NoError(t, err)
	assert.Equal(t, core.SubjectKindItem, subject)

	_, err = parseSubject("pet")
	assert.Error(t, err)
}

func TestParseMatchStatus(t *testing.T) {
	status, err := parseMatchStatus("")
	require.NoError(t, err)
	assert.Equal(t, core.MatchStatus(0), status)

	status, err = parseMatchStatus("pending")
	require.NoError(t, err)
	assert.Equal(t, core.MatchStatusPending, status)

	status, err = parseMatchStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, core.MatchStatusConfirmedReunited, status)

	status, err = parseMatchStatus("false")
	require.NoError(t, err)
	assert.Equal(t, core.MatchStatusFalseMatch, status)

	_, err = parseMatchStatus("maybe")
	assert.Error(t, err)
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "-", formatScore(core.Score{}))
	assert.Equal(t, "0.750", formatScore(core.ValidScore(0.75)))
}
