package process

import (
	"context"
	stderrors "errors"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	procs []Info
	err   error
}

func (f fakeLister) List(context.Context) ([]Info, error) { return f.procs, f.err }

var snapshot = []Info{
	{PID: 10, Name: "systemd"},
	{PID: 20, Name: "Notepad"},
	{PID: 30, Name: "notepad"},
	{PID: 40, Name: "foo.exe"},
	{PID: 50, Name: "STRASSE"},
}

func TestMatch_ExactIsCaseSensitiveByDefault(t *testing.T) {
	p, ok := Match(snapshot, "notepad", MatchExact, true)
	require.True(t, ok)
	assert.Equal(t, int32(30), p.PID)

	_, ok = Match(snapshot, "NOTEPAD", MatchExact, true)
	assert.False(t, ok, "exact match must not fold case when case-sensitive")
}

func TestMatch_ExactCaseInsensitiveReturnsFirstInOrder(t *testing.T) {
	p, ok := Match(snapshot, "NOTEPAD", MatchExact, false)
	require.True(t, ok)
	assert.Equal(t, int32(20), p.PID)
}

func TestMatch_ExactCaseInsensitiveAcceptsExeSuffix(t *testing.T) {
	p, ok := Match(snapshot, "FOO", MatchExact, false)
	require.True(t, ok)
	assert.Equal(t, "foo.exe", p.Name)

	p, ok = Match(snapshot, "foo.exe", MatchExact, false)
	require.True(t, ok)
	assert.Equal(t, int32(40), p.PID)

	_, ok = Match(snapshot, "fo", MatchExact, false)
	assert.False(t, ok)
}

func TestMatch_ExactCaseSensitiveIsPlainEquality(t *testing.T) {
	_, ok := Match(snapshot, "foo", MatchExact, true)
	assert.False(t, ok, "case-sensitive exact match must not strip .exe")

	p, ok := Match(snapshot, "foo.exe", MatchExact, true)
	require.True(t, ok)
	assert.Equal(t, int32(40), p.PID)
}

func TestMatch_Contains(t *testing.T) {
	p, ok := Match(snapshot, "note", MatchContains, true)
	require.True(t, ok)
	assert.Equal(t, "notepad", p.Name)

	p, ok = Match(snapshot, "note", MatchContains, false)
	require.True(t, ok)
	assert.Equal(t, "Notepad", p.Name)

	_, ok = Match(snapshot, "pad++", MatchContains, false)
	assert.False(t, ok)
}

func TestMatch_ContainsFoldsUnicode(t *testing.T) {
	// Full case folding maps "ß" to "ss"; simple lowercasing would not.
	p, ok := Match(snapshot, "straße", MatchContains, false)
	require.True(t, ok)
	assert.Equal(t, int32(50), p.PID)

	_, ok = Match(snapshot, "straße", MatchContains, true)
	assert.False(t, ok)
}

func TestMatch_EmptyInputs(t *testing.T) {
	_, ok := Match(nil, "foo", MatchExact, true)
	assert.False(t, ok)
	_, ok = Match(snapshot, "", MatchContains, true)
	assert.False(t, ok, "empty target must never match")
	_, ok = Match(snapshot, "foo", MatchMode(7), true)
	assert.False(t, ok)
}

func TestParseMatchMode(t *testing.T) {
	m, err := ParseMatchMode(" Contains ")
	require.NoError(t, err)
	assert.Equal(t, MatchContains, m)

	m, err = ParseMatchMode("")
	require.NoError(t, err)
	assert.Equal(t, MatchExact, m)

	_, err = ParseMatchMode("regex")
	assert.Error(t, err)
	assert.Equal(t, "contains", MatchContains.String())
}

func TestMatcherFind(t *testing.T) {
	m := NewMatcher(fakeLister{procs: snapshot}, true)

	ref, ok, err := m.Find(context.Background(), "systemd", MatchExact)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Ref{PID: 10, Name: "systemd"}, ref)

	ref, ok, err = m.Find(context.Background(), "missing", MatchExact)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Ref{}, ref)
}

func TestMatcherFind_NoProcessesIsNotAnError(t *testing.T) {
	m := NewMatcher(fakeLister{}, true)
	_, ok, err := m.Find(context.Background(), "foo", MatchExact)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatcherFind_ClassifiesListingErrors(t *testing.T) {
	m := NewMatcher(fakeLister{err: errors.New("boom")}, true)
	_, _, err := m.Find(context.Background(), "foo", MatchExact)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQueryFailed))
	assert.True(t, stderrors.Is(err, ErrQueryFailed))
	assert.False(t, errors.Is(err, ErrPermissionDenied))

	m = NewMatcher(fakeLister{err: &os.PathError{Op: "open", Path: "/proc", Err: os.ErrPermission}}, true)
	_, _, err = m.Find(context.Background(), "foo", MatchExact)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPermissionDenied))
	assert.True(t, stderrors.Is(err, ErrPermissionDenied))
	assert.True(t, stderrors.Is(err, os.ErrPermission), "cause stays reachable")
}

func TestWithKind(t *testing.T) {
	assert.NoError(t, WithKind(nil, ErrQueryFailed))

	cause := errors.New("boom")
	err := WithKind(errors.Wrap(cause, "list"), ErrQueryFailed)
	assert.Equal(t, "list: boom", err.Error())
	assert.True(t, stderrors.Is(err, ErrQueryFailed))
	assert.True(t, errors.Is(err, ErrQueryFailed))
	assert.True(t, stderrors.Is(err, cause))
	assert.False(t, stderrors.Is(err, ErrAlreadyExited))

	outer := WithKind(errors.Wrap(WithKind(cause, ErrPermissionDenied), "terminate"), ErrAlreadyExited)
	assert.True(t, stderrors.Is(outer, ErrPermissionDenied))
	assert.True(t, stderrors.Is(outer, ErrAlreadyExited))
	assert.True(t, errors.Is(outer, ErrPermissionDenied))
	assert.True(t, errors.Is(outer, ErrAlreadyExited))
}

func TestNewLister(t *testing.T) {
	l, err := NewLister("")
	require.NoError(t, err)
	assert.IsType(t, GopsutilLister{}, l)

	l, err = NewLister(BackendPs)
	require.NoError(t, err)
	assert.IsType(t, PsLister{}, l)

	_, err = NewLister("wmi")
	assert.Error(t, err)
}
