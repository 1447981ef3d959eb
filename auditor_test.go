package tap

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditor_StartsDisabled(t *testing.T) {
	a := New()
	assert.False(t, a.Enabled())
}

func TestAuditor_ScopeNesting(t *testing.T) {
	a := New()

	outer := a.Start()
	assert.True(t, a.Enabled())

	inner := a.Start()
	assert.True(t, a.Enabled())

	inner.End()
	assert.True(t, a.Enabled(), "outer scope still open")

	outer.End()
	assert.False(t, a.Enabled())
}

func TestAuditor_ScopeRestoresManualState(t *testing.T) {
	a := New()
	a.SetEnabled(true)

	scope := a.Start()
	scope.End()

	assert.True(t, a.Enabled(), "scope restores the enabled state it observed")
}

func TestAuditor_ScopeEndIsIdempotent(t *testing.T) {
	a := New()

	outer := a.Start()
	inner := a.Start()

	inner.End()
	inner.End() // second End must not pop the outer scope's state

	assert.True(t, a.Enabled())
	outer.End()
	assert.False(t, a.Enabled())
}

func TestAuditor_WithinRunsScoped(t *testing.T) {
	a := New()

	var insideEnabled bool
	a.Within(func() {
		insideEnabled = a.Enabled()
	})

	assert.True(t, insideEnabled)
	assert.False(t, a.Enabled())
}

func TestAuditor_WithinEndsScopeOnPanic(t *testing.T) {
	a := New()

	assert.PanicsWithValue(t, "inner panic", func() {
		a.Within(func() { panic("inner panic") })
	})

	assert.False(t, a.Enabled(), "scope ends even when fn panics")
}

func TestAuditor_Wrap_BypassWhenDisabled(t *testing.T) {
	a := New()
	j := &journal{}
	h := &stubHook{name: "h", journal: j}

	calls := 0
	wrapped, err := a.Wrap("plain", func(ctx context.Context, args ...any) (any, error) {
		calls++
		return args[0], nil
	}, WithHooks(h))
	require.NoError(t, err)

	result, callErr := wrapped(t.Context(), "passthrough")

	require.NoError(t, callErr)
	assert.Equal(t, "passthrough", result)
	assert.Equal(t, 1, calls)
	assert.Empty(t, j.all(), "disabled auditing means zero hook calls")
}

func TestAuditor_Wrap_DispatchesWhenEnabled(t *testing.T) {
	a := New()
	j := &journal{}
	h := &stubHook{name: "h", journal: j}

	wrapped, err := a.Wrap("audited", okTarget("r"), WithHooks(h))
	require.NoError(t, err)

	a.Within(func() {
		result, callErr := wrapped(t.Context())
		assert.NoError(t, callErr)
		assert.Equal(t, "r", result)
	})

	assert.Equal(t, []string{"h:enter", "h:exit", "h:cleanup"}, j.all())
}

func TestAuditor_Wrap_NilTarget(t *testing.T) {
	a := New()

	_, err := a.Wrap("nil", nil)

	assert.Error(t, err)
}

func TestAuditor_Wrap_DuplicateName(t *testing.T) {
	a := New()

	_, err := a.Wrap("dup", okTarget(nil))
	require.NoError(t, err)

	_, err = a.Wrap("dup", okTarget(nil))
	assert.ErrorIs(t, err, ErrDuplicateEvent)
}

func TestAuditor_Unwrap(t *testing.T) {
	a := New()

	_, err := a.Wrap("gone", okTarget(nil))
	require.NoError(t, err)

	require.NoError(t, a.Unwrap("gone"))

	// The name is free again.
	_, err = a.Wrap("gone", okTarget(nil))
	assert.NoError(t, err)
}

func TestAuditor_ToggleEvent(t *testing.T) {
	a := New()
	j := &journal{}
	h := &stubHook{name: "h", journal: j}

	wrapped, err := a.Wrap("toggled", okTarget("r"), WithHooks(h))
	require.NoError(t, err)

	require.NoError(t, a.ToggleEvent("toggled", false))

	a.Within(func() {
		_, _ = wrapped(t.Context())
	})

	assert.Empty(t, j.all(), "disabled event bypasses hooks even inside a scope")

	assert.ErrorIs(t, a.ToggleEvent("ghost", true), ErrUnknownEvent)
}

func TestAuditor_RaiseEvent(t *testing.T) {
	a := New()
	j := &journal{}
	h := &stubHook{name: "h", journal: j}

	_, err := a.CreateEvent("sig", WithHooks(h))
	require.NoError(t, err)

	// Outside a scope: no-op.
	require.NoError(t, a.RaiseEvent(t.Context(), "sig", "data"))
	assert.Empty(t, j.all())

	a.Within(func() {
		require.NoError(t, a.RaiseEvent(t.Context(), "sig", "data"))
	})
	assert.Equal(t, []string{"h:enter", "h:exit", "h:cleanup"}, j.all())

	assert.ErrorIs(t, a.RaiseEvent(t.Context(), "ghost"), ErrUnknownEvent)
}

func TestAuditor_ReportAll_Deduplicates(t *testing.T) {
	a := New()
	j := &journal{}
	shared := &stubHook{name: "shared", journal: j}

	_, err := a.Wrap("one", okTarget(nil), WithHooks(shared))
	require.NoError(t, err)
	_, err = a.Wrap("two", okTarget(nil), WithHooks(shared))
	require.NoError(t, err)

	sink := &memorySink{}
	require.NoError(t, a.ReportAll(sink))

	assert.Len(t, sink.entries, 1, "shared hook reports exactly once")
}

func TestAuditor_ReportAll_CollectsFailures(t *testing.T) {
	a := New()
	j := &journal{}
	reportFail := errors.New("report broke")
	bad := &stubHook{name: "bad", journal: j, reportErr: reportFail}
	good := &stubHook{name: "good", journal: j}

	_, err := a.Wrap("e", okTarget(nil), WithHooks(bad, good))
	require.NoError(t, err)

	sink := &memorySink{}
	err = a.ReportAll(sink)

	assert.ErrorIs(t, err, reportFail)
	assert.Len(t, sink.entries, 1, "good hook still reported")
}

func TestAuditor_ResetAll(t *testing.T) {
	a := New()
	j := &journal{}
	h := &stubHook{name: "h", journal: j}

	wrapped, err := a.Wrap("counted", okTarget(nil), WithHooks(h))
	require.NoError(t, err)

	a.Within(func() {
		_, _ = wrapped(t.Context())
	})
	require.NotEmpty(t, j.all())

	require.NoError(t, a.ResetAll())

	assert.True(t, h.resetCalled)
}

func TestScope_ReportAndResetOnEnd(t *testing.T) {
	a := New()
	j := &journal{}
	h := &stubHook{name: "h", journal: j}

	wrapped, err := a.Wrap("scoped", okTarget(nil), WithHooks(h))
	require.NoError(t, err)

	sink := &memorySink{}
	scope := a.Start(ReportOnEnd(sink), ResetOnEnd())

	_, _ = wrapped(t.Context())

	scope.End()

	assert.Len(t, sink.entries, 1, "report ran at scope end")
	assert.True(t, h.resetCalled, "reset ran at scope end")
	assert.False(t, a.Enabled())
}

func TestDefaultAuditor_PackageFunctions(t *testing.T) {
	j := &journal{}
	h := &stubHook{name: "h", journal: j}

	wrapped, err := Wrap("pkg.default", okTarget("ok"), WithHooks(h))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Default().Unwrap("pkg.default") })

	Within(func() {
		result, callErr := wrapped(t.Context(), 1)
		assert.NoError(t, callErr)
		assert.Equal(t, "ok", result)
	})

	assert.Equal(t, []string{"h:enter", "h:exit", "h:cleanup"}, j.all())
	assert.False(t, Default().Enabled())
}

// memorySink is a local ReportSink double for in-package tests.
type memorySink struct {
	entries []string
}

func (s *memorySink) Report(event string, level zerolog.Level, msg string) {
	s.entries = append(s.entries, event+": "+msg)
}
