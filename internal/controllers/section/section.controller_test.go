package sectionController

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "agency/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryVisits struct {
	mu      sync.Mutex
	created []Visit
	err     error
	delay   time.Duration
}

func (m *memoryVisits) Create(ctx context.Context, visit *Visit) error {
	time.Sleep(m.delay)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, *visit)
	return nil
}

func (m *memoryVisits) CountAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.created)), nil
}

func (m *memoryVisits) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return m.CountAll(ctx)
}

type memoryFlags struct {
	mu         sync.Mutex
	logged     map[string]bool
	claimErr   error
	releaseErr error
}

func (m *memoryFlags) Claim(ctx context.Context, sessionID, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimErr != nil {
		return false, m.claimErr
	}
	key := sessionID + "|" + path
	if m.logged[key] {
		return false, nil
	}
	m.logged[key] = true
	return true, nil
}

func (m *memoryFlags) Release(ctx context.Context, sessionID, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.releaseErr != nil {
		return m.releaseErr
	}
	delete(m.logged, sessionID+"|"+path)
	return nil
}

func (m *memoryFlags) isLogged(sessionID, path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logged[sessionID+"|"+path]
}

type recordingTracker struct {
	paths []string
}

func (r *recordingTracker) PageView(path string) {
	r.paths = append(r.paths, path)
}

func newTestController() (*SectionController, *memoryVisits, *memoryFlags, *recordingTracker) {
	visits := &memoryVisits{}
	flags := &memoryFlags{logged: map[string]bool{}}
	tracker := &recordingTracker{}
	return New(visits, flags, tracker), visits, flags, tracker
}

var visitor = VisitInfo{SessionID: "1700000000000-abc123def", UserAgent: "test-agent"}

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want Section
	}{
		{"/", SectionHome},
		{"/quote", SectionQuote},
		{"/learn", SectionLearn},
		{"/careers", SectionCareers},
		{"/admin", SectionAdmin},
		{"/nowhere", SectionHome},
		{"", SectionHome},
		{"/quote/", SectionHome},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.path))
		})
	}
}

func TestPathForAndView(t *testing.T) {
	assert.Equal(t, "/", PathFor(SectionHome))
	assert.Equal(t, "/careers", PathFor(SectionCareers))

	assert.Equal(t, "quote", View(SectionQuote, false))
	assert.Equal(t, ViewAdminLogin, View(SectionAdmin, false))
	assert.Equal(t, ViewAdminDashboard, View(SectionAdmin, true))
}

func TestParseSection(t *testing.T) {
	section, ok := ParseSection("learn")
	assert.True(t, ok)
	assert.Equal(t, SectionLearn, section)

	for _, name := range []string{"", "blog", "Home"} {
		_, ok := ParseSection(name)
		assert.False(t, ok, name)
	}
}

func TestHandleRouteChange_LogsOncePerPath(t *testing.T) {
	controller, visits, _, tracker := newTestController()
	ctx := context.Background()

	first := controller.HandleRouteChange(ctx, "/quote", false, visitor)
	second := controller.HandleRouteChange(ctx, "/quote", false, visitor)

	assert.Equal(t, RouteResult{Section: SectionQuote, View: "quote", Path: "/quote"}, first)
	assert.Equal(t, first, second)

	require.Len(t, visits.created, 1)
	assert.Equal(t, "/quote", visits.created[0].Path)
	assert.Nil(t, visits.created[0].Referrer)
	require.NotNil(t, visits.created[0].UserAgent)
	assert.Equal(t, "test-agent", *visits.created[0].UserAgent)

	assert.Equal(t, []string{"/quote", "/quote"}, tracker.paths)
}

func TestHandleRouteChange_UnknownPathLogsRequestedPath(t *testing.T) {
	controller, visits, _, _ := newTestController()

	result := controller.HandleRouteChange(context.Background(), "/pricing", true, visitor)
	assert.Equal(t, SectionHome, result.Section)

	require.Len(t, visits.created, 1)
	assert.Equal(t, "/pricing", visits.created[0].Path)
}

func TestNavigate(t *testing.T) {
	controller, visits, _, _ := newTestController()

	result, err := controller.Navigate(context.Background(), "admin", true, visitor)
	require.NoError(t, err)
	assert.Equal(t, RouteResult{Section: SectionAdmin, View: ViewAdminDashboard, Path: "/admin", PushState: true}, result)
	require.Len(t, visits.created, 1)

	_, err = controller.Navigate(context.Background(), "blog", false, visitor)
	assert.ErrorIs(t, err, ErrUnknownSection)
	assert.Len(t, visits.created, 1)
}

func TestLogVisit_FailedInsertIsRetriedLater(t *testing.T) {
	controller, visits, flags, _ := newTestController()
	ctx := context.Background()

	visits.err = errors.New("db down")
	controller.LogVisit(ctx, "/learn", visitor)
	assert.Empty(t, visits.created)
	assert.False(t, flags.isLogged(visitor.SessionID, "/learn"))

	visits.err = nil
	controller.LogVisit(ctx, "/learn", visitor)
	assert.Len(t, visits.created, 1)
	assert.True(t, flags.isLogged(visitor.SessionID, "/learn"))
}

func TestLogVisit_SwallowsFlagErrors(t *testing.T) {
	controller, visits, flags, _ := newTestController()

	flags.claimErr = errors.New("valkey down")
	assert.NotPanics(t, func() { controller.LogVisit(context.Background(), "/", visitor) })
	assert.Empty(t, visits.created)

	flags.claimErr = nil
	flags.releaseErr = errors.New("valkey down")
	visits.err = errors.New("db down")
	assert.NotPanics(t, func() { controller.LogVisit(context.Background(), "/", visitor) })
	assert.Empty(t, visits.created)
}

func TestLogVisit_ConcurrentCallsInsertOnce(t *testing.T) {
	controller, visits, _, _ := newTestController()
	visits.delay = 5 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			controller.LogVisit(context.Background(), "/quote", visitor)
		}()
	}
	wg.Wait()

	count, err := visits.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLogVisit_SeparateSessions(t *testing.T) {
	controller, visits, _, _ := newTestController()

	controller.LogVisit(context.Background(), "/", VisitInfo{SessionID: "a"})
	controller.LogVisit(context.Background(), "/", VisitInfo{SessionID: "b"})
	controller.LogVisit(context.Background(), "/", VisitInfo{})

	assert.Len(t, visits.created, 2)
}
