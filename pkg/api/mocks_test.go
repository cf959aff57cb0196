package api

import (
	"context"
	"io"
	"io/fs"
	"testing/fstest"

	"github.com/ksysoev/rulebook/pkg/core"
	"github.com/ksysoev/rulebook/pkg/webapp"
	"github.com/stretchr/testify/mock"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) AppConfig(ctx context.Context) (*core.AppConfig, error) {
	args := m.Called(ctx)
	cfg, _ := args.Get(0).(*core.AppConfig)

	return cfg, args.Error(1)
}

func (m *mockBackend) ContentDocs(ctx context.Context) ([]core.ContentDoc, error) {
	args := m.Called(ctx)
	docs, _ := args.Get(0).([]core.ContentDoc)

	return docs, args.Error(1)
}

func (m *mockBackend) Footnotes(ctx context.Context) (core.FootnoteIndex, error) {
	args := m.Called(ctx)
	fi, _ := args.Get(0).(core.FootnoteIndex)

	return fi, args.Error(1)
}

func (m *mockBackend) ASOP(ctx context.Context) (*core.ASOP, error) {
	args := m.Called(ctx)
	asop, _ := args.Get(0).(*core.ASOP)

	return asop, args.Error(1)
}

func (m *mockBackend) ASOPIntro(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockBackend) ASOPFooter(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockBackend) ASOPSection(ctx context.Context, sectionID string) (string, error) {
	args := m.Called(ctx, sectionID)
	return args.String(0), args.Error(1)
}

func (m *mockBackend) RuleInfo(ctx context.Context, ruleid string) ([]core.RuleInfo, error) {
	args := m.Called(ctx, ruleid)
	ri, _ := args.Get(0).([]core.RuleInfo)

	return ri, args.Error(1)
}

func (m *mockBackend) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	args := m.Called(ctx, query)
	srs, _ := args.Get(0).([]core.SearchResult)

	return srs, args.Error(1)
}

func (m *mockBackend) StartupMsgs(ctx context.Context) (*core.StartupMsgs, error) {
	args := m.Called(ctx)
	msgs, _ := args.Get(0).(*core.StartupMsgs)

	return msgs, args.Error(1)
}

func (m *mockBackend) QAImageURL(fname string) string {
	return m.Called(fname).String(0)
}

type mockViewRenderer struct {
	mock.Mock
}

func (m *mockViewRenderer) RenderApp(w io.Writer, snap *webapp.Snapshot, partial bool) error {
	return m.Called(w, snap, partial).Error(0)
}

func (m *mockViewRenderer) RenderNotFound(w io.Writer) error {
	return m.Called(w).Error(0)
}

func (m *mockViewRenderer) Assets() fs.FS {
	return fstest.MapFS{"css/style.css": {Data: []byte(".hilite { background: yellow; }")}}
}

// snapshots returns every snapshot rendered so far.
func (m *mockViewRenderer) snapshots() []*webapp.Snapshot {
	var out []*webapp.Snapshot

	for _, c := range m.Calls {
		if c.Method == "RenderApp" {
			out = append(out, c.Arguments.Get(1).(*webapp.Snapshot))
		}
	}

	return out
}

func (m *mockViewRenderer) lastSnapshot() *webapp.Snapshot {
	snaps := m.snapshots()
	if len(snaps) == 0 {
		return nil
	}

	return snaps[len(snaps)-1]
}
