package webapp

import (
	"context"

	"github.com/ksysoev/rulebook/pkg/core"
)

// Backend is the data source the application is fed from.
type Backend interface {
	AppConfig(ctx context.Context) (*core.AppConfig, error)
	ContentDocs(ctx context.Context) ([]core.ContentDoc, error)
	Footnotes(ctx context.Context) (core.FootnoteIndex, error)
	ASOP(ctx context.Context) (*core.ASOP, error)
	ASOPIntro(ctx context.Context) (string, error)
	ASOPFooter(ctx context.Context) (string, error)
	ASOPSection(ctx context.Context, sectionID string) (string, error)
	RuleInfo(ctx context.Context, ruleid string) ([]core.RuleInfo, error)
	Search(ctx context.Context, query string) ([]core.SearchResult, error)
	StartupMsgs(ctx context.Context) (*core.StartupMsgs, error)
	QAImageURL(fname string) string
}
