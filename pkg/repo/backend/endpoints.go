package backend

import (
	"net/url"
	"strings"
)

// Placeholders substituted into templated endpoint paths.
const (
	sectionIDPlaceholder = "SECTION_ID"
	ruleidPlaceholder    = "RULEID"
	fnamePlaceholder     = "FNAME"
)

// Endpoints holds the paths of the backend routes, relative to the base URL.
type Endpoints struct {
	ContentDocs string `mapstructure:"content_docs"`
	AppConfig   string `mapstructure:"app_config"`
	Footnotes   string `mapstructure:"footnotes"`
	ASOP        string `mapstructure:"asop"`
	ASOPIntro   string `mapstructure:"asop_intro"`
	ASOPFooter  string `mapstructure:"asop_footer"`
	ASOPSection string `mapstructure:"asop_section"`
	RuleInfo    string `mapstructure:"rule_info"`
	Search      string `mapstructure:"search"`
	StartupMsgs string `mapstructure:"startup_msgs"`
	QAImage     string `mapstructure:"qa_image"`
}

// DefaultEndpoints returns the routes served by the rulebook backend.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		ContentDocs: "/content-docs",
		AppConfig:   "/app-config",
		Footnotes:   "/footnotes",
		ASOP:        "/asop",
		ASOPIntro:   "/asop/intro",
		ASOPFooter:  "/asop/footer",
		ASOPSection: "/asop/section/" + sectionIDPlaceholder,
		RuleInfo:    "/rule-info/" + ruleidPlaceholder,
		Search:      "/search",
		StartupMsgs: "/startup-msgs",
		QAImage:     "/qa/image/" + fnamePlaceholder,
	}
}

// withDefaults fills every empty path from DefaultEndpoints.
func (e Endpoints) withDefaults() Endpoints {
	def := DefaultEndpoints()

	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}

	fill(&e.ContentDocs, def.ContentDocs)
	fill(&e.AppConfig, def.AppConfig)
	fill(&e.Footnotes, def.Footnotes)
	fill(&e.ASOP, def.ASOP)
	fill(&e.ASOPIntro, def.ASOPIntro)
	fill(&e.ASOPFooter, def.ASOPFooter)
	fill(&e.ASOPSection, def.ASOPSection)
	fill(&e.RuleInfo, def.RuleInfo)
	fill(&e.Search, def.Search)
	fill(&e.StartupMsgs, def.StartupMsgs)
	fill(&e.QAImage, def.QAImage)

	return e
}

// expand substitutes an escaped value for placeholder in a templated path.
func expand(path, placeholder, value string) string {
	return strings.ReplaceAll(path, placeholder, url.PathEscape(value))
}
