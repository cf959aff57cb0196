package views

// layoutHeader is the opening portion of the HTML layout.
const layoutHeader = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>ASL Rulebook</title>
    <script src="https://cdn.jsdelivr.net/npm/htmx.org@2.0.4/dist/htmx.min.js" crossorigin="anonymous"></script>
    <link rel="stylesheet" href="/static/css/style.css">
</head>
<body class="bg-gray-50 text-gray-900{{if .Options.NoAnimations}} no-animations{{end}}">
`

// layoutFooter is the closing portion of the HTML layout.
const layoutFooter = `
    <div hx-post="/escape" hx-trigger="keyup[key=='Escape'] from:body" hx-target="#app" hx-swap="outerHTML"></div>
</body>
</html>`

// partials are the named templates shared by the page and its fragments.
const partials = `
{{define "rulelink"}}
    {{- if .Resolved -}}
    <button class="ruleid{{if .ChapterID}} chapter-{{.ChapterID}}{{end}}"
            hx-post="/target" hx-vals='{{vals "cdoc" .Target.CDocID "ruleid" .Target.Ruleid "cset" .Target.CSetID}}'
            hx-target="#app" hx-swap="outerHTML"
            {{- if .BackgroundURL}} style="background-image: url('{{.BackgroundURL}}')"{{end}}>
        {{- if .IconURL}}<img class="icon" src="{{.IconURL}}" alt="">{{end}}{{.Caption -}}
    </button>
    {{- else -}}
    <span class="ruleid unknown">{{.Caption}}</span>
    {{- end -}}
{{end}}

{{define "collapser"}}
    {{- if .Shown -}}
    <button class="collapser" hx-post="/collapser" hx-vals='{{vals "id" .ID}}' hx-target="#app" hx-swap="outerHTML"
            aria-expanded="{{if .Collapsed}}false{{else}}true{{end}}">
        {{- if .Collapsed}}&#9660;{{else}}&#9650;{{end -}}
    </button>
    {{- end -}}
{{end}}

{{define "collapsible-style"}}
    {{- if .Collapsed}} style="max-height: {{.Height}}px; overflow: hidden;"{{end -}}
{{end}}

{{define "qa"}}
<div class="qa">
    <div class="caption">{{.Caption}}</div>
    {{range .Content}}
    <div class="qa-block">
        {{if .ImageURL}}<img class="qa-image" src="{{.ImageURL}}" alt="">{{end}}
        {{if .HasQuestion}}<div class="question">{{html .Question}}</div>{{else}}<div class="info">&#8505;</div>{{end}}
        {{range .Answers}}
        <div class="answer">{{html .HTML}}{{if .Source}} <span class="source">[{{.Source}}]</span>{{end}}</div>
        {{end}}
        {{if .SeeOther}}<div class="see-other">See {{.SeeOther}}.</div>{{end}}
    </div>
    {{end}}
</div>
{{end}}

{{define "anno"}}
<div class="anno {{.Kind}}">
    <span class="anno-kind">{{if eq (print .Kind) "errata"}}Errata{{else}}Note{{end}}</span>
    {{template "rulelink" .Ruleid}}
    <div class="content">{{html .Content}}</div>
    {{if .Source}}<div class="source">{{.Source}}</div>{{end}}
</div>
{{end}}
`

// appBody is the application region. HTMX actions swap it as a whole.
const appBody = `
<div id="app" class="flex h-screen">
    <aside id="nav" class="w-96 flex-shrink-0 flex flex-col border-r border-gray-200 bg-white">
        <nav class="flex border-b border-gray-200">
            {{range .Nav.Tabs.Tabs}}
            <button class="px-4 py-2 text-sm{{if .Active}} font-semibold border-b-2 border-blue-600{{end}}"
                    hx-post="/tab" hx-vals='{{vals "group" $.Nav.Tabs.ID "tab" .ID}}' hx-target="#app" hx-swap="outerHTML">{{.Caption}}</button>
            {{end}}
        </nav>

        {{if eq .Nav.Tabs.Active "search"}}
        {{with .Nav.Search}}
        <section id="search" class="flex-1 overflow-y-auto p-3">
            <form hx-post="/search" hx-target="#app" hx-swap="outerHTML" class="flex gap-2">
                <input type="search" name="q" value="{{.Query}}" placeholder="Search the rules"
                       class="flex-1 px-3 py-1.5 border border-gray-300 rounded-md">
                <button type="submit" class="px-3 py-1.5 bg-blue-600 text-white rounded-md">Go</button>
            </form>
            {{if .ShowFilters}}
            <div class="sr-filters flex gap-3 text-sm mt-2">
                {{range .Filters}}{{if .Enabled}}
                <label>
                    <input type="checkbox" {{if .Checked}}checked{{end}}
                           hx-post="/sr-filter" hx-vals='{{vals "type" (print .Type) "show" (not .Checked)}}' hx-target="#app" hx-swap="outerHTML">
                    {{.Label}}
                </label>
                {{end}}{{end}}
            </div>
            {{end}}
            {{if .Count}}<div class="sr-count text-xs text-gray-500 mt-1" title="{{.CountInfo}}">{{.Count}}</div>{{end}}
            <input type="hidden" id="_searchSeqNo_" value="{{.SeqNo}}">
            {{if .Error}}<div class="search-error text-red-600 mt-3">{{html .Error}}</div>{{end}}
            {{if .NoResults}}<div class="no-results text-gray-500 mt-3">{{.NoResults}}</div>{{end}}
            <div class="search-results space-y-3 mt-3">
                {{range .Results}}
                <div class="sr sr-{{.Type}}"{{if not .Visible}} hidden{{end}}>
                    {{if .Index}}{{with .Index}}
                    <div class="index-sr">
                        {{if .SR.Title}}<div class="title font-semibold">{{html (deref .SR.Title)}}</div>{{end}}
                        {{if .SR.Subtitle}}<div class="subtitle text-sm">{{html (deref .SR.Subtitle)}}</div>{{end}}
                        {{if .Ruleids}}<div class="ruleids">{{range .Ruleids}}{{template "rulelink" .}} {{end}}</div>{{end}}
                        {{if .SR.Content}}<div class="content">{{html (deref .SR.Content)}}</div>{{end}}
                        {{range .Rulerefs}}
                        <div class="ruleref">{{html .Caption}} {{range .Ruleids}}{{template "rulelink" .}} {{end}}</div>
                        {{end}}
                        {{if .SR.SeeAlso}}
                        <div class="see-also text-sm">See also:
                            {{range .SR.SeeAlso}}
                            <button class="see-also-link" hx-post="/search" hx-vals='{{vals "q" .}}' hx-target="#app" hx-swap="outerHTML">{{.}}</button>
                            {{end}}
                        </div>
                        {{end}}
                    </div>
                    {{end}}{{else if .QA}}{{template "qa" .QA}}
                    {{else if .Anno}}{{template "anno" .Anno}}
                    {{else if .ASOP}}
                    <div class="asop-entry-sr" data-section="{{.ASOP.SectionID}}" hx-post="/asop-sr" hx-vals='{{vals "index" .Position}}' hx-target="#app" hx-swap="outerHTML">
                        {{if .ASOP.Caption}}<div class="caption">{{.ASOP.Caption}}</div>{{end}}
                        <div class="content">{{html .ASOP.Content}}</div>
                    </div>
                    {{else}}
                    <div class="unknown-sr">???:{{.Unknown}}</div>
                    {{end}}
                </div>
                {{end}}
            </div>
        </section>
        {{end}}
        {{end}}

        {{if eq .Nav.Tabs.Active "chapters"}}
        <section id="chapters" class="flex-1 overflow-y-auto">
            {{template "accordion" .Nav.Chapters}}
        </section>
        {{end}}

        {{if eq .Nav.Tabs.Active "asop"}}
        <section id="asop-nav" class="flex-1 overflow-y-auto">
            {{template "accordion" .Nav.ASOP}}
            {{if .Nav.Footer}}<div class="asop-footer text-xs p-3">{{html .Nav.Footer}}</div>{{end}}
        </section>
        {{end}}

        {{if .RuleInfo}}
        <div id="rule-info" class="popup border-t border-gray-200 p-3 overflow-y-auto max-h-96" data-ruleid="{{.RuleInfoRuleid}}">
            {{range .RuleInfo}}
            <div class="rule-info-entry">
                {{template "collapser" .Collapser}}
                <div class="collapsible"{{template "collapsible-style" .Collapser}}>
                    {{if .QA}}{{template "qa" .QA}}{{else if .Anno}}{{template "anno" .Anno}}{{else}}<div class="unknown-ri">???:{{.Unknown}}</div>{{end}}
                </div>
            </div>
            {{end}}
        </div>
        {{end}}
    </aside>

    <main id="content" class="flex-1 flex flex-col min-w-0">
        {{with .ASOP}}
        <section id="asop" class="flex-1 overflow-y-auto p-6 bg-white">
            <h1 class="text-2xl font-bold mb-4">{{html .Title}}</h1>
            {{if .Preamble}}
            <div class="preamble">
                {{template "collapser" .Collapser}}
                <div class="collapsible"{{template "collapsible-style" .Collapser}}>{{html .Preamble}}</div>
            </div>
            {{end}}
            {{range .Sections}}
            <div class="asop-section">{{if .}}{{html .}}{{else}}<span class="loading">Loading&hellip;</span>{{end}}</div>
            {{end}}
        </section>
        {{else}}
        <nav class="flex border-b border-gray-200 bg-white">
            {{range .Content.Tabs.Tabs}}
            <button class="px-4 py-2 text-sm{{if .Active}} font-semibold border-b-2 border-blue-600{{end}}"
                    hx-post="/tab" hx-vals='{{vals "group" $.Content.Tabs.ID "tab" .ID}}' hx-target="#app" hx-swap="outerHTML">{{.Caption}}</button>
            {{end}}
        </nav>
        {{range .Content.Docs}}{{if .Visible}}
        <div class="content-doc flex-1" data-cdoc="{{.CDocID}}" data-target="{{.Target}}" data-page="{{.PageNo}}">
            {{if $.Content.NoContent}}
            <div class="no-content p-6 text-gray-500">Content is disabled: {{.Title}}{{if .Target}} #{{.Target}}{{else if .PageNo}} page {{.PageNo}}{{end}}</div>
            {{else if .URL}}
            <iframe class="w-full h-full" src="{{.URL}}" title="{{.Title}}"></iframe>
            {{else}}
            <div class="no-content p-6 text-gray-500">No content.</div>
            {{end}}
        </div>
        {{end}}{{end}}
        {{end}}
    </main>

    {{with .Footnotes}}
    <div id="footnotes" class="popup fixed bottom-4 right-4 w-96 bg-white border border-gray-300 rounded-lg shadow-lg p-4">
        {{range .Footnotes}}
        <div class="footnote">
            {{if .Captions}}<div class="captions">{{range .Captions}}{{template "rulelink" .}} {{end}}</div>{{end}}
            <div class="content">{{html .Content}}</div>
        </div>
        {{end}}
    </div>
    {{end}}

    {{if .Toasts}}
    <div id="toasts" class="fixed top-4 right-4 space-y-2">
        {{range .Toasts}}<div class="toast toast-{{.Level}}">{{html .HTML}}</div>{{end}}
    </div>
    {{end}}

    {{range $level, $msgs := .Stored}}{{range $msgs}}
    <input type="hidden" class="_stored-msg_ _{{$level}}-msg_" value="{{.}}">
    {{end}}{{end}}
</div>
`

// accordionBody renders an accordion and its panes.
const accordionBody = `
{{define "accordion"}}
<div class="accordion" data-accordion="{{.ID}}">
    {{$acc := .ID}}
    {{range .Panes}}
    <div class="pane{{if .Expanded}} expanded{{end}}"
         {{- if .BackgroundURL}} style="background-image: url('{{.BackgroundURL}}')"{{end}}>
        <button class="pane-title w-full text-left px-3 py-2 font-semibold"
                hx-post="/pane" hx-vals='{{vals "accordion" $acc "key" .Key}}' hx-target="#app" hx-swap="outerHTML">
            {{- if .IconURL}}<img class="icon" src="{{.IconURL}}" alt="">{{end}}{{html .Title -}}
        </button>
        {{if .Expanded}}
        <ul class="entries">
            {{$pane := .Key}}
            {{range .Entries}}
            <li>{{if .Key}}<button class="entry" hx-post="/entry" hx-vals='{{vals "accordion" $acc "pane" $pane "entry" .Key}}' hx-target="#app" hx-swap="outerHTML">{{.Caption}}</button>{{else}}<span class="entry">{{.Caption}}</span>{{end}}</li>
            {{end}}
        </ul>
        {{end}}
    </div>
    {{end}}
</div>
{{end}}
`

// notFoundBody is the 404 page content template.
const notFoundBody = `
<div class="text-center py-16">
    <h1 class="text-4xl font-bold text-gray-900 mb-4">404 - Not Found</h1>
    <p class="text-gray-500 mb-8">The page you are looking for does not exist.</p>
    <a href="/" class="inline-block px-6 py-3 bg-blue-600 text-white rounded-lg hover:bg-blue-700 transition-colors">
        Back to the rulebook
    </a>
</div>`
