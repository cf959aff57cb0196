package webapp

import (
	"testing"

	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccordion(t *testing.T, b *bus.Bus, id string, handlers AccordionHandlers) *Accordion {
	t.Helper()

	a := NewAccordion(b, id, handlers)
	t.Cleanup(a.Close)

	for _, key := range []string{"a", "b", "c"} {
		a.AddPane(&Pane{Key: key, Title: "Pane " + key, Entries: []PaneEntry{{Key: key + "1", Caption: "first"}, {Caption: "label"}}})
	}

	return a
}

func expandedCount(a *Accordion) int {
	n := 0

	for _, p := range a.Panes() {
		if p.Expanded() {
			n++
		}
	}

	return n
}

func TestAccordion_AtMostOnePaneExpanded(t *testing.T) {
	b := bus.New()
	a := newTestAccordion(t, b, "acc", AccordionHandlers{})

	steps := []struct {
		key  string
		want string
	}{
		{key: "a", want: "a"},
		{key: "b", want: "b"},
		{key: "b", want: "b"},
		{key: "", want: ""},
		{key: "c", want: "c"},
		{key: "missing", want: ""},
		{key: "a", want: "a"},
	}

	for _, s := range steps {
		b.Emit(bus.ExpandPane{Accordion: "acc", Key: s.key})

		assert.LessOrEqual(t, expandedCount(a), 1, "after expanding %q", s.key)
		assert.Equal(t, s.want, a.Expanded(), "after expanding %q", s.key)
	}
}

func TestAccordion_TransitionCallbacks(t *testing.T) {
	b := bus.New()

	var events []string

	a := newTestAccordion(t, b, "acc", AccordionHandlers{
		OnExpanded: func(key string, userClick bool) {
			events = append(events, "expanded:"+key+":"+map[bool]string{true: "click", false: "auto"}[userClick])
		},
		OnCollapsed: func(key string, _ bool) { events = append(events, "collapsed:"+key) },
	})

	a.ClickTitle("a")
	b.Emit(bus.ExpandPane{Accordion: "acc", Key: "b"})
	a.ClickTitle("b")
	a.ClickTitle("missing")

	assert.Equal(t, []string{
		"expanded:a:click",
		"collapsed:a",
		"expanded:b:auto",
		"collapsed:b",
	}, events)
	assert.Empty(t, a.Expanded())
}

func TestAccordion_IgnoresOtherAccordions(t *testing.T) {
	b := bus.New()
	first := newTestAccordion(t, b, "first", AccordionHandlers{})
	second := newTestAccordion(t, b, "second", AccordionHandlers{})

	first.ClickTitle("a")
	second.ClickTitle("c")

	assert.Equal(t, "a", first.Expanded())
	assert.Equal(t, "c", second.Expanded())
}

func TestAccordion_ClickEntry(t *testing.T) {
	b := bus.New()

	var clicked []PaneEntry

	a := newTestAccordion(t, b, "acc", AccordionHandlers{
		OnEntry: func(_ string, e PaneEntry) { clicked = append(clicked, e) },
	})

	assert.True(t, a.ClickEntry("b", "b1"))
	assert.False(t, a.ClickEntry("b", ""))
	assert.False(t, a.ClickEntry("b", "a1"))
	assert.False(t, a.ClickEntry("missing", "b1"))

	require.Len(t, clicked, 1)
	assert.Equal(t, PaneEntry{Key: "b1", Caption: "first"}, clicked[0])
}

func TestAccordion_Close(t *testing.T) {
	b := bus.New()
	a := NewAccordion(b, "acc", AccordionHandlers{})
	a.AddPane(&Pane{Key: "a"})

	a.Close()
	b.Emit(bus.ExpandPane{Accordion: "acc", Key: "a"})

	assert.Empty(t, a.Expanded())
	assert.Zero(t, b.Handlers(bus.ExpandPane{}))
}
