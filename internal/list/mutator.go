package list

import (
	"fmt"
	"sort"
	"time"

	"downhome-cli/internal/model"
	"downhome-cli/internal/source"
)

// justNowWindow is how long a finished download still counts as "just now"
// for today's section header.
const justNowWindow = 30 * time.Minute

// Mutator folds the filtered item stream into a date-grouped, section-ordered
// flat sequence and pushes it into a Model.
//
// Grouping: day buckets most-recent-first; within a day, sections ordered by
// filter-type rank; within a section, items newest-first. Empty sections and
// empty days are pruned immediately. Every structural change rebuilds the
// whole sequence and replaces the model contents atomically; only value-only
// item updates patch the model in place.
type Mutator struct {
	src   source.Source
	model *Model
	now   func() time.Time

	days map[string]*dateGroup // keyed by local day

	hideAllHeaders     bool
	hideSectionHeaders bool
}

type dateGroup struct {
	day      time.Time
	sections map[model.FilterType]*section
}

type section struct {
	filter model.FilterType
	items  []model.OfflineItem // creation desc, id asc on ties
}

func NewMutator(src source.Source, m *Model, now func() time.Time) *Mutator {
	if now == nil {
		now = time.Now
	}
	mu := &Mutator{
		src:   src,
		model: m,
		now:   now,
		days:  map[string]*dateGroup{},
	}
	for _, it := range src.Items() {
		mu.insert(it)
	}
	src.AddObserver(mu)
	mu.pushAll()
	return mu
}

// Destroy unsubscribes from the filtered stream.
func (m *Mutator) Destroy() { m.src.RemoveObserver(m) }

// OnFilterTypeSelected adjusts header visibility for the active filter: the
// prefetched view drops all headers and separators, any other concrete filter
// drops section headers but keeps date headers.
func (m *Mutator) OnFilterTypeSelected(t model.FilterType) {
	m.hideAllHeaders = t == model.FilterPrefetched
	m.hideSectionHeaders = t != model.FilterNone
	m.pushAll()
}

func (m *Mutator) ItemsAdded(items []model.OfflineItem) {
	for _, it := range items {
		m.insert(it)
	}
	m.pushAll()
}

func (m *Mutator) ItemsRemoved(items []model.OfflineItem) {
	for _, it := range items {
		m.remove(it)
	}
	m.pushAll()
}

func (m *Mutator) ItemUpdated(old, updated model.OfflineItem) {
	if old.ID != updated.ID {
		panic(fmt.Sprintf("list: item update changed identity (%q -> %q)", old.ID, updated.ID))
	}
	// A moved day bucket or category regroups the item; anything else is an
	// in-place value change that must keep its position.
	if !DayOf(old.CreatedAt).Equal(DayOf(updated.CreatedAt)) ||
		model.FilterTypeOf(old) != model.FilterTypeOf(updated) {
		m.remove(old)
		m.insert(updated)
		m.pushAll()
		return
	}

	sec := m.sectionFor(updated)
	if sec == nil {
		return
	}
	for i := range sec.items {
		if sec.items[i].ID == updated.ID {
			sec.items[i] = updated
			break
		}
	}
	for i := 0; i < m.model.Size(); i++ {
		row, ok := m.model.Get(i).(OfflineItemRow)
		if !ok || row.Item.ID != updated.ID {
			continue
		}
		row.Item = updated
		m.model.Update(i, row)
		return
	}
}

func (m *Mutator) insert(it model.OfflineItem) {
	day := DayOf(it.CreatedAt)
	key := dayKey(day)
	grp := m.days[key]
	if grp == nil {
		grp = &dateGroup{day: day, sections: map[model.FilterType]*section{}}
		m.days[key] = grp
	}
	t := model.FilterTypeOf(it)
	sec := grp.sections[t]
	if sec == nil {
		sec = &section{filter: t}
		grp.sections[t] = sec
	}
	sec.items = append(sec.items, it)
	sort.Slice(sec.items, func(a, b int) bool {
		ia, ib := sec.items[a], sec.items[b]
		if !ia.CreatedAt.Equal(ib.CreatedAt) {
			return ia.CreatedAt.After(ib.CreatedAt)
		}
		return ia.ID < ib.ID
	})
}

func (m *Mutator) remove(it model.OfflineItem) {
	key := dayKey(DayOf(it.CreatedAt))
	grp := m.days[key]
	if grp == nil {
		return
	}
	t := model.FilterTypeOf(it)
	sec := grp.sections[t]
	if sec == nil {
		return
	}
	for i := range sec.items {
		if sec.items[i].ID == it.ID {
			sec.items = append(sec.items[:i], sec.items[i+1:]...)
			break
		}
	}
	// Never keep zero-length placeholders around.
	if len(sec.items) == 0 {
		delete(grp.sections, t)
	}
	if len(grp.sections) == 0 {
		delete(m.days, key)
	}
}

func (m *Mutator) sectionFor(it model.OfflineItem) *section {
	grp := m.days[dayKey(DayOf(it.CreatedAt))]
	if grp == nil {
		return nil
	}
	return grp.sections[model.FilterTypeOf(it)]
}

func (m *Mutator) pushAll() {
	m.model.Set(m.flatten())
}

func (m *Mutator) flatten() []Item {
	groups := make([]*dateGroup, 0, len(m.days))
	for _, g := range m.days {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].day.After(groups[b].day) })

	var out []Item
	for di, grp := range groups {
		secs := make([]*section, 0, len(grp.sections))
		for _, s := range grp.sections {
			secs = append(secs, s)
		}
		sort.Slice(secs, func(a, b int) bool {
			ra, rb := sectionRank(secs[a].filter), sectionRank(secs[b].filter)
			if ra != rb {
				return ra < rb
			}
			return secs[a].filter < secs[b].filter
		})

		for si, sec := range secs {
			first := si == 0
			if !m.hideAllHeaders && (first || !m.hideSectionHeaders) {
				out = append(out, SectionHeader{
					Type:        sec.filter,
					Date:        grp.day,
					ShowDate:    first,
					ShowDivider: !first,
					IsJustNow:   first && m.isJustNow(grp.day, secs),
				})
			}
			span := sec.filter == model.FilterImages && len(sec.items) == 1
			for _, it := range sec.items {
				out = append(out, OfflineItemRow{Item: it, SpanFullWidth: span})
			}
			if !m.hideAllHeaders && si < len(secs)-1 {
				out = append(out, Separator{Date: grp.day, After: sec.filter})
			}
		}
		if !m.hideAllHeaders && di < len(groups)-1 {
			out = append(out, Separator{Date: grp.day, DateDivider: true})
		}
	}
	return out
}

// isJustNow reports whether today's bucket holds an active download or one
// that completed within the just-now window.
func (m *Mutator) isJustNow(day time.Time, secs []*section) bool {
	now := m.now()
	if !DayOf(now).Equal(day) {
		return false
	}
	for _, sec := range secs {
		for _, it := range sec.items {
			if it.State == model.StateInProgress {
				return true
			}
			if it.CompletedAt != nil && now.Sub(*it.CompletedAt) < justNowWindow {
				return true
			}
		}
	}
	return false
}

// sectionRank orders sections within a day. Unrecognized filter types fall
// back to the generic bucket's rank so no item is ever dropped.
func sectionRank(t model.FilterType) int {
	switch t {
	case model.FilterSites:
		return 0
	case model.FilterVideos:
		return 1
	case model.FilterMusic:
		return 2
	case model.FilterImages:
		return 3
	case model.FilterDocuments:
		return 4
	case model.FilterPrefetched:
		return 6
	default:
		return 5
	}
}
