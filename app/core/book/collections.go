package book

import (
	"sort"
	"time"

	"github.com/pocketbook/pocketbook/app/core/record"
)

// Contacts is the address book: contact records keyed by name.
type Contacts = Book[*record.Record]

// Notes is the notebook: notes keyed by id.
type Notes = Book[*record.Note]

// Upcoming pairs a contact with the days left until its birthday.
type Upcoming struct {
	Record *record.Record
	Days   int
}

// UpcomingBirthdays returns contacts whose next birthday is at most days away,
// nearest first. Ties keep insertion order.
func UpcomingBirthdays(b *Contacts, now time.Time, days int) []Upcoming {
	out := make([]Upcoming, 0)
	for _, r := range b.items {
		d, ok := r.DaysToBirthday(now)
		if ok && d <= days {
			out = append(out, Upcoming{Record: r.Clone(), Days: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Days < out[j].Days
	})
	return out
}

// FindByTags returns notes carrying any of tags, or all of them when all is set.
func FindByTags(b *Notes, tags []string, all bool) []*record.Note {
	return b.Filter(func(n *record.Note) bool {
		return n.HasTags(tags, all)
	})
}
